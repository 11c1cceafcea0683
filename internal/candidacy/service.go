// Package candidacy manages job applications: submission, the decision
// lifecycle and the data external collaborators attach to an application.
package candidacy

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/apperrors"
	"github.com/talentflow/recruitment-backend/internal/domain/entity"
	"github.com/talentflow/recruitment-backend/internal/repository"
)

// ResumeReader extracts text from a resume file
type ResumeReader interface {
	ExtractText(path string) (string, error)
}

// Service manages application lifecycle
type Service struct {
	jobRepo      *repository.JobRepository
	appRepo      *repository.ApplicationRepository
	resumeReader ResumeReader
	logger       *zap.Logger
}

// NewService creates a new candidacy service. resumeReader may be nil when
// resume parsing is disabled.
func NewService(
	jobRepo *repository.JobRepository,
	appRepo *repository.ApplicationRepository,
	resumeReader ResumeReader,
	logger *zap.Logger,
) *Service {
	return &Service{
		jobRepo:      jobRepo,
		appRepo:      appRepo,
		resumeReader: resumeReader,
		logger:       logger,
	}
}

// Submit creates a new application for a job. One candidate may apply once
// per job; a duplicate surfaces as a conflict. Resume text extraction is best
// effort: a parse failure is logged and the application is still created.
func (s *Service) Submit(jobID, candidateID uuid.UUID, resumeFile string) (*entity.Application, error) {
	if _, err := s.jobRepo.GetByID(jobID); err != nil {
		return nil, err
	}

	resumeText := ""
	if resumeFile != "" && s.resumeReader != nil {
		text, err := s.resumeReader.ExtractText(resumeFile)
		if err != nil {
			s.logger.Warn("Failed to extract resume text",
				zap.String("job_id", jobID.String()),
				zap.String("candidate_id", candidateID.String()),
				zap.String("resume_file", resumeFile),
				zap.Error(err))
		} else {
			resumeText = text
		}
	}

	app := &entity.Application{
		ID:          uuid.New(),
		JobID:       jobID,
		CandidateID: candidateID,
		Status:      entity.ApplicationStatusPending,
		AppliedAt:   time.Now().UTC(),
		ResumeFile:  resumeFile,
		ResumeText:  resumeText,
	}

	if err := s.appRepo.Create(nil, app); err != nil {
		return nil, err
	}

	s.logger.Info("Application submitted",
		zap.String("id", app.ID.String()),
		zap.String("job_id", jobID.String()),
		zap.String("candidate_id", candidateID.String()))

	return app, nil
}

// Accept marks a pending application as accepted, enabling process creation
func (s *Service) Accept(id uuid.UUID) (*entity.Application, error) {
	return s.decide(id, entity.ApplicationStatusAccepted)
}

// Reject marks a pending application as rejected
func (s *Service) Reject(id uuid.UUID) (*entity.Application, error) {
	return s.decide(id, entity.ApplicationStatusRejected)
}

// Withdraw marks a pending application as withdrawn by the candidate
func (s *Service) Withdraw(id uuid.UUID) (*entity.Application, error) {
	return s.decide(id, entity.ApplicationStatusWithdrawn)
}

func (s *Service) decide(id uuid.UUID, target entity.ApplicationStatus) (*entity.Application, error) {
	app, err := s.appRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !app.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: application %s cannot move from %s to %s",
			apperrors.ErrInvalidState, id, app.Status, target)
	}

	if err := s.appRepo.UpdateStatus(nil, id, target); err != nil {
		return nil, err
	}

	s.logger.Info("Application decided",
		zap.String("id", id.String()),
		zap.String("from", string(app.Status)),
		zap.String("to", string(target)))

	app.Status = target
	return app, nil
}

// GetByID retrieves an application
func (s *Service) GetByID(id uuid.UUID) (*entity.Application, error) {
	return s.appRepo.GetByID(id)
}

// ListByJob retrieves a job's applications
func (s *Service) ListByJob(jobID uuid.UUID) ([]*entity.Application, error) {
	if _, err := s.jobRepo.GetByID(jobID); err != nil {
		return nil, err
	}
	return s.appRepo.ListByJob(jobID)
}

// SetCompatibilityScore stores a score computed by an external collaborator.
// No scoring happens here.
func (s *Service) SetCompatibilityScore(id uuid.UUID, score float64) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("%w: compatibility score must be within [0, 100], got %.2f",
			apperrors.ErrValidation, score)
	}
	return s.appRepo.SetCompatibilityScore(nil, id, score)
}

// Package jobs manages job postings, the aggregate that owns pipeline stages
// and anchors authorization.
package jobs

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/apperrors"
	"github.com/talentflow/recruitment-backend/internal/domain/entity"
	"github.com/talentflow/recruitment-backend/internal/repository"
)

// Service manages job postings
type Service struct {
	jobRepo *repository.JobRepository
	logger  *zap.Logger
}

// NewService creates a new jobs service
func NewService(jobRepo *repository.JobRepository, logger *zap.Logger) *Service {
	return &Service{
		jobRepo: jobRepo,
		logger:  logger,
	}
}

// Create creates a new job posting
func (s *Service) Create(organizationID, recruiterID uuid.UUID, title, description string) (*entity.Job, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: job title must not be blank", apperrors.ErrValidation)
	}

	job := &entity.Job{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		RecruiterID:    recruiterID,
		Title:          title,
		Description:    description,
		Status:         entity.JobStatusOpen,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.jobRepo.Create(nil, job); err != nil {
		return nil, err
	}

	s.logger.Info("Job created",
		zap.String("id", job.ID.String()),
		zap.String("title", job.Title))

	return job, nil
}

// GetByID retrieves a job posting
func (s *Service) GetByID(id uuid.UUID) (*entity.Job, error) {
	return s.jobRepo.GetByID(id)
}

// ListByRecruiter retrieves a recruiter's job postings
func (s *Service) ListByRecruiter(recruiterID uuid.UUID) ([]*entity.Job, error) {
	return s.jobRepo.ListByRecruiter(recruiterID)
}

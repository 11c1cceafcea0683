// Package pipeline manages a job's stage templates: creation, metadata edits
// and the stage-level status machine. Stage status tracks the template's own
// lifecycle and is orthogonal to any candidate's movement through the
// pipeline.
package pipeline

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

// Service manages pipeline stage definitions
type Service struct {
	jobRepo   *repository.JobRepository
	stageRepo *repository.StageRepository
	logger    *zap.Logger
}

// NewService creates a new pipeline service
func NewService(jobRepo *repository.JobRepository, stageRepo *repository.StageRepository, logger *zap.Logger) *Service {
	return &Service{
		jobRepo:   jobRepo,
		stageRepo: stageRepo,
		logger:    logger,
	}
}

// CreateStageInput carries the fields for a new stage
type CreateStageInput struct {
	JobID       uuid.UUID
	Name        string
	Description string
	Type        entity.StageType
	OrderIndex  int
	StartDate   *time.Time
	EndDate     *time.Time
}

// CreateStage creates a new stage template for a job
func (s *Service) CreateStage(input CreateStageInput) (*entity.Stage, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: stage name must not be blank", apperrors.ErrValidation)
	}
	if input.OrderIndex < 1 {
		return nil, fmt.Errorf("%w: stage order must be >= 1, got %d", apperrors.ErrValidation, input.OrderIndex)
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown stage type %q", apperrors.ErrValidation, input.Type)
	}
	if err := validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	if _, err := s.jobRepo.GetByID(input.JobID); err != nil {
		return nil, err
	}

	stage := &entity.Stage{
		ID:          uuid.New(),
		JobID:       input.JobID,
		Name:        input.Name,
		Description: input.Description,
		Type:        input.Type,
		OrderIndex:  input.OrderIndex,
		Status:      entity.StageStatusPending,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.stageRepo.Create(nil, stage); err != nil {
		return nil, err
	}

	s.logger.Info("Stage created",
		zap.String("id", stage.ID.String()),
		zap.String("job_id", stage.JobID.String()),
		zap.String("name", stage.Name),
		zap.Int("order_index", stage.OrderIndex))

	return stage, nil
}

// UpdateStageInput carries the editable fields of an existing stage. Type and
// order are fixed at creation; only metadata may change once processes
// reference the stage.
type UpdateStageInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateStage updates a stage's metadata
func (s *Service) UpdateStage(stageID uuid.UUID, input UpdateStageInput) (*entity.Stage, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: stage name must not be blank", apperrors.ErrValidation)
	}
	if err := validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	stage, err := s.stageRepo.GetByID(stageID)
	if err != nil {
		return nil, err
	}

	stage.Name = input.Name
	stage.Description = input.Description
	stage.StartDate = input.StartDate
	stage.EndDate = input.EndDate

	if err := s.stageRepo.UpdateMetadata(nil, stage); err != nil {
		return nil, err
	}

	s.logger.Info("Stage updated", zap.String("id", stage.ID.String()))
	return stage, nil
}

// GetStage retrieves a single stage
func (s *Service) GetStage(stageID uuid.UUID) (*entity.Stage, error) {
	return s.stageRepo.GetByID(stageID)
}

// ListStages returns a job's stages ordered by order index
func (s *Service) ListStages(jobID uuid.UUID) ([]*entity.Stage, error) {
	if _, err := s.jobRepo.GetByID(jobID); err != nil {
		return nil, err
	}
	return s.stageRepo.ListByJob(jobID)
}

// StartStage moves a pending stage template to IN_PROGRESS
func (s *Service) StartStage(stageID uuid.UUID) (*entity.Stage, error) {
	return s.transitionStatus(stageID, entity.StageStatusInProgress)
}

// CompleteStage closes a stage template permanently
func (s *Service) CompleteStage(stageID uuid.UUID) (*entity.Stage, error) {
	return s.transitionStatus(stageID, entity.StageStatusCompleted)
}

// CancelStage cancels a stage template that has not completed
func (s *Service) CancelStage(stageID uuid.UUID) (*entity.Stage, error) {
	return s.transitionStatus(stageID, entity.StageStatusCancelled)
}

func (s *Service) transitionStatus(stageID uuid.UUID, target entity.StageStatus) (*entity.Stage, error) {
	stage, err := s.stageRepo.GetByID(stageID)
	if err != nil {
		return nil, err
	}

	if !stage.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: stage %s cannot move from %s to %s",
			apperrors.ErrInvalidState, stageID, stage.Status, target)
	}

	if err := s.stageRepo.UpdateStatus(nil, stageID, target); err != nil {
		return nil, err
	}

	s.logger.Info("Stage status changed",
		zap.String("id", stageID.String()),
		zap.String("from", string(stage.Status)),
		zap.String("to", string(target)))

	stage.Status = target
	return stage, nil
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: end date %s precedes start date %s",
			apperrors.ErrValidation, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return nil
}

// Package workflow implements the selection-process state machine: process
// creation, stage transitions, terminal transitions and the append-only audit
// trail. Authorization is the caller's concern; the engine trusts that the
// acting user has already been cleared to operate on the owning job.
package workflow

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/apperrors"
	"github.com/talentflow/recruitment-backend/internal/domain/entity"
	"github.com/talentflow/recruitment-backend/internal/repository"
	"github.com/talentflow/recruitment-backend/pkg/database"
)

// Engine orchestrates selection processes. Every transition commits the
// process-state update and its ledger row in one transaction, guarded by the
// process version read at the start of the call; concurrent transitions on
// the same process serialize through that compare-and-swap.
type Engine struct {
	db             *database.DB
	appRepo        *repository.ApplicationRepository
	stageRepo      *repository.StageRepository
	processRepo    *repository.ProcessRepository
	transitionRepo *repository.TransitionRepository
	logger         *zap.Logger
}

// NewEngine creates a new workflow engine
func NewEngine(
	db *database.DB,
	appRepo *repository.ApplicationRepository,
	stageRepo *repository.StageRepository,
	processRepo *repository.ProcessRepository,
	transitionRepo *repository.TransitionRepository,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		db:             db,
		appRepo:        appRepo,
		stageRepo:      stageRepo,
		processRepo:    processRepo,
		transitionRepo: transitionRepo,
		logger:         logger,
	}
}

// StartProcess creates the selection process for an accepted application,
// anchored at the given initial stage, and writes the first ledger record
// (previous stage null). At most one process may exist per application.
func (e *Engine) StartProcess(applicationID, initialStageID, userID uuid.UUID) (*entity.SelectionProcess, error) {
	app, err := e.appRepo.GetByID(applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != entity.ApplicationStatusAccepted {
		return nil, fmt.Errorf("%w: application %s is %s, only accepted applications start a process",
			apperrors.ErrInvalidState, applicationID, app.Status)
	}

	stage, err := e.stageRepo.GetByID(initialStageID)
	if err != nil {
		return nil, err
	}
	if stage.JobID != app.JobID {
		return nil, fmt.Errorf("%w: stage %s belongs to job %s, application %s belongs to job %s",
			apperrors.ErrValidation, initialStageID, stage.JobID, applicationID, app.JobID)
	}

	now := time.Now().UTC()
	process := &entity.SelectionProcess{
		ID:             uuid.New(),
		ApplicationID:  applicationID,
		CurrentStageID: stage.ID,
		StartedAt:      now,
		LastChangeAt:   now,
		Version:        0,
	}

	err = e.db.WithTransaction(func(tx *sql.Tx) error {
		if err := e.processRepo.Create(tx, process); err != nil {
			return err
		}
		return e.transitionRepo.Append(tx, &entity.StageTransition{
			ID:         uuid.New(),
			ProcessID:  process.ID,
			NewStageID: stage.ID,
			UserID:     userID,
			Action:     entity.ActionProcessStarted,
			Feedback:   "Process started",
			ChangedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Process started",
		zap.String("id", process.ID.String()),
		zap.String("application_id", applicationID.String()),
		zap.String("initial_stage", stage.Name))

	return process, nil
}

// AdvanceToNextStage moves the process to the stage immediately after the
// current one by order index. Advancing past the last stage fails NotFound;
// the caller should finalize instead.
func (e *Engine) AdvanceToNextStage(processID, userID uuid.UUID, feedback string) (*entity.SelectionProcess, error) {
	process, currentStage, err := e.loadActive(processID, feedback)
	if err != nil {
		return nil, err
	}

	nextStage, err := e.stageRepo.NextByOrder(currentStage.JobID, currentStage.OrderIndex)
	if err != nil {
		return nil, err
	}

	return e.commitMove(process, currentStage, nextStage, userID, feedback, entity.ActionStageAdvanced)
}

// AdvanceToStage moves the process directly to an arbitrary stage of the same
// job, forward or backward. Cross-job targets fail validation.
func (e *Engine) AdvanceToStage(processID, targetStageID, userID uuid.UUID, feedback string) (*entity.SelectionProcess, error) {
	return e.moveToStage(processID, targetStageID, userID, feedback, entity.ActionStageMoved)
}

// ReturnToStage is the same mechanics as AdvanceToStage with a distinct audit
// label; validation must never diverge between the two.
func (e *Engine) ReturnToStage(processID, targetStageID, userID uuid.UUID, feedback string) (*entity.SelectionProcess, error) {
	return e.moveToStage(processID, targetStageID, userID, feedback, entity.ActionStageReturned)
}

func (e *Engine) moveToStage(processID, targetStageID, userID uuid.UUID, feedback, action string) (*entity.SelectionProcess, error) {
	process, currentStage, err := e.loadActive(processID, feedback)
	if err != nil {
		return nil, err
	}

	targetStage, err := e.stageRepo.GetByID(targetStageID)
	if err != nil {
		return nil, err
	}
	if targetStage.JobID != currentStage.JobID {
		return nil, fmt.Errorf("%w: stage %s belongs to job %s, process %s runs on job %s",
			apperrors.ErrValidation, targetStageID, targetStage.JobID, processID, currentStage.JobID)
	}

	return e.commitMove(process, currentStage, targetStage, userID, feedback, action)
}

// Finalize ends the process. Finalized is terminal: no transition succeeds
// afterwards.
func (e *Engine) Finalize(processID, userID uuid.UUID, feedback string) (*entity.SelectionProcess, error) {
	return e.terminate(processID, userID, feedback, entity.ActionProcessFinalized)
}

// Reject ends the process with a rejection audit label. Identical state
// transition to Finalize; the two converge on one terminal primitive.
func (e *Engine) Reject(processID, userID uuid.UUID, feedback string) (*entity.SelectionProcess, error) {
	return e.terminate(processID, userID, feedback, entity.ActionProcessRejected)
}

func (e *Engine) terminate(processID, userID uuid.UUID, feedback, action string) (*entity.SelectionProcess, error) {
	process, currentStage, err := e.loadActive(processID, feedback)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = e.db.WithTransaction(func(tx *sql.Tx) error {
		if err := e.processRepo.Terminate(tx, process.ID, now, process.Version); err != nil {
			return err
		}
		previous := currentStage.ID
		return e.transitionRepo.Append(tx, &entity.StageTransition{
			ID:              uuid.New(),
			ProcessID:       process.ID,
			PreviousStageID: &previous,
			NewStageID:      currentStage.ID,
			UserID:          userID,
			Action:          action,
			Feedback:        feedback,
			ChangedAt:       now,
		})
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Process terminated",
		zap.String("id", process.ID.String()),
		zap.String("action", action))

	process.EndedAt = &now
	process.LastChangeAt = now
	process.Version++
	return process, nil
}

// loadActive fetches the process and its current stage, rejecting blank
// feedback and finalized processes before any write is attempted.
func (e *Engine) loadActive(processID uuid.UUID, feedback string) (*entity.SelectionProcess, *entity.Stage, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, nil, fmt.Errorf("%w: feedback must not be blank", apperrors.ErrValidation)
	}

	process, err := e.processRepo.GetByID(processID)
	if err != nil {
		return nil, nil, err
	}
	if process.Finalized() {
		return nil, nil, fmt.Errorf("%w: process %s is finalized", apperrors.ErrInvalidState, processID)
	}

	currentStage, err := e.stageRepo.GetByID(process.CurrentStageID)
	if err != nil {
		return nil, nil, err
	}

	return process, currentStage, nil
}

func (e *Engine) commitMove(
	process *entity.SelectionProcess,
	currentStage, targetStage *entity.Stage,
	userID uuid.UUID,
	feedback, action string,
) (*entity.SelectionProcess, error) {
	now := time.Now().UTC()

	err := e.db.WithTransaction(func(tx *sql.Tx) error {
		if err := e.processRepo.UpdateCurrentStage(tx, process.ID, targetStage.ID, now, process.Version); err != nil {
			return err
		}
		previous := currentStage.ID
		return e.transitionRepo.Append(tx, &entity.StageTransition{
			ID:              uuid.New(),
			ProcessID:       process.ID,
			PreviousStageID: &previous,
			NewStageID:      targetStage.ID,
			UserID:          userID,
			Action:          action,
			Feedback:        feedback,
			ChangedAt:       now,
		})
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Process moved",
		zap.String("id", process.ID.String()),
		zap.String("from", currentStage.Name),
		zap.String("to", targetStage.Name),
		zap.String("action", action))

	process.CurrentStageID = targetStage.ID
	process.LastChangeAt = now
	process.Version++
	return process, nil
}

// GetByID retrieves a process snapshot
func (e *Engine) GetByID(processID uuid.UUID) (*entity.SelectionProcess, error) {
	return e.processRepo.GetByID(processID)
}

// GetByApplicationID retrieves the process anchored to an application
func (e *Engine) GetByApplicationID(applicationID uuid.UUID) (*entity.SelectionProcess, error) {
	return e.processRepo.GetByApplicationID(applicationID)
}

// GetHistory returns the raw ledger rows for a process ascending by change
// timestamp
func (e *Engine) GetHistory(processID uuid.UUID) ([]*entity.StageTransition, error) {
	if _, err := e.processRepo.GetByID(processID); err != nil {
		return nil, err
	}
	return e.transitionRepo.ListByProcess(processID)
}

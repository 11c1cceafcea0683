package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/apperrors"
	"github.com/talentflow/recruitment-backend/internal/domain/entity"
)

// ProcessRepository handles selection process database operations. Every
// state-changing update compares the caller's version snapshot against the
// stored row; a mismatch means a concurrent transition won and surfaces as a
// retryable conflict instead of a silent overwrite.
type ProcessRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProcessRepository creates a new process repository
func NewProcessRepository(db *sql.DB, logger *zap.Logger) *ProcessRepository {
	return &ProcessRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new selection process. A second process for the same
// application surfaces as a conflict (1:1 invariant).
func (r *ProcessRepository) Create(tx *sql.Tx, process *entity.SelectionProcess) error {
	query := `
		INSERT INTO selection_processes (
			id, application_id, current_stage_id, started_at,
			ended_at, last_change_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := on(r.db, tx).Exec(query,
		process.ID.String(),
		process.ApplicationID.String(),
		process.CurrentStageID.String(),
		process.StartedAt,
		process.EndedAt,
		process.LastChangeAt,
		process.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: process already exists for application %s",
				apperrors.ErrConflict, process.ApplicationID)
		}
		r.logger.Error("Failed to create process", zap.Error(err))
		return fmt.Errorf("failed to create process: %w", err)
	}

	return nil
}

// GetByID retrieves a process by ID
func (r *ProcessRepository) GetByID(id uuid.UUID) (*entity.SelectionProcess, error) {
	query := `
		SELECT id, application_id, current_stage_id, started_at,
			ended_at, last_change_at, version
		FROM selection_processes
		WHERE id = ?
	`

	process, err := r.scanProcess(r.db.QueryRow(query, id.String()))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: process %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get process", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get process: %w", err)
	}

	return process, nil
}

// GetByApplicationID retrieves the process anchored to an application
func (r *ProcessRepository) GetByApplicationID(applicationID uuid.UUID) (*entity.SelectionProcess, error) {
	query := `
		SELECT id, application_id, current_stage_id, started_at,
			ended_at, last_change_at, version
		FROM selection_processes
		WHERE application_id = ?
	`

	process, err := r.scanProcess(r.db.QueryRow(query, applicationID.String()))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no process for application %s", apperrors.ErrNotFound, applicationID)
	}
	if err != nil {
		r.logger.Error("Failed to get process by application",
			zap.String("application_id", applicationID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get process: %w", err)
	}

	return process, nil
}

// UpdateCurrentStage moves the current-stage pointer, guarded by the version
// the caller read. Zero rows affected means the read was stale.
func (r *ProcessRepository) UpdateCurrentStage(tx *sql.Tx, id, stageID uuid.UUID, changedAt time.Time, version int64) error {
	query := `
		UPDATE selection_processes
		SET current_stage_id = ?, last_change_at = ?, version = version + 1
		WHERE id = ? AND version = ? AND ended_at IS NULL
	`

	result, err := on(r.db, tx).Exec(query, stageID.String(), changedAt, id.String(), version)
	if err != nil {
		r.logger.Error("Failed to update current stage", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to update current stage: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: process %s was modified concurrently", apperrors.ErrConflict, id)
	}

	return nil
}

// Terminate sets the end timestamp, guarded by the version the caller read.
func (r *ProcessRepository) Terminate(tx *sql.Tx, id uuid.UUID, endedAt time.Time, version int64) error {
	query := `
		UPDATE selection_processes
		SET ended_at = ?, last_change_at = ?, version = version + 1
		WHERE id = ? AND version = ? AND ended_at IS NULL
	`

	result, err := on(r.db, tx).Exec(query, endedAt, endedAt, id.String(), version)
	if err != nil {
		r.logger.Error("Failed to terminate process", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to terminate process: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: process %s was modified concurrently", apperrors.ErrConflict, id)
	}

	return nil
}

func (r *ProcessRepository) scanProcess(row rowScanner) (*entity.SelectionProcess, error) {
	var process entity.SelectionProcess
	var id, applicationID, stageID string
	var endedAt sql.NullTime

	err := row.Scan(
		&id,
		&applicationID,
		&stageID,
		&process.StartedAt,
		&endedAt,
		&process.LastChangeAt,
		&process.Version,
	)
	if err != nil {
		return nil, err
	}

	process.ID = uuid.MustParse(id)
	process.ApplicationID = uuid.MustParse(applicationID)
	process.CurrentStageID = uuid.MustParse(stageID)
	if endedAt.Valid {
		process.EndedAt = &endedAt.Time
	}

	return &process, nil
}

package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/apperrors"
	"github.com/talentflow/recruitment-backend/internal/domain/entity"
)

// StageRepository handles pipeline stage database operations
type StageRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStageRepository creates a new stage repository
func NewStageRepository(db *sql.DB, logger *zap.Logger) *StageRepository {
	return &StageRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new pipeline stage. A duplicate order index within the same
// job surfaces as a conflict.
func (r *StageRepository) Create(tx *sql.Tx, stage *entity.Stage) error {
	query := `
		INSERT INTO pipeline_stages (
			id, job_id, name, description, stage_type, order_index,
			status, start_date, end_date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := on(r.db, tx).Exec(query,
		stage.ID.String(),
		stage.JobID.String(),
		stage.Name,
		stage.Description,
		string(stage.Type),
		stage.OrderIndex,
		string(stage.Status),
		stage.StartDate,
		stage.EndDate,
		stage.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: stage order %d already used for job %s",
				apperrors.ErrConflict, stage.OrderIndex, stage.JobID)
		}
		r.logger.Error("Failed to create stage", zap.Error(err))
		return fmt.Errorf("failed to create stage: %w", err)
	}

	return nil
}

// GetByID retrieves a stage by ID
func (r *StageRepository) GetByID(id uuid.UUID) (*entity.Stage, error) {
	query := `
		SELECT id, job_id, name, description, stage_type, order_index,
			status, start_date, end_date, created_at
		FROM pipeline_stages
		WHERE id = ?
	`

	stage, err := r.scanStage(r.db.QueryRow(query, id.String()))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: stage %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get stage", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}

	return stage, nil
}

// ListByJob retrieves all stages of a job ordered by order index
func (r *StageRepository) ListByJob(jobID uuid.UUID) ([]*entity.Stage, error) {
	query := `
		SELECT id, job_id, name, description, stage_type, order_index,
			status, start_date, end_date, created_at
		FROM pipeline_stages
		WHERE job_id = ?
		ORDER BY order_index ASC
	`

	rows, err := r.db.Query(query, jobID.String())
	if err != nil {
		r.logger.Error("Failed to list stages", zap.String("job_id", jobID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	defer rows.Close()

	var stages []*entity.Stage
	for rows.Next() {
		stage, err := r.scanStage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}
		stages = append(stages, stage)
	}

	return stages, rows.Err()
}

// NextByOrder resolves the stage immediately after the given order index
// within a job: the smallest order strictly greater than the current one.
// Gaps in the numbering are respected.
func (r *StageRepository) NextByOrder(jobID uuid.UUID, orderIndex int) (*entity.Stage, error) {
	query := `
		SELECT id, job_id, name, description, stage_type, order_index,
			status, start_date, end_date, created_at
		FROM pipeline_stages
		WHERE job_id = ? AND order_index > ?
		ORDER BY order_index ASC
		LIMIT 1
	`

	stage, err := r.scanStage(r.db.QueryRow(query, jobID.String(), orderIndex))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no stage after order %d for job %s",
			apperrors.ErrNotFound, orderIndex, jobID)
	}
	if err != nil {
		r.logger.Error("Failed to resolve next stage",
			zap.String("job_id", jobID.String()),
			zap.Int("order_index", orderIndex),
			zap.Error(err))
		return nil, fmt.Errorf("failed to resolve next stage: %w", err)
	}

	return stage, nil
}

// UpdateMetadata updates a stage's editable fields. Type and order are fixed
// once the stage exists; status moves through UpdateStatus only.
func (r *StageRepository) UpdateMetadata(tx *sql.Tx, stage *entity.Stage) error {
	query := `
		UPDATE pipeline_stages
		SET name = ?, description = ?, start_date = ?, end_date = ?
		WHERE id = ?
	`

	result, err := on(r.db, tx).Exec(query,
		stage.Name,
		stage.Description,
		stage.StartDate,
		stage.EndDate,
		stage.ID.String(),
	)
	if err != nil {
		r.logger.Error("Failed to update stage", zap.String("id", stage.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to update stage: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: stage %s", apperrors.ErrNotFound, stage.ID)
	}

	return nil
}

// UpdateStatus updates a stage's lifecycle status
func (r *StageRepository) UpdateStatus(tx *sql.Tx, id uuid.UUID, status entity.StageStatus) error {
	query := `UPDATE pipeline_stages SET status = ? WHERE id = ?`

	result, err := on(r.db, tx).Exec(query, string(status), id.String())
	if err != nil {
		r.logger.Error("Failed to update stage status",
			zap.String("id", id.String()),
			zap.String("status", string(status)),
			zap.Error(err))
		return fmt.Errorf("failed to update stage status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: stage %s", apperrors.ErrNotFound, id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *StageRepository) scanStage(row rowScanner) (*entity.Stage, error) {
	var stage entity.Stage
	var id, jobID, stageType, status string
	var startDate, endDate sql.NullTime

	err := row.Scan(
		&id,
		&jobID,
		&stage.Name,
		&stage.Description,
		&stageType,
		&stage.OrderIndex,
		&status,
		&startDate,
		&endDate,
		&stage.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	stage.ID = uuid.MustParse(id)
	stage.JobID = uuid.MustParse(jobID)
	stage.Type = entity.StageType(stageType)
	stage.Status = entity.StageStatus(status)
	if startDate.Valid {
		stage.StartDate = &startDate.Time
	}
	if endDate.Valid {
		stage.EndDate = &endDate.Time
	}

	return &stage, nil
}

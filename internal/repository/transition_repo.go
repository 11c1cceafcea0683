package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/domain/entity"
)

// TransitionRepository is the append-only ledger of stage moves. Append and
// read are the only operations; rows are never updated or deleted.
type TransitionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTransitionRepository creates a new transition repository
func NewTransitionRepository(db *sql.DB, logger *zap.Logger) *TransitionRepository {
	return &TransitionRepository{
		db:     db,
		logger: logger,
	}
}

// Append writes one transition record
func (r *TransitionRepository) Append(tx *sql.Tx, record *entity.StageTransition) error {
	query := `
		INSERT INTO stage_transitions (
			id, process_id, previous_stage_id, new_stage_id,
			user_id, action, feedback, changed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var previousStageID any
	if record.PreviousStageID != nil {
		previousStageID = record.PreviousStageID.String()
	}

	_, err := on(r.db, tx).Exec(query,
		record.ID.String(),
		record.ProcessID.String(),
		previousStageID,
		record.NewStageID.String(),
		record.UserID.String(),
		record.Action,
		record.Feedback,
		record.ChangedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append transition record", zap.Error(err))
		return fmt.Errorf("failed to append transition record: %w", err)
	}

	return nil
}

// ListByProcess retrieves all transition records for a process ascending by
// change timestamp
func (r *TransitionRepository) ListByProcess(processID uuid.UUID) ([]*entity.StageTransition, error) {
	query := `
		SELECT id, process_id, previous_stage_id, new_stage_id,
			user_id, action, feedback, changed_at
		FROM stage_transitions
		WHERE process_id = ?
		ORDER BY changed_at ASC, rowid ASC
	`

	rows, err := r.db.Query(query, processID.String())
	if err != nil {
		r.logger.Error("Failed to list transitions",
			zap.String("process_id", processID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list transitions: %w", err)
	}
	defer rows.Close()

	var records []*entity.StageTransition
	for rows.Next() {
		var record entity.StageTransition
		var id, procID, newStageID, userID string
		var previousStageID sql.NullString

		err := rows.Scan(
			&id,
			&procID,
			&previousStageID,
			&newStageID,
			&userID,
			&record.Action,
			&record.Feedback,
			&record.ChangedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transition record: %w", err)
		}

		record.ID = uuid.MustParse(id)
		record.ProcessID = uuid.MustParse(procID)
		record.NewStageID = uuid.MustParse(newStageID)
		record.UserID = uuid.MustParse(userID)
		if previousStageID.Valid {
			previous := uuid.MustParse(previousStageID.String)
			record.PreviousStageID = &previous
		}

		records = append(records, &record)
	}

	return records, rows.Err()
}

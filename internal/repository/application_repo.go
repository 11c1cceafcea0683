package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/apperrors"
	"github.com/talentflow/recruitment-backend/internal/domain/entity"
)

// ApplicationRepository handles application database operations
type ApplicationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *sql.DB, logger *zap.Logger) *ApplicationRepository {
	return &ApplicationRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new application. A second application by the same candidate
// for the same job surfaces as a conflict.
func (r *ApplicationRepository) Create(tx *sql.Tx, app *entity.Application) error {
	query := `
		INSERT INTO applications (
			id, job_id, candidate_id, status, applied_at,
			resume_file, resume_text, compatibility_score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := on(r.db, tx).Exec(query,
		app.ID.String(),
		app.JobID.String(),
		app.CandidateID.String(),
		string(app.Status),
		app.AppliedAt,
		app.ResumeFile,
		app.ResumeText,
		app.CompatibilityScore,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: candidate %s already applied to job %s",
				apperrors.ErrConflict, app.CandidateID, app.JobID)
		}
		r.logger.Error("Failed to create application", zap.Error(err))
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(id uuid.UUID) (*entity.Application, error) {
	query := `
		SELECT id, job_id, candidate_id, status, applied_at,
			resume_file, resume_text, compatibility_score
		FROM applications
		WHERE id = ?
	`

	app, err := r.scanApplication(r.db.QueryRow(query, id.String()))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: application %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get application", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return app, nil
}

// ListByJob retrieves all applications for a job, newest first
func (r *ApplicationRepository) ListByJob(jobID uuid.UUID) ([]*entity.Application, error) {
	query := `
		SELECT id, job_id, candidate_id, status, applied_at,
			resume_file, resume_text, compatibility_score
		FROM applications
		WHERE job_id = ?
		ORDER BY applied_at DESC
	`

	rows, err := r.db.Query(query, jobID.String())
	if err != nil {
		r.logger.Error("Failed to list applications", zap.String("job_id", jobID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*entity.Application
	for rows.Next() {
		app, err := r.scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

// UpdateStatus updates an application's lifecycle status
func (r *ApplicationRepository) UpdateStatus(tx *sql.Tx, id uuid.UUID, status entity.ApplicationStatus) error {
	query := `UPDATE applications SET status = ? WHERE id = ?`

	result, err := on(r.db, tx).Exec(query, string(status), id.String())
	if err != nil {
		r.logger.Error("Failed to update application status",
			zap.String("id", id.String()),
			zap.String("status", string(status)),
			zap.Error(err))
		return fmt.Errorf("failed to update application status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: application %s", apperrors.ErrNotFound, id)
	}

	return nil
}

// SetCompatibilityScore stores an externally computed compatibility score
func (r *ApplicationRepository) SetCompatibilityScore(tx *sql.Tx, id uuid.UUID, score float64) error {
	query := `UPDATE applications SET compatibility_score = ? WHERE id = ?`

	result, err := on(r.db, tx).Exec(query, score, id.String())
	if err != nil {
		r.logger.Error("Failed to set compatibility score", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to set compatibility score: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: application %s", apperrors.ErrNotFound, id)
	}

	return nil
}

func (r *ApplicationRepository) scanApplication(row rowScanner) (*entity.Application, error) {
	var app entity.Application
	var id, jobID, candidateID, status string
	var score sql.NullFloat64

	err := row.Scan(
		&id,
		&jobID,
		&candidateID,
		&status,
		&app.AppliedAt,
		&app.ResumeFile,
		&app.ResumeText,
		&score,
	)
	if err != nil {
		return nil, err
	}

	app.ID = uuid.MustParse(id)
	app.JobID = uuid.MustParse(jobID)
	app.CandidateID = uuid.MustParse(candidateID)
	app.Status = entity.ApplicationStatus(status)
	if score.Valid {
		app.CompatibilityScore = &score.Float64
	}

	return &app, nil
}

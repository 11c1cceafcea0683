package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/apperrors"
	"github.com/talentflow/recruitment-backend/internal/domain/entity"
)

// JobRepository handles job posting database operations
type JobRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *sql.DB, logger *zap.Logger) *JobRepository {
	return &JobRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new job posting
func (r *JobRepository) Create(tx *sql.Tx, job *entity.Job) error {
	query := `
		INSERT INTO jobs (id, organization_id, recruiter_id, title, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := on(r.db, tx).Exec(query,
		job.ID.String(),
		job.OrganizationID.String(),
		job.RecruiterID.String(),
		job.Title,
		job.Description,
		job.Status,
		job.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create job", zap.Error(err))
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetByID retrieves a job by ID
func (r *JobRepository) GetByID(id uuid.UUID) (*entity.Job, error) {
	query := `
		SELECT id, organization_id, recruiter_id, title, description, status, created_at
		FROM jobs
		WHERE id = ?
	`

	var job entity.Job
	var jobID, orgID, recruiterID string

	err := r.db.QueryRow(query, id.String()).Scan(
		&jobID,
		&orgID,
		&recruiterID,
		&job.Title,
		&job.Description,
		&job.Status,
		&job.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: job %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get job", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	job.ID = uuid.MustParse(jobID)
	job.OrganizationID = uuid.MustParse(orgID)
	job.RecruiterID = uuid.MustParse(recruiterID)

	return &job, nil
}

// ListByRecruiter retrieves all jobs posted by a recruiter, newest first
func (r *JobRepository) ListByRecruiter(recruiterID uuid.UUID) ([]*entity.Job, error) {
	query := `
		SELECT id, organization_id, recruiter_id, title, description, status, created_at
		FROM jobs
		WHERE recruiter_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, recruiterID.String())
	if err != nil {
		r.logger.Error("Failed to list jobs", zap.Error(err))
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*entity.Job
	for rows.Next() {
		var job entity.Job
		var jobID, orgID, recID string

		err := rows.Scan(
			&jobID,
			&orgID,
			&recID,
			&job.Title,
			&job.Description,
			&job.Status,
			&job.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}

		job.ID = uuid.MustParse(jobID)
		job.OrganizationID = uuid.MustParse(orgID)
		job.RecruiterID = uuid.MustParse(recID)
		jobs = append(jobs, &job)
	}

	return jobs, rows.Err()
}

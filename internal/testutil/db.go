// Package testutil provides per-test sqlite databases with the full schema
// applied, plus seed helpers for the domain entities.
package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/domain/entity"
	"github.com/talentflow/recruitment-backend/internal/repository"
	"github.com/talentflow/recruitment-backend/pkg/database"
)

// OpenDB opens a fresh sqlite database in a temp directory and applies all
// migrations.
func OpenDB(t *testing.T) *database.DB {
	t.Helper()

	logger := zap.NewNop()
	db, err := database.New(database.Config{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrator := database.NewMigrator(db, logger)
	require.NoError(t, migrator.RunMigrations(migrationsDir(t)))

	return db
}

func migrationsDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok, "cannot locate migrations directory")
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// SeedJob inserts a job owned by the given recruiter
func SeedJob(t *testing.T, db *database.DB, recruiterID uuid.UUID) *entity.Job {
	t.Helper()

	job := &entity.Job{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		RecruiterID:    recruiterID,
		Title:          "Backend Engineer",
		Status:         entity.JobStatusOpen,
		CreatedAt:      time.Now().UTC(),
	}
	repo := repository.NewJobRepository(db.DB, zap.NewNop())
	require.NoError(t, repo.Create(nil, job))
	return job
}

// SeedStage inserts a pipeline stage for a job
func SeedStage(t *testing.T, db *database.DB, jobID uuid.UUID, name string, orderIndex int) *entity.Stage {
	t.Helper()

	stage := &entity.Stage{
		ID:         uuid.New(),
		JobID:      jobID,
		Name:       name,
		Type:       entity.StageTypeOther,
		OrderIndex: orderIndex,
		Status:     entity.StageStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	repo := repository.NewStageRepository(db.DB, zap.NewNop())
	require.NoError(t, repo.Create(nil, stage))
	return stage
}

// SeedApplication inserts an application with the given status
func SeedApplication(t *testing.T, db *database.DB, jobID, candidateID uuid.UUID, status entity.ApplicationStatus) *entity.Application {
	t.Helper()

	app := &entity.Application{
		ID:          uuid.New(),
		JobID:       jobID,
		CandidateID: candidateID,
		Status:      status,
		AppliedAt:   time.Now().UTC(),
	}
	repo := repository.NewApplicationRepository(db.DB, zap.NewNop())
	require.NoError(t, repo.Create(nil, app))
	return app
}

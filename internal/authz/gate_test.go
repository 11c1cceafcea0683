package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/apperrors"
	"github.com/talentflow/recruitment-backend/internal/domain/entity"
	"github.com/talentflow/recruitment-backend/internal/repository"
	"github.com/talentflow/recruitment-backend/internal/testutil"
)

func TestGate(t *testing.T) {
	db := testutil.OpenDB(t)
	logger := zap.NewNop()

	recruiter := uuid.New()
	candidate := uuid.New()
	stranger := uuid.New()

	job := testutil.SeedJob(t, db, recruiter)
	app := testutil.SeedApplication(t, db, job.ID, candidate, entity.ApplicationStatusPending)

	gate := NewGate(
		repository.NewJobRepository(db.DB, logger),
		repository.NewApplicationRepository(db.DB, logger),
		logger,
	)

	t.Run("recruiter on own job", func(t *testing.T) {
		assert.NoError(t, gate.RequireRecruiter(recruiter, job.ID))
	})

	t.Run("stranger on job", func(t *testing.T) {
		assert.ErrorIs(t, gate.RequireRecruiter(stranger, job.ID), ErrForbidden)
	})

	t.Run("unknown job", func(t *testing.T) {
		assert.ErrorIs(t, gate.RequireRecruiter(recruiter, uuid.New()), apperrors.ErrNotFound)
	})

	t.Run("recruiter through application", func(t *testing.T) {
		assert.NoError(t, gate.RequireRecruiterForApplication(recruiter, app.ID))
		assert.ErrorIs(t, gate.RequireRecruiterForApplication(candidate, app.ID), ErrForbidden)
	})

	t.Run("application read access", func(t *testing.T) {
		assert.NoError(t, gate.RequireApplicationAccess(candidate, app.ID))
		assert.NoError(t, gate.RequireApplicationAccess(recruiter, app.ID))
		assert.ErrorIs(t, gate.RequireApplicationAccess(stranger, app.ID), ErrForbidden)
	})

	t.Run("unknown application", func(t *testing.T) {
		assert.ErrorIs(t, gate.RequireApplicationAccess(candidate, uuid.New()), apperrors.ErrNotFound)
	})
}

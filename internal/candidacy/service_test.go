package candidacy

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/apperrors"
	"github.com/talentflow/recruitment-backend/internal/domain/entity"
	"github.com/talentflow/recruitment-backend/internal/repository"
	"github.com/talentflow/recruitment-backend/internal/testutil"
	"github.com/talentflow/recruitment-backend/pkg/database"
)

type stubResumeReader struct {
	text string
	err  error
}

func (r *stubResumeReader) ExtractText(string) (string, error) {
	return r.text, r.err
}

func newTestService(t *testing.T, reader ResumeReader) (*Service, *database.DB, *entity.Job) {
	t.Helper()

	db := testutil.OpenDB(t)
	logger := zap.NewNop()
	job := testutil.SeedJob(t, db, uuid.New())

	svc := NewService(
		repository.NewJobRepository(db.DB, logger),
		repository.NewApplicationRepository(db.DB, logger),
		reader,
		logger,
	)
	return svc, db, job
}

func TestSubmit(t *testing.T) {
	svc, _, job := newTestService(t, &stubResumeReader{text: "Five years of Go"})

	app, err := svc.Submit(job.ID, uuid.New(), "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationStatusPending, app.Status)
	assert.Equal(t, "Five years of Go", app.ResumeText)
}

func TestSubmitResumeParseFailureIsBestEffort(t *testing.T) {
	svc, _, job := newTestService(t, &stubResumeReader{err: errors.New("corrupt pdf")})

	app, err := svc.Submit(job.ID, uuid.New(), "resume.pdf")
	require.NoError(t, err)
	assert.Empty(t, app.ResumeText)

	reloaded, err := svc.GetByID(app.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationStatusPending, reloaded.Status)
}

func TestSubmitDuplicate(t *testing.T) {
	svc, _, job := newTestService(t, nil)
	candidate := uuid.New()

	_, err := svc.Submit(job.ID, candidate, "")
	require.NoError(t, err)

	_, err = svc.Submit(job.ID, candidate, "")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// the same candidate may still apply to a different job
	apps, err := svc.ListByJob(job.ID)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestSubmitUnknownJob(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Submit(uuid.New(), uuid.New(), "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDecisionLifecycle(t *testing.T) {
	svc, _, job := newTestService(t, nil)

	submit := func(t *testing.T) *entity.Application {
		app, err := svc.Submit(job.ID, uuid.New(), "")
		require.NoError(t, err)
		return app
	}

	t.Run("accept", func(t *testing.T) {
		app := submit(t)
		app, err := svc.Accept(app.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ApplicationStatusAccepted, app.Status)
	})

	t.Run("reject", func(t *testing.T) {
		app := submit(t)
		app, err := svc.Reject(app.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ApplicationStatusRejected, app.Status)
	})

	t.Run("withdraw", func(t *testing.T) {
		app := submit(t)
		app, err := svc.Withdraw(app.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ApplicationStatusWithdrawn, app.Status)
	})

	t.Run("decisions are terminal", func(t *testing.T) {
		app := submit(t)
		_, err := svc.Accept(app.ID)
		require.NoError(t, err)

		_, err = svc.Reject(app.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		_, err = svc.Withdraw(app.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		_, err = svc.Accept(app.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestSetCompatibilityScore(t *testing.T) {
	svc, _, job := newTestService(t, nil)

	app, err := svc.Submit(job.ID, uuid.New(), "")
	require.NoError(t, err)

	require.NoError(t, svc.SetCompatibilityScore(app.ID, 87.5))

	reloaded, err := svc.GetByID(app.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.CompatibilityScore)
	assert.InDelta(t, 87.5, *reloaded.CompatibilityScore, 0.001)

	assert.ErrorIs(t, svc.SetCompatibilityScore(app.ID, -1), apperrors.ErrValidation)
	assert.ErrorIs(t, svc.SetCompatibilityScore(app.ID, 100.5), apperrors.ErrValidation)
}

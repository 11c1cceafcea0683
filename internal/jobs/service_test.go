package jobs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/apperrors"
	"github.com/talentflow/recruitment-backend/internal/domain/entity"
	"github.com/talentflow/recruitment-backend/internal/repository"
	"github.com/talentflow/recruitment-backend/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.OpenDB(t)
	return NewService(repository.NewJobRepository(db.DB, zap.NewNop()), zap.NewNop())
}

func TestCreateJob(t *testing.T) {
	svc := newTestService(t)
	recruiter := uuid.New()

	job, err := svc.Create(uuid.New(), recruiter, "Data Engineer", "Pipelines and warehouses")
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusOpen, job.Status)
	assert.Equal(t, recruiter, job.RecruiterID)

	reloaded, err := svc.GetByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", reloaded.Title)
}

func TestCreateJobBlankTitle(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(uuid.New(), uuid.New(), "   ", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestListByRecruiter(t *testing.T) {
	svc := newTestService(t)
	recruiter := uuid.New()

	for _, title := range []string{"Backend Engineer", "SRE"} {
		_, err := svc.Create(uuid.New(), recruiter, title, "")
		require.NoError(t, err)
	}
	_, err := svc.Create(uuid.New(), uuid.New(), "Someone else's job", "")
	require.NoError(t, err)

	list, err := svc.ListByRecruiter(recruiter)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGetJobNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetByID(uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

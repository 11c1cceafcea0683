package pipeline

import (
	"testing"
	"time"

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

func newTestService(t *testing.T) (*Service, *database.DB, *entity.Job) {
	t.Helper()

	db := testutil.OpenDB(t)
	logger := zap.NewNop()
	job := testutil.SeedJob(t, db, uuid.New())

	svc := NewService(
		repository.NewJobRepository(db.DB, logger),
		repository.NewStageRepository(db.DB, logger),
		logger,
	)
	return svc, db, job
}

func TestCreateStage(t *testing.T) {
	svc, _, job := newTestService(t)

	stage, err := svc.CreateStage(CreateStageInput{
		JobID:      job.ID,
		Name:       "Phone screen",
		Type:       entity.StageTypePhoneInterview,
		OrderIndex: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StageStatusPending, stage.Status)
	assert.Equal(t, 1, stage.OrderIndex)
}

func TestCreateStageValidation(t *testing.T) {
	svc, _, job := newTestService(t)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		input   CreateStageInput
		wantErr error
	}{
		{
			name:    "blank name",
			input:   CreateStageInput{JobID: job.ID, Name: "   ", Type: entity.StageTypeScreening, OrderIndex: 1},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "zero order",
			input:   CreateStageInput{JobID: job.ID, Name: "Screening", Type: entity.StageTypeScreening, OrderIndex: 0},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "negative order",
			input:   CreateStageInput{JobID: job.ID, Name: "Screening", Type: entity.StageTypeScreening, OrderIndex: -3},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "unknown type",
			input:   CreateStageInput{JobID: job.ID, Name: "Screening", Type: "KARAOKE", OrderIndex: 1},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "end before start",
			input:   CreateStageInput{JobID: job.ID, Name: "Screening", Type: entity.StageTypeScreening, OrderIndex: 1, StartDate: &start, EndDate: &end},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "unknown job",
			input:   CreateStageInput{JobID: uuid.New(), Name: "Screening", Type: entity.StageTypeScreening, OrderIndex: 1},
			wantErr: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateStage(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateStageDuplicateOrder(t *testing.T) {
	svc, _, job := newTestService(t)

	_, err := svc.CreateStage(CreateStageInput{
		JobID: job.ID, Name: "Screening", Type: entity.StageTypeScreening, OrderIndex: 2,
	})
	require.NoError(t, err)

	_, err = svc.CreateStage(CreateStageInput{
		JobID: job.ID, Name: "Interview", Type: entity.StageTypeOnsiteInterview, OrderIndex: 2,
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestListStagesOrdersByIndex(t *testing.T) {
	svc, _, job := newTestService(t)

	// inserted out of order, with gaps
	for _, spec := range []struct {
		name  string
		order int
	}{
		{"Offer", 9},
		{"Screening", 1},
		{"Interview", 4},
	} {
		_, err := svc.CreateStage(CreateStageInput{
			JobID: job.ID, Name: spec.name, Type: entity.StageTypeOther, OrderIndex: spec.order,
		})
		require.NoError(t, err)
	}

	stages, err := svc.ListStages(job.ID)
	require.NoError(t, err)
	require.Len(t, stages, 3)
	assert.Equal(t, "Screening", stages[0].Name)
	assert.Equal(t, "Interview", stages[1].Name)
	assert.Equal(t, "Offer", stages[2].Name)
}

func TestUpdateStageMetadata(t *testing.T) {
	svc, _, job := newTestService(t)

	stage, err := svc.CreateStage(CreateStageInput{
		JobID: job.ID, Name: "Screening", Type: entity.StageTypeScreening, OrderIndex: 1,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStage(stage.ID, UpdateStageInput{
		Name:        "Initial screening",
		Description: "Resume review plus a short call",
	})
	require.NoError(t, err)
	assert.Equal(t, "Initial screening", updated.Name)

	// type and order cannot change through metadata updates
	reloaded, err := svc.GetStage(stage.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageTypeScreening, reloaded.Type)
	assert.Equal(t, 1, reloaded.OrderIndex)
	assert.Equal(t, "Initial screening", reloaded.Name)

	_, err = svc.UpdateStage(stage.ID, UpdateStageInput{Name: ""})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestStageStatusMachine(t *testing.T) {
	svc, _, job := newTestService(t)

	newStage := func(t *testing.T, order int) *entity.Stage {
		stage, err := svc.CreateStage(CreateStageInput{
			JobID: job.ID, Name: "Stage", Type: entity.StageTypeOther, OrderIndex: order,
		})
		require.NoError(t, err)
		return stage
	}

	t.Run("pending to in progress to completed", func(t *testing.T) {
		stage := newStage(t, 1)

		stage, err := svc.StartStage(stage.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StageStatusInProgress, stage.Status)

		stage, err = svc.CompleteStage(stage.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StageStatusCompleted, stage.Status)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		stage := newStage(t, 2)

		_, err := svc.CompleteStage(stage.ID)
		require.NoError(t, err)

		_, err = svc.StartStage(stage.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		_, err = svc.CancelStage(stage.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		stage := newStage(t, 3)

		_, err := svc.CancelStage(stage.ID)
		require.NoError(t, err)

		_, err = svc.StartStage(stage.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		_, err = svc.CompleteStage(stage.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

package report

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/apperrors"
	"github.com/talentflow/recruitment-backend/internal/domain/entity"
	"github.com/talentflow/recruitment-backend/internal/repository"
	"github.com/talentflow/recruitment-backend/internal/testutil"
	"github.com/talentflow/recruitment-backend/internal/workflow"
)

func TestExport(t *testing.T) {
	db := testutil.OpenDB(t)
	logger := zap.NewNop()

	recruiter := uuid.New()
	job := testutil.SeedJob(t, db, recruiter)
	screening := testutil.SeedStage(t, db, job.ID, "Screening", 1)
	testutil.SeedStage(t, db, job.ID, "Interview", 2)
	app := testutil.SeedApplication(t, db, job.ID, uuid.New(), entity.ApplicationStatusAccepted)

	engine := workflow.NewEngine(
		db,
		repository.NewApplicationRepository(db.DB, logger),
		repository.NewStageRepository(db.DB, logger),
		repository.NewProcessRepository(db.DB, logger),
		repository.NewTransitionRepository(db.DB, logger),
		logger,
	)

	process, err := engine.StartProcess(app.ID, screening.ID, recruiter)
	require.NoError(t, err)
	_, err = engine.AdvanceToNextStage(process.ID, recruiter, "Strong call")
	require.NoError(t, err)
	_, err = engine.Finalize(process.ID, recruiter, "Hired")
	require.NoError(t, err)

	exporter := NewExporter(t.TempDir(), "TalentFlow", engine, logger)
	path, err := exporter.Export(process.ID)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	status, err := f.GetCellValue(sheetName, "B6")
	require.NoError(t, err)
	assert.Equal(t, "Finalized", status)

	// summary block, header row, then three timeline rows ending at row 13
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 13)

	event, err := f.GetCellValue(sheetName, "B11")
	require.NoError(t, err)
	assert.Equal(t, "Process started", event)
}

func TestExportUnknownProcess(t *testing.T) {
	db := testutil.OpenDB(t)
	logger := zap.NewNop()

	engine := workflow.NewEngine(
		db,
		repository.NewApplicationRepository(db.DB, logger),
		repository.NewStageRepository(db.DB, logger),
		repository.NewProcessRepository(db.DB, logger),
		repository.NewTransitionRepository(db.DB, logger),
		logger,
	)

	exporter := NewExporter(t.TempDir(), "TalentFlow", engine, logger)
	_, err := exporter.Export(uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// Package report generates recruiter-facing xlsx exports of a selection
// process and its transition history.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/domain/entity"
	"github.com/talentflow/recruitment-backend/internal/workflow"
)

const sheetName = "Process Report"

// Exporter writes process reports as xlsx files
type Exporter struct {
	outputDir   string
	companyName string
	engine      *workflow.Engine
	logger      *zap.Logger
}

// NewExporter creates a new report exporter
func NewExporter(outputDir, companyName string, engine *workflow.Engine, logger *zap.Logger) *Exporter {
	return &Exporter{
		outputDir:   outputDir,
		companyName: companyName,
		engine:      engine,
		logger:      logger,
	}
}

// Export writes the report for a process and returns the generated file path
func (ex *Exporter) Export(processID uuid.UUID) (string, error) {
	process, err := ex.engine.GetByID(processID)
	if err != nil {
		return "", err
	}

	timeline, err := ex.engine.Timeline(processID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(ex.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to remove default sheet: %w", err)
	}

	ex.fillSummary(f, process)
	ex.fillTimeline(f, timeline)

	outputPath := filepath.Join(ex.outputDir, fmt.Sprintf("process_%s.xlsx", process.ID))
	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	ex.logger.Info("Process report generated",
		zap.String("process_id", process.ID.String()),
		zap.String("path", outputPath))

	return outputPath, nil
}

func (ex *Exporter) fillSummary(f *excelize.File, process *entity.SelectionProcess) {
	status := "In progress"
	endedAt := "-"
	if process.Finalized() {
		status = "Finalized"
		endedAt = process.EndedAt.Format("2006-01-02 15:04")
	}

	ex.setCell(f, "A1", ex.companyName)
	ex.setCell(f, "A2", "Selection Process Report")
	ex.setCell(f, "A4", "Process ID")
	ex.setCell(f, "B4", process.ID.String())
	ex.setCell(f, "A5", "Application ID")
	ex.setCell(f, "B5", process.ApplicationID.String())
	ex.setCell(f, "A6", "Status")
	ex.setCell(f, "B6", status)
	ex.setCell(f, "A7", "Started")
	ex.setCell(f, "B7", process.StartedAt.Format("2006-01-02 15:04"))
	ex.setCell(f, "A8", "Ended")
	ex.setCell(f, "B8", endedAt)
}

func (ex *Exporter) fillTimeline(f *excelize.File, timeline []workflow.TimelineEntry) {
	headers := []string{"When", "Event", "Stage", "Feedback", "By"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 10)
		ex.setCell(f, cell, header)
	}

	for row, entry := range timeline {
		values := []string{
			entry.ChangedAt.Format("2006-01-02 15:04:05"),
			entry.Label,
			entry.StageName,
			entry.Feedback,
			entry.UserID.String(),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, 11+row)
			ex.setCell(f, cell, value)
		}
	}
}

func (ex *Exporter) setCell(f *excelize.File, cell string, value any) {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		ex.logger.Warn("Failed to set report cell", zap.String("cell", cell), zap.Error(err))
	}
}

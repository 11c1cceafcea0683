package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talentflow/recruitment-backend/internal/domain/entity"
)

// TimelineEntry is the rendered view of one ledger row for display.
type TimelineEntry struct {
	Label     string    `json:"label"`
	StageName string    `json:"stage_name"`
	Action    string    `json:"action"`
	Feedback  string    `json:"feedback"`
	UserID    uuid.UUID `json:"user_id"`
	ChangedAt time.Time `json:"changed_at"`
}

// Timeline renders the process history for presentation. The first record
// displays the stage the process started on; every later record anchors on
// the stage the process moved away from. The stored rows are unambiguous
// either way; this asymmetry lives only here.
func (e *Engine) Timeline(processID uuid.UUID) ([]TimelineEntry, error) {
	records, err := e.GetHistory(processID)
	if err != nil {
		return nil, err
	}

	stageNames := make(map[uuid.UUID]string)
	name := func(id uuid.UUID) (string, error) {
		if cached, ok := stageNames[id]; ok {
			return cached, nil
		}
		stage, err := e.stageRepo.GetByID(id)
		if err != nil {
			return "", err
		}
		stageNames[id] = stage.Name
		return stage.Name, nil
	}

	entries := make([]TimelineEntry, 0, len(records))
	for _, record := range records {
		newName, err := name(record.NewStageID)
		if err != nil {
			return nil, err
		}

		entry := TimelineEntry{
			Action:    record.Action,
			Feedback:  record.Feedback,
			UserID:    record.UserID,
			ChangedAt: record.ChangedAt,
		}

		switch {
		case record.PreviousStageID == nil:
			entry.Label = "Process started"
			entry.StageName = newName
		case record.Action == entity.ActionProcessFinalized:
			entry.Label = "Process finalized"
			entry.StageName = newName
		case record.Action == entity.ActionProcessRejected:
			entry.Label = "Process rejected"
			entry.StageName = newName
		default:
			previousName, err := name(*record.PreviousStageID)
			if err != nil {
				return nil, err
			}
			entry.Label = fmt.Sprintf("Moved to %s", newName)
			entry.StageName = previousName
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

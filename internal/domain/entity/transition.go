package entity

import (
	"time"

	"github.com/google/uuid"
)

// Action labels recorded on the transition ledger. Finalize and reject share
// the same terminal state change and differ only in audit intent.
const (
	ActionProcessStarted   = "PROCESS_STARTED"
	ActionStageAdvanced    = "STAGE_ADVANCED"
	ActionStageMoved       = "STAGE_MOVED"
	ActionStageReturned    = "STAGE_RETURNED"
	ActionProcessFinalized = "PROCESS_FINALIZED"
	ActionProcessRejected  = "PROCESS_REJECTED"
)

// StageTransition is one append-only audit row for a stage move. Once written
// a row is never updated or deleted; ordering by ChangedAt reconstructs the
// full transition path of a process.
//
// PreviousStageID is nil only for the record written when the process starts.
type StageTransition struct {
	ID              uuid.UUID  `json:"id"`
	ProcessID       uuid.UUID  `json:"process_id"`
	PreviousStageID *uuid.UUID `json:"previous_stage_id,omitempty"`
	NewStageID      uuid.UUID  `json:"new_stage_id"`
	UserID          uuid.UUID  `json:"user_id"`
	Action          string     `json:"action"`
	Feedback        string     `json:"feedback"`
	ChangedAt       time.Time  `json:"changed_at"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// SelectionProcess represents one candidate's run through a job's pipeline,
// anchored 1:1 to an accepted application. The process is in progress while
// EndedAt is nil and finalized once it is set; finalized is terminal.
//
// Version is a monotonically increasing counter used as the compare-and-swap
// predicate for every state-changing update: two concurrent transitions that
// read the same version cannot both commit.
type SelectionProcess struct {
	ID             uuid.UUID  `json:"id"`
	ApplicationID  uuid.UUID  `json:"application_id"`
	CurrentStageID uuid.UUID  `json:"current_stage_id"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	LastChangeAt   time.Time  `json:"last_change_at"`
	Version        int64      `json:"version"`
}

// Finalized returns true once a terminal transition has set the end timestamp.
func (p *SelectionProcess) Finalized() bool {
	return p.EndedAt != nil
}

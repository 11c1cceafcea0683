package entity

import (
	"time"

	"github.com/google/uuid"
)

// StageType classifies a pipeline stage template.
type StageType string

const (
	StageTypeScreening       StageType = "SCREENING"
	StageTypePhoneInterview  StageType = "PHONE_INTERVIEW"
	StageTypeTechnicalTest   StageType = "TECHNICAL_TEST"
	StageTypeOnsiteInterview StageType = "ONSITE_INTERVIEW"
	StageTypeOnlineInterview StageType = "ONLINE_INTERVIEW"
	StageTypeGroupDynamic    StageType = "GROUP_DYNAMIC"
	StageTypePsychological   StageType = "PSYCH_EVALUATION"
	StageTypeBusinessCase    StageType = "BUSINESS_CASE"
	StageTypeSalaryProposal  StageType = "SALARY_PROPOSAL"
	StageTypeOther           StageType = "OTHER"
)

var validStageTypes = map[StageType]bool{
	StageTypeScreening:       true,
	StageTypePhoneInterview:  true,
	StageTypeTechnicalTest:   true,
	StageTypeOnsiteInterview: true,
	StageTypeOnlineInterview: true,
	StageTypeGroupDynamic:    true,
	StageTypePsychological:   true,
	StageTypeBusinessCase:    true,
	StageTypeSalaryProposal:  true,
	StageTypeOther:           true,
}

// IsValid returns true if the stage type is a known value.
func (t StageType) IsValid() bool {
	return validStageTypes[t]
}

// StageStatus tracks the lifecycle of a stage template. It is independent of
// any candidate's position in the pipeline: a process may reference a stage
// regardless of the stage's own status.
type StageStatus string

const (
	StageStatusPending    StageStatus = "PENDING"
	StageStatusInProgress StageStatus = "IN_PROGRESS"
	StageStatusCompleted  StageStatus = "COMPLETED"
	StageStatusCancelled  StageStatus = "CANCELLED"
)

// stageStatusTransitions lists every allowed (from -> to) pair. COMPLETED and
// CANCELLED are terminal with no outgoing transitions.
var stageStatusTransitions = map[StageStatus][]StageStatus{
	StageStatusPending:    {StageStatusInProgress, StageStatusCompleted, StageStatusCancelled},
	StageStatusInProgress: {StageStatusCompleted, StageStatusCancelled},
}

// CanTransitionTo returns true when moving from s to target is permitted.
func (s StageStatus) CanTransitionTo(target StageStatus) bool {
	for _, allowed := range stageStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Stage represents one ordered step in a job's hiring pipeline. The template
// is shared by every candidate of the job; order indexes are unique per job
// but need not be contiguous.
type Stage struct {
	ID          uuid.UUID   `json:"id"`
	JobID       uuid.UUID   `json:"job_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Type        StageType   `json:"type"`
	OrderIndex  int         `json:"order_index"`
	Status      StageStatus `json:"status"`
	StartDate   *time.Time  `json:"start_date,omitempty"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// Job status constants.
const (
	JobStatusOpen   = "OPEN"
	JobStatusClosed = "CLOSED"
)

// Job represents a job posting. A job owns the pipeline of stages candidates
// move through and anchors the authorization model: recruiter-side workflow
// operations require the acting user to be the job's recruiter.
type Job struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	RecruiterID    uuid.UUID `json:"recruiter_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the lifecycle status of a candidate's application.
// ACCEPTED, REJECTED and WITHDRAWN are terminal.
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "PENDING"
	ApplicationStatusAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected  ApplicationStatus = "REJECTED"
	ApplicationStatusWithdrawn ApplicationStatus = "WITHDRAWN"
)

var applicationStatusTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending: {
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn,
	},
	// Terminal statuses have no outgoing transitions.
}

// CanTransitionTo returns true when moving from s to target is permitted.
func (s ApplicationStatus) CanTransitionTo(target ApplicationStatus) bool {
	for _, allowed := range applicationStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true once the application has been decided.
func (s ApplicationStatus) IsTerminal() bool {
	return len(applicationStatusTransitions[s]) == 0
}

// Application represents a candidate's application to a job. One candidate may
// apply at most once per job. An accepted application gates the creation of a
// selection process.
type Application struct {
	ID                 uuid.UUID         `json:"id"`
	JobID              uuid.UUID         `json:"job_id"`
	CandidateID        uuid.UUID         `json:"candidate_id"`
	Status             ApplicationStatus `json:"status"`
	AppliedAt          time.Time         `json:"applied_at"`
	ResumeFile         string            `json:"resume_file,omitempty"`
	ResumeText         string            `json:"resume_text,omitempty"`
	CompatibilityScore *float64          `json:"compatibility_score,omitempty"`
}

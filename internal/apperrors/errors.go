// Package apperrors defines the error taxonomy shared by every service in the
// backend. Each sentinel maps to a distinct caller-correctable failure kind so
// the HTTP layer can choose a status code with errors.Is instead of parsing
// message text.
package apperrors

import "errors"

var (
	// ErrNotFound is returned when a referenced job, stage, application or
	// process does not exist, or when advancing past the last pipeline stage.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for uniqueness violations (duplicate process for
	// an application, duplicate application per job) and for failed
	// compare-and-swap updates under concurrent transitions. Conflicts from
	// concurrent transitions are retryable by the caller.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState is returned when an operation is attempted against a
	// finalized process or a stage status transition is not permitted from the
	// current status.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation is returned for blank mandatory fields, order < 1,
	// end-before-start dates and cross-job stage/application mismatches.
	ErrValidation = errors.New("validation failed")
)

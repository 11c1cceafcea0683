// Package authz decides who may act on a job's selection processes. The
// workflow engine trusts these checks have happened before it is called; the
// HTTP layer consumes them. Identity itself arrives from a trusted upstream
// (credential handling is out of scope here).
package authz

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/repository"
)

// ErrForbidden is returned when the acting user may not perform the
// operation. Distinct from the domain taxonomy: it maps to 403, not 4xx
// domain failures.
var ErrForbidden = errors.New("forbidden")

// Gate answers authorization questions for recruiter- and candidate-side
// operations.
type Gate struct {
	jobRepo *repository.JobRepository
	appRepo *repository.ApplicationRepository
	logger  *zap.Logger
}

// NewGate creates a new authorization gate
func NewGate(jobRepo *repository.JobRepository, appRepo *repository.ApplicationRepository, logger *zap.Logger) *Gate {
	return &Gate{
		jobRepo: jobRepo,
		appRepo: appRepo,
		logger:  logger,
	}
}

// RequireRecruiter verifies that userID is the recruiter of the job. Recruiter
// rights cover stage management and every process transition.
func (g *Gate) RequireRecruiter(userID, jobID uuid.UUID) error {
	job, err := g.jobRepo.GetByID(jobID)
	if err != nil {
		return err
	}

	if job.RecruiterID != userID {
		g.logger.Warn("Recruiter check failed",
			zap.String("user_id", userID.String()),
			zap.String("job_id", jobID.String()))
		return fmt.Errorf("%w: user %s is not the recruiter of job %s", ErrForbidden, userID, jobID)
	}

	return nil
}

// RequireRecruiterForApplication verifies that userID is the recruiter of the
// job the application targets. Used for process transitions, which are keyed
// by process or application rather than job.
func (g *Gate) RequireRecruiterForApplication(userID, applicationID uuid.UUID) error {
	app, err := g.appRepo.GetByID(applicationID)
	if err != nil {
		return err
	}
	return g.RequireRecruiter(userID, app.JobID)
}

// RequireApplicationAccess verifies that userID may read an application's
// process and history: either the owning candidate or the job's recruiter.
func (g *Gate) RequireApplicationAccess(userID, applicationID uuid.UUID) error {
	app, err := g.appRepo.GetByID(applicationID)
	if err != nil {
		return err
	}

	if app.CandidateID == userID {
		return nil
	}

	job, err := g.jobRepo.GetByID(app.JobID)
	if err != nil {
		return err
	}
	if job.RecruiterID == userID {
		return nil
	}

	g.logger.Warn("Application access check failed",
		zap.String("user_id", userID.String()),
		zap.String("application_id", applicationID.String()))
	return fmt.Errorf("%w: user %s may not access application %s", ErrForbidden, userID, applicationID)
}

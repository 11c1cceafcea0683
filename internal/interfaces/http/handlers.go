package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/authz"
	"github.com/talentflow/recruitment-backend/internal/candidacy"
	"github.com/talentflow/recruitment-backend/internal/domain/entity"
	"github.com/talentflow/recruitment-backend/internal/jobs"
	"github.com/talentflow/recruitment-backend/internal/pipeline"
	"github.com/talentflow/recruitment-backend/internal/report"
	"github.com/talentflow/recruitment-backend/internal/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	jobService       *jobs.Service
	pipelineService  *pipeline.Service
	candidacyService *candidacy.Service
	engine           *workflow.Engine
	exporter         *report.Exporter
	gate             *authz.Gate
	logger           *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	jobService *jobs.Service,
	pipelineService *pipeline.Service,
	candidacyService *candidacy.Service,
	engine *workflow.Engine,
	exporter *report.Exporter,
	gate *authz.Gate,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		jobService:       jobService,
		pipelineService:  pipelineService,
		candidacyService: candidacyService,
		engine:           engine,
		exporter:         exporter,
		gate:             gate,
		logger:           logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	respondOK(c, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid id parameter",
		})
		return uuid.Nil, false
	}
	return id, true
}

// CreateJobRequest is the payload for POST /api/jobs
type CreateJobRequest struct {
	OrganizationID string `json:"organization_id" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
}

// CreateJob handles POST /api/jobs. The acting user becomes the job's
// recruiter.
func (h *Handlers) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid organization_id"})
		return
	}

	job, err := h.jobService.Create(orgID, actingUser(c), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, job)
}

// ListJobs handles GET /api/jobs, returning the acting recruiter's jobs
func (h *Handlers) ListJobs(c *gin.Context) {
	list, err := h.jobService.ListByRecruiter(actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, list)
}

// GetJob handles GET /api/jobs/:id
func (h *Handlers) GetJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	job, err := h.jobService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, job)
}

// CreateStageRequest is the payload for POST /api/jobs/:id/stages
type CreateStageRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Type        string     `json:"type" binding:"required"`
	OrderIndex  int        `json:"order_index" binding:"required"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// CreateStage handles POST /api/jobs/:id/stages
func (h *Handlers) CreateStage(c *gin.Context) {
	jobID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.gate.RequireRecruiter(actingUser(c), jobID); err != nil {
		respondError(c, err)
		return
	}

	var req CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	stage, err := h.pipelineService.CreateStage(pipeline.CreateStageInput{
		JobID:       jobID,
		Name:        req.Name,
		Description: req.Description,
		Type:        entity.StageType(req.Type),
		OrderIndex:  req.OrderIndex,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, stage)
}

// ListStages handles GET /api/jobs/:id/stages
func (h *Handlers) ListStages(c *gin.Context) {
	jobID, ok := pathID(c)
	if !ok {
		return
	}

	stages, err := h.pipelineService.ListStages(jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, stages)
}

// UpdateStageRequest is the payload for PUT /api/stages/:id
type UpdateStageRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// UpdateStage handles PUT /api/stages/:id
func (h *Handlers) UpdateStage(c *gin.Context) {
	stageID, ok := pathID(c)
	if !ok {
		return
	}

	if !h.requireStageRecruiter(c, stageID) {
		return
	}

	var req UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	stage, err := h.pipelineService.UpdateStage(stageID, pipeline.UpdateStageInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, stage)
}

// StartStage handles POST /api/stages/:id/start
func (h *Handlers) StartStage(c *gin.Context) {
	h.stageStatusChange(c, h.pipelineService.StartStage)
}

// CompleteStage handles POST /api/stages/:id/complete
func (h *Handlers) CompleteStage(c *gin.Context) {
	h.stageStatusChange(c, h.pipelineService.CompleteStage)
}

// CancelStage handles POST /api/stages/:id/cancel
func (h *Handlers) CancelStage(c *gin.Context) {
	h.stageStatusChange(c, h.pipelineService.CancelStage)
}

func (h *Handlers) stageStatusChange(c *gin.Context, op func(uuid.UUID) (*entity.Stage, error)) {
	stageID, ok := pathID(c)
	if !ok {
		return
	}

	if !h.requireStageRecruiter(c, stageID) {
		return
	}

	stage, err := op(stageID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, stage)
}

func (h *Handlers) requireStageRecruiter(c *gin.Context, stageID uuid.UUID) bool {
	stage, err := h.pipelineService.GetStage(stageID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if err := h.gate.RequireRecruiter(actingUser(c), stage.JobID); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

// SubmitApplicationRequest is the payload for POST /api/jobs/:id/applications
type SubmitApplicationRequest struct {
	ResumeFile string `json:"resume_file"`
}

// SubmitApplication handles POST /api/jobs/:id/applications. The acting user
// is the candidate.
func (h *Handlers) SubmitApplication(c *gin.Context) {
	jobID, ok := pathID(c)
	if !ok {
		return
	}

	var req SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	app, err := h.candidacyService.Submit(jobID, actingUser(c), req.ResumeFile)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, app)
}

// ListApplications handles GET /api/jobs/:id/applications
func (h *Handlers) ListApplications(c *gin.Context) {
	jobID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.gate.RequireRecruiter(actingUser(c), jobID); err != nil {
		respondError(c, err)
		return
	}

	apps, err := h.candidacyService.ListByJob(jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, apps)
}

// GetApplication handles GET /api/applications/:id
func (h *Handlers) GetApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.gate.RequireApplicationAccess(actingUser(c), id); err != nil {
		respondError(c, err)
		return
	}

	app, err := h.candidacyService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, app)
}

// AcceptApplication handles POST /api/applications/:id/accept
func (h *Handlers) AcceptApplication(c *gin.Context) {
	h.decideApplication(c, h.candidacyService.Accept, true)
}

// RejectApplication handles POST /api/applications/:id/reject
func (h *Handlers) RejectApplication(c *gin.Context) {
	h.decideApplication(c, h.candidacyService.Reject, true)
}

// WithdrawApplication handles POST /api/applications/:id/withdraw. Only the
// owning candidate may withdraw.
func (h *Handlers) WithdrawApplication(c *gin.Context) {
	h.decideApplication(c, h.candidacyService.Withdraw, false)
}

func (h *Handlers) decideApplication(c *gin.Context, op func(uuid.UUID) (*entity.Application, error), recruiterSide bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user := actingUser(c)
	if recruiterSide {
		if err := h.gate.RequireRecruiterForApplication(user, id); err != nil {
			respondError(c, err)
			return
		}
	} else {
		app, err := h.candidacyService.GetByID(id)
		if err != nil {
			respondError(c, err)
			return
		}
		if app.CandidateID != user {
			respondError(c, authz.ErrForbidden)
			return
		}
	}

	app, err := op(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, app)
}

// SetScoreRequest is the payload for PUT /api/applications/:id/score
type SetScoreRequest struct {
	Score float64 `json:"score"`
}

// SetCompatibilityScore handles PUT /api/applications/:id/score. The score is
// computed by an external collaborator; this endpoint only stores it.
func (h *Handlers) SetCompatibilityScore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.gate.RequireRecruiterForApplication(actingUser(c), id); err != nil {
		respondError(c, err)
		return
	}

	var req SetScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	if err := h.candidacyService.SetCompatibilityScore(id, req.Score); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id, "score": req.Score})
}

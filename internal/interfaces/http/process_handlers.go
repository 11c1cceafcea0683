package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talentflow/recruitment-backend/internal/domain/entity"
)

// StartProcessRequest is the payload for POST /api/applications/:id/process
type StartProcessRequest struct {
	InitialStageID string `json:"initial_stage_id" binding:"required"`
}

// StartProcess handles POST /api/applications/:id/process
func (h *Handlers) StartProcess(c *gin.Context) {
	applicationID, ok := pathID(c)
	if !ok {
		return
	}

	user := actingUser(c)
	if err := h.gate.RequireRecruiterForApplication(user, applicationID); err != nil {
		respondError(c, err)
		return
	}

	var req StartProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	stageID, err := uuid.Parse(req.InitialStageID)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid initial_stage_id"})
		return
	}

	process, err := h.engine.StartProcess(applicationID, stageID, user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, process)
}

// GetProcess handles GET /api/processes/:id
func (h *Handlers) GetProcess(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	process, err := h.engine.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.gate.RequireApplicationAccess(actingUser(c), process.ApplicationID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, process)
}

// GetProcessByApplication handles GET /api/applications/:id/process
func (h *Handlers) GetProcessByApplication(c *gin.Context) {
	applicationID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.gate.RequireApplicationAccess(actingUser(c), applicationID); err != nil {
		respondError(c, err)
		return
	}

	process, err := h.engine.GetByApplicationID(applicationID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, process)
}

// GetProcessHistory handles GET /api/processes/:id/history, returning the
// raw ledger rows
func (h *Handlers) GetProcessHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if !h.requireProcessRead(c, id) {
		return
	}

	history, err := h.engine.GetHistory(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, history)
}

// GetProcessTimeline handles GET /api/processes/:id/timeline, returning the
// rendered history view
func (h *Handlers) GetProcessTimeline(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if !h.requireProcessRead(c, id) {
		return
	}

	timeline, err := h.engine.Timeline(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, timeline)
}

// ExportProcessReport handles GET /api/processes/:id/report
func (h *Handlers) ExportProcessReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if !h.requireProcessWrite(c, id) {
		return
	}

	path, err := h.exporter.Export(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.FileAttachment(path, "process_report.xlsx")
}

// TransitionRequest is the payload for process transition endpoints
type TransitionRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// TargetTransitionRequest adds the target stage for direct moves
type TargetTransitionRequest struct {
	StageID  string `json:"stage_id" binding:"required"`
	Feedback string `json:"feedback" binding:"required"`
}

// AdvanceProcess handles POST /api/processes/:id/advance
func (h *Handlers) AdvanceProcess(c *gin.Context) {
	h.simpleTransition(c, h.engine.AdvanceToNextStage)
}

// FinalizeProcess handles POST /api/processes/:id/finalize
func (h *Handlers) FinalizeProcess(c *gin.Context) {
	h.simpleTransition(c, h.engine.Finalize)
}

// RejectProcess handles POST /api/processes/:id/reject
func (h *Handlers) RejectProcess(c *gin.Context) {
	h.simpleTransition(c, h.engine.Reject)
}

// AdvanceProcessToStage handles POST /api/processes/:id/advance-to
func (h *Handlers) AdvanceProcessToStage(c *gin.Context) {
	h.targetTransition(c, h.engine.AdvanceToStage)
}

// ReturnProcessToStage handles POST /api/processes/:id/return-to
func (h *Handlers) ReturnProcessToStage(c *gin.Context) {
	h.targetTransition(c, h.engine.ReturnToStage)
}

func (h *Handlers) simpleTransition(c *gin.Context, op func(uuid.UUID, uuid.UUID, string) (*entity.SelectionProcess, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if !h.requireProcessWrite(c, id) {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	process, err := op(id, actingUser(c), req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, process)
}

func (h *Handlers) targetTransition(c *gin.Context, op func(uuid.UUID, uuid.UUID, uuid.UUID, string) (*entity.SelectionProcess, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if !h.requireProcessWrite(c, id) {
		return
	}

	var req TargetTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	stageID, err := uuid.Parse(req.StageID)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid stage_id"})
		return
	}

	process, err := op(id, stageID, actingUser(c), req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, process)
}

func (h *Handlers) requireProcessRead(c *gin.Context, processID uuid.UUID) bool {
	process, err := h.engine.GetByID(processID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if err := h.gate.RequireApplicationAccess(actingUser(c), process.ApplicationID); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

func (h *Handlers) requireProcessWrite(c *gin.Context, processID uuid.UUID) bool {
	process, err := h.engine.GetByID(processID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if err := h.gate.RequireRecruiterForApplication(actingUser(c), process.ApplicationID); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

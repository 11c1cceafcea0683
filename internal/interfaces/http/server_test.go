package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/authz"
	"github.com/talentflow/recruitment-backend/internal/candidacy"
	"github.com/talentflow/recruitment-backend/internal/jobs"
	"github.com/talentflow/recruitment-backend/internal/pipeline"
	"github.com/talentflow/recruitment-backend/internal/report"
	"github.com/talentflow/recruitment-backend/internal/repository"
	"github.com/talentflow/recruitment-backend/internal/testutil"
	"github.com/talentflow/recruitment-backend/internal/workflow"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db := testutil.OpenDB(t)
	logger := zap.NewNop()

	jobRepo := repository.NewJobRepository(db.DB, logger)
	stageRepo := repository.NewStageRepository(db.DB, logger)
	appRepo := repository.NewApplicationRepository(db.DB, logger)
	processRepo := repository.NewProcessRepository(db.DB, logger)
	transitionRepo := repository.NewTransitionRepository(db.DB, logger)

	engine := workflow.NewEngine(db, appRepo, stageRepo, processRepo, transitionRepo, logger)

	config := DefaultServerConfig()
	config.RateLimitEnabled = false

	return NewServer(
		config,
		jobs.NewService(jobRepo, logger),
		pipeline.NewService(jobRepo, stageRepo, logger),
		candidacy.NewService(jobRepo, appRepo, nil, logger),
		engine,
		report.NewExporter(t.TempDir(), "TalentFlow", engine, logger),
		authz.NewGate(jobRepo, appRepo, logger),
		logger,
	)
}

type testClient struct {
	t      *testing.T
	server *Server
}

func (c *testClient) do(method, path string, user uuid.UUID, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != uuid.Nil {
		req.Header.Set("X-User-ID", user.String())
	}

	rec := httptest.NewRecorder()
	c.server.Router().ServeHTTP(rec, req)
	return rec
}

func (c *testClient) decode(rec *httptest.ResponseRecorder) map[string]any {
	c.t.Helper()

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Error   string         `json:"error"`
	}
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(c.t, resp.Success, "unexpected error response: %s", resp.Error)
	return resp.Data
}

func TestHealthCheck(t *testing.T) {
	client := &testClient{t: t, server: newTestServer(t)}

	rec := client.do(http.MethodGet, "/health", uuid.Nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdentityRequired(t *testing.T) {
	client := &testClient{t: t, server: newTestServer(t)}

	rec := client.do(http.MethodGet, "/api/jobs", uuid.Nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req.Header.Set("X-User-ID", "not-a-uuid")
	rec = httptest.NewRecorder()
	client.server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestSelectionProcessFlow drives the whole API surface end to end: job and
// pipeline setup by the recruiter, application by the candidate, the
// acceptance decision, and a full process run through to finalization.
func TestSelectionProcessFlow(t *testing.T) {
	client := &testClient{t: t, server: newTestServer(t)}

	recruiter := uuid.New()
	candidate := uuid.New()

	rec := client.do(http.MethodPost, "/api/jobs", recruiter, map[string]any{
		"organization_id": uuid.New().String(),
		"title":           "Platform Engineer",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	jobID := client.decode(rec)["id"].(string)

	stageIDs := make([]string, 0, 2)
	for i, name := range []string{"Screening", "Interview"} {
		rec = client.do(http.MethodPost, fmt.Sprintf("/api/jobs/%s/stages", jobID), recruiter, map[string]any{
			"name":        name,
			"type":        "OTHER",
			"order_index": i + 1,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		stageIDs = append(stageIDs, client.decode(rec)["id"].(string))
	}

	// candidates cannot manage another recruiter's pipeline
	rec = client.do(http.MethodPost, fmt.Sprintf("/api/jobs/%s/stages", jobID), candidate, map[string]any{
		"name":        "Backdoor",
		"type":        "OTHER",
		"order_index": 3,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = client.do(http.MethodPost, fmt.Sprintf("/api/jobs/%s/applications", jobID), candidate, map[string]any{})
	require.Equal(t, http.StatusCreated, rec.Code)
	appID := client.decode(rec)["id"].(string)

	// duplicate application from the same candidate
	rec = client.do(http.MethodPost, fmt.Sprintf("/api/jobs/%s/applications", jobID), candidate, map[string]any{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// process creation requires an accepted application
	rec = client.do(http.MethodPost, fmt.Sprintf("/api/applications/%s/process", appID), recruiter, map[string]any{
		"initial_stage_id": stageIDs[0],
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = client.do(http.MethodPost, fmt.Sprintf("/api/applications/%s/accept", appID), recruiter, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = client.do(http.MethodPost, fmt.Sprintf("/api/applications/%s/process", appID), recruiter, map[string]any{
		"initial_stage_id": stageIDs[0],
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	processID := client.decode(rec)["id"].(string)

	// only the recruiter may drive transitions
	rec = client.do(http.MethodPost, fmt.Sprintf("/api/processes/%s/advance", processID), candidate, map[string]any{
		"feedback": "nice try",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = client.do(http.MethodPost, fmt.Sprintf("/api/processes/%s/advance", processID), recruiter, map[string]any{
		"feedback": "Strong screening call",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, stageIDs[1], client.decode(rec)["current_stage_id"].(string))

	// past the last stage
	rec = client.do(http.MethodPost, fmt.Sprintf("/api/processes/%s/advance", processID), recruiter, map[string]any{
		"feedback": "Nowhere to go",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = client.do(http.MethodPost, fmt.Sprintf("/api/processes/%s/finalize", processID), recruiter, map[string]any{
		"feedback": "Offer accepted",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// finalized processes reject further transitions
	rec = client.do(http.MethodPost, fmt.Sprintf("/api/processes/%s/return-to", processID), recruiter, map[string]any{
		"stage_id": stageIDs[0],
		"feedback": "Changed my mind",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// the candidate can read their own process history
	rec = client.do(http.MethodGet, fmt.Sprintf("/api/processes/%s/history", processID), candidate, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = client.do(http.MethodGet, fmt.Sprintf("/api/processes/%s/timeline", processID), candidate, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

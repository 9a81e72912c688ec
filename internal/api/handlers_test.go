package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathroute/internal/agent"
	"github.com/mathroute/internal/benchmark"
	"github.com/mathroute/internal/config"
	"github.com/mathroute/internal/embedding"
	"github.com/mathroute/internal/feedback"
	"github.com/mathroute/internal/guard"
	"github.com/mathroute/internal/knowledge"
	"github.com/mathroute/internal/storage"
	"github.com/mathroute/internal/websearch"
	"github.com/mathroute/pkg/models"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()

	store := storage.NewMemoryStore()
	knowledgeStore := knowledge.NewStore(embedding.NewHashProvider(embedding.DefaultDimensions))
	routingAgent := agent.New(
		agent.DefaultConfig(),
		guard.New(),
		knowledgeStore,
		websearch.NewService(websearch.Config{}),
		websearch.BuildSolution,
		store,
		feedback.NewProcessor(),
	)

	health := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	cfg := config.Default().API
	cfg.EnableCORS = false

	return NewGateway(cfg, routingAgent, store, knowledgeStore, benchmark.NewRunner(routingAgent), health)
}

func doJSON(t *testing.T, g *Gateway, method, path string, body interface{}) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	g.Handler().ServeHTTP(recorder, req)

	var response APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return recorder, response
}

func TestHandleSolveSuccess(t *testing.T) {
	g := newTestGateway(t)

	recorder, response := doJSON(t, g, http.MethodPost, "/api/solve",
		SolveRequest{Problem: "solve quadratic equation x² + 5x + 6 = 0"})

	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, response.Success)

	data, err := json.Marshal(response.Data)
	require.NoError(t, err)
	var solved agent.SolveResponse
	require.NoError(t, json.Unmarshal(data, &solved))

	assert.Equal(t, models.SourceKnowledgeBase, solved.Source)
	assert.NotEmpty(t, solved.ProblemID)
	assert.NotEmpty(t, solved.Solution.Steps)
}

func TestHandleSolveMissingProblem(t *testing.T) {
	g := newTestGateway(t)

	recorder, response := doJSON(t, g, http.MethodPost, "/api/solve", SolveRequest{})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	require.NotNil(t, response.Error)
	assert.Equal(t, "INVALID_REQUEST", response.Error.Code)
}

func TestHandleSolveNonMathematical(t *testing.T) {
	g := newTestGateway(t)

	recorder, response := doJSON(t, g, http.MethodPost, "/api/solve",
		SolveRequest{Problem: "hello there"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	require.NotNil(t, response.Error)
	assert.Equal(t, "VALIDATION_FAILED", response.Error.Code)
}

func TestHandleFeedbackRoundTrip(t *testing.T) {
	g := newTestGateway(t)

	_, solveResponse := doJSON(t, g, http.MethodPost, "/api/solve",
		SolveRequest{Problem: "solve quadratic equation x² + 5x + 6 = 0"})
	data, err := json.Marshal(solveResponse.Data)
	require.NoError(t, err)
	var solved agent.SolveResponse
	require.NoError(t, json.Unmarshal(data, &solved))

	recorder, response := doJSON(t, g, http.MethodPost, "/api/feedback", agent.FeedbackRequest{
		ProblemID:      solved.ProblemID,
		AccuracyRating: 4,
		ClarityRating:  models.ClarityVeryClear,
		IsHelpful:      true,
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, response.Success)

	recorder, _ = doJSON(t, g, http.MethodGet, "/api/problems/"+solved.ProblemID+"/feedback", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestHandleFeedbackValidation(t *testing.T) {
	g := newTestGateway(t)

	recorder, response := doJSON(t, g, http.MethodPost, "/api/feedback", agent.FeedbackRequest{
		ProblemID:      "p1",
		AccuracyRating: 9,
		ClarityRating:  models.ClarityVeryClear,
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	require.NotNil(t, response.Error)
	assert.Equal(t, "VALIDATION_FAILED", response.Error.Code)
}

func TestHandleStatus(t *testing.T) {
	g := newTestGateway(t)

	recorder, response := doJSON(t, g, http.MethodGet, "/api/status", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, response.Success)

	status, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "operational", status["status"])
	assert.Equal(t, float64(5), status["knowledge_base_size"])
	assert.Equal(t, "no_api_key", status["web_search"])
	assert.Contains(t, status, "recent_activity")
}

func TestHandleActivity(t *testing.T) {
	g := newTestGateway(t)

	doJSON(t, g, http.MethodPost, "/api/solve",
		SolveRequest{Problem: "solve quadratic equation x² + 5x + 6 = 0"})

	recorder, response := doJSON(t, g, http.MethodGet, "/api/activity?limit=1", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, response.Meta)
	assert.Equal(t, 1, response.Meta.Total)
	assert.Equal(t, 1, response.Meta.Limit)
}

func TestHandleActivityBadLimit(t *testing.T) {
	g := newTestGateway(t)

	recorder, response := doJSON(t, g, http.MethodGet, "/api/activity?limit=nope", nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	require.NotNil(t, response.Error)
	assert.Equal(t, "INVALID_REQUEST", response.Error.Code)
}

func TestHandleKnowledgeBaseStats(t *testing.T) {
	g := newTestGateway(t)

	recorder, response := doJSON(t, g, http.MethodGet, "/api/knowledge-base/stats", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	stats, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, stats, "seeded")
	assert.Contains(t, stats, "solved")
}

func TestHandleGetProblemNotFound(t *testing.T) {
	g := newTestGateway(t)

	recorder, response := doJSON(t, g, http.MethodGet, "/api/problems/00000000-0000-0000-0000-000000000000", nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	require.NotNil(t, response.Error)
	assert.Equal(t, "NOT_FOUND", response.Error.Code)
}

func TestHandleHealth(t *testing.T) {
	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	recorder := httptest.NewRecorder()
	g.Handler().ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestHandleMetricsCountsRequests(t *testing.T) {
	g := newTestGateway(t)

	doJSON(t, g, http.MethodGet, "/api/status", nil)

	recorder, response := doJSON(t, g, http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	data, err := json.Marshal(response.Data)
	require.NoError(t, err)
	var metrics MetricsSnapshot
	require.NoError(t, json.Unmarshal(data, &metrics))

	assert.GreaterOrEqual(t, metrics.RequestsTotal, int64(1))
	assert.False(t, metrics.LastRequest.IsZero())
	assert.WithinDuration(t, time.Now(), metrics.LastRequest, time.Minute)
}

func TestMiddlewareAppliesToRouter(t *testing.T) {
	g := newTestGateway(t)

	var called bool
	var m Middleware = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}
	g.router.Use(m)

	doJSON(t, g, http.MethodGet, "/api/status", nil)
	assert.True(t, called)
}

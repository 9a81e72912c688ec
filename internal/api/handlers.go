package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mathroute/internal/agent"
	"github.com/mathroute/internal/storage"
)

// SolveRequest is the payload for POST /api/solve.
type SolveRequest struct {
	Problem             string `json:"problem"`
	ShowSteps           *bool  `json:"show_steps,omitempty"`
	IncludeExplanations *bool  `json:"include_explanations,omitempty"`
}

func (g *Gateway) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	if req.Problem == "" {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "problem is required", "")
		return
	}

	// Both presentation flags default to on.
	showSteps := req.ShowSteps == nil || *req.ShowSteps
	includeExplanations := req.IncludeExplanations == nil || *req.IncludeExplanations

	response, err := g.agent.Solve(r.Context(), req.Problem, showSteps, includeExplanations)
	if err != nil {
		var validation *agent.ValidationError
		if errors.As(err, &validation) {
			writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_FAILED", validation.Error(), "")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to solve problem", err.Error())
		return
	}

	writeSuccessResponse(w, response, nil)
}

func (g *Gateway) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req agent.FeedbackRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	if err := g.agent.SubmitFeedback(r.Context(), req); err != nil {
		var validation *agent.ValidationError
		if errors.As(err, &validation) {
			writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_FAILED", validation.Error(), "")
			return
		}
		if errors.Is(err, storage.ErrNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "Problem not found", req.ProblemID)
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record feedback", err.Error())
		return
	}

	writeSuccessResponse(w, map[string]string{"message": "Feedback recorded"}, nil)
}

func (g *Gateway) handleFeedbackInsights(w http.ResponseWriter, r *http.Request) {
	writeSuccessResponse(w, g.agent.Insights(), nil)
}

func (g *Gateway) handleStatus(w http.ResponseWriter, r *http.Request) {
	feedbackStats, err := g.store.FeedbackStats(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load feedback stats", err.Error())
		return
	}

	recent, err := g.store.RecentActivity(r.Context(), 5)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load activity", err.Error())
		return
	}

	status := map[string]interface{}{
		"status":              "operational",
		"knowledge_base_size": g.knowledge.Len(),
		"web_search":          g.agent.SearchStatus(),
		"feedback":            feedbackStats,
		"recent_activity":     recent,
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
	}
	writeSuccessResponse(w, status, nil)
}

func (g *Gateway) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer", raw)
			return
		}
		limit = parsed
	}

	activities, err := g.store.RecentActivity(r.Context(), limit)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load activity", err.Error())
		return
	}

	writeSuccessResponse(w, activities, &APIMeta{Total: len(activities), Limit: limit})
}

func (g *Gateway) handleKnowledgeBaseStats(w http.ResponseWriter, r *http.Request) {
	stored, err := g.store.KnowledgeBaseStats(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load stats", err.Error())
		return
	}

	stats := map[string]interface{}{
		"seeded": g.knowledge.Stats(),
		"solved": stored,
	}
	writeSuccessResponse(w, stats, nil)
}

func (g *Gateway) handleGetProblem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	problem, err := g.store.GetProblem(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "Problem not found", id)
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load problem", err.Error())
		return
	}

	writeSuccessResponse(w, problem, nil)
}

func (g *Gateway) handleProblemFeedback(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	records, err := g.store.FeedbackByProblem(r.Context(), id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load feedback", err.Error())
		return
	}

	writeSuccessResponse(w, records, &APIMeta{Total: len(records)})
}

func (g *Gateway) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	report, err := g.runner.Run(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Benchmark run failed", err.Error())
		return
	}

	writeSuccessResponse(w, report, nil)
}

func (g *Gateway) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeSuccessResponse(w, g.metrics.Snapshot(), nil)
}

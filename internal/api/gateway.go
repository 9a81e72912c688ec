package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/mathroute/internal/agent"
	"github.com/mathroute/internal/benchmark"
	"github.com/mathroute/internal/config"
	"github.com/mathroute/internal/knowledge"
	"github.com/mathroute/internal/storage"
)

// Gateway represents the HTTP API surface of the routing agent.
type Gateway struct {
	server     *http.Server
	router     *mux.Router
	agent      *agent.Agent
	store      storage.Store
	knowledge  *knowledge.Store
	runner     *benchmark.Runner
	health     http.HandlerFunc
	config     config.APIConfig
	middleware []Middleware
	metrics    *GatewayMetrics
}

// Middleware represents HTTP middleware
type Middleware = mux.MiddlewareFunc

// GatewayMetrics represents gateway metrics
type GatewayMetrics struct {
	mu               sync.Mutex
	RequestsTotal    int64            `json:"requests_total"`
	RequestsFailed   int64            `json:"requests_failed"`
	AverageLatency   time.Duration    `json:"average_latency"`
	RequestsByPath   map[string]int64 `json:"requests_by_path"`
	RequestsByMethod map[string]int64 `json:"requests_by_method"`
	RequestsByStatus map[int]int64    `json:"requests_by_status"`
	LastRequest      time.Time        `json:"last_request"`
}

// MetricsSnapshot is a point-in-time copy of the gateway metrics, safe to
// serialize without the mutex.
type MetricsSnapshot struct {
	RequestsTotal    int64            `json:"requests_total"`
	RequestsFailed   int64            `json:"requests_failed"`
	AverageLatency   time.Duration    `json:"average_latency"`
	RequestsByPath   map[string]int64 `json:"requests_by_path"`
	RequestsByMethod map[string]int64 `json:"requests_by_method"`
	RequestsByStatus map[int]int64    `json:"requests_by_status"`
	LastRequest      time.Time        `json:"last_request"`
}

// Snapshot copies the current counters under the metrics lock.
func (m *GatewayMetrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := MetricsSnapshot{
		RequestsTotal:    m.RequestsTotal,
		RequestsFailed:   m.RequestsFailed,
		AverageLatency:   m.AverageLatency,
		RequestsByPath:   make(map[string]int64, len(m.RequestsByPath)),
		RequestsByMethod: make(map[string]int64, len(m.RequestsByMethod)),
		RequestsByStatus: make(map[int]int64, len(m.RequestsByStatus)),
		LastRequest:      m.LastRequest,
	}
	for k, v := range m.RequestsByPath {
		snapshot.RequestsByPath[k] = v
	}
	for k, v := range m.RequestsByMethod {
		snapshot.RequestsByMethod[k] = v
	}
	for k, v := range m.RequestsByStatus {
		snapshot.RequestsByStatus[k] = v
	}
	return snapshot
}

// NewGateway creates a new API gateway
func NewGateway(cfg config.APIConfig, a *agent.Agent, store storage.Store, ks *knowledge.Store, runner *benchmark.Runner, health http.HandlerFunc) *Gateway {
	router := mux.NewRouter()

	gateway := &Gateway{
		router:     router,
		agent:      a,
		store:      store,
		knowledge:  ks,
		runner:     runner,
		health:     health,
		config:     cfg,
		middleware: make([]Middleware, 0),
		metrics: &GatewayMetrics{
			RequestsByPath:   make(map[string]int64),
			RequestsByMethod: make(map[string]int64),
			RequestsByStatus: make(map[int]int64),
		},
	}

	gateway.setupRoutes()
	gateway.setupMiddleware()

	gateway.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return gateway
}

// setupRoutes configures all API routes
func (g *Gateway) setupRoutes() {
	api := g.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/solve", g.handleSolve).Methods("POST")
	api.HandleFunc("/feedback", g.handleFeedback).Methods("POST")
	api.HandleFunc("/feedback/insights", g.handleFeedbackInsights).Methods("GET")
	api.HandleFunc("/status", g.handleStatus).Methods("GET")
	api.HandleFunc("/activity", g.handleActivity).Methods("GET")
	api.HandleFunc("/knowledge-base/stats", g.handleKnowledgeBaseStats).Methods("GET")
	api.HandleFunc("/problems/{id}", g.handleGetProblem).Methods("GET")
	api.HandleFunc("/problems/{id}/feedback", g.handleProblemFeedback).Methods("GET")
	api.HandleFunc("/benchmark/jee", g.handleBenchmark).Methods("POST")
	api.HandleFunc("/health", g.health).Methods("GET")
	api.HandleFunc("/metrics", g.handleMetrics).Methods("GET")
}

// setupMiddleware configures HTTP middleware
func (g *Gateway) setupMiddleware() {
	for i := len(g.middleware) - 1; i >= 0; i-- {
		g.router.Use(g.middleware[i])
	}

	if g.config.EnableCORS {
		g.setupCORS()
	}

	// Metrics middleware (always last to capture all requests)
	if g.config.EnableMetrics {
		g.router.Use(g.metricsMiddleware)
	}
}

// setupCORS configures CORS
func (g *Gateway) setupCORS() {
	c := cors.New(cors.Options{
		AllowedOrigins:   g.config.AllowedOrigins,
		AllowedMethods:   g.config.AllowedMethods,
		AllowedHeaders:   g.config.AllowedHeaders,
		AllowCredentials: true,
	})

	g.router.Use(c.Handler)
}

// Start starts the API gateway
func (g *Gateway) Start() error {
	log.Printf("Starting API gateway on %s", g.server.Addr)
	return g.server.ListenAndServe()
}

// Stop stops the API gateway
func (g *Gateway) Stop(ctx context.Context) error {
	log.Printf("Stopping API gateway")
	return g.server.Shutdown(ctx)
}

// AddMiddleware adds middleware to the gateway
func (g *Gateway) AddMiddleware(middleware Middleware) {
	g.middleware = append(g.middleware, middleware)
}

// Handler exposes the router for tests.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Response types

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type APIMeta struct {
	Total   int  `json:"total,omitempty"`
	Limit   int  `json:"limit,omitempty"`
	Offset  int  `json:"offset,omitempty"`
	HasMore bool `json:"has_more,omitempty"`
}

// Helper functions

func writeJSONResponse(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message, details string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	writeJSONResponse(w, status, response)
}

func writeSuccessResponse(w http.ResponseWriter, data interface{}, meta *APIMeta) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	}
	writeJSONResponse(w, http.StatusOK, response)
}

func parseRequestBody(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// Middleware implementations

func (g *Gateway) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		g.updateMetrics(r, wrapped.statusCode, duration)
	})
}

func (g *Gateway) updateMetrics(r *http.Request, statusCode int, duration time.Duration) {
	g.metrics.mu.Lock()
	defer g.metrics.mu.Unlock()

	g.metrics.RequestsTotal++
	if statusCode >= http.StatusInternalServerError {
		g.metrics.RequestsFailed++
	}
	g.metrics.RequestsByPath[r.URL.Path]++
	g.metrics.RequestsByMethod[r.Method]++
	g.metrics.RequestsByStatus[statusCode]++
	g.metrics.LastRequest = time.Now()

	if g.metrics.AverageLatency == 0 {
		g.metrics.AverageLatency = duration
	} else {
		g.metrics.AverageLatency = (g.metrics.AverageLatency + duration) / 2
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

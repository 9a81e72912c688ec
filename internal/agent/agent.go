// Package agent implements the routing decision between the knowledge base
// and the web-search fallback, and the solve/feedback pipeline around it.
package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mathroute/internal/feedback"
	"github.com/mathroute/internal/guard"
	"github.com/mathroute/internal/knowledge"
	"github.com/mathroute/internal/storage"
	"github.com/mathroute/pkg/models"
)

// Config carries the routing policy. Both values are explicit parameters so
// the decision is testable in isolation.
type Config struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	TopK                int     `yaml:"top_k"`
}

// DefaultConfig returns the default routing policy.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.7,
		TopK:                3,
	}
}

// WebSearcher is the fallback search collaborator.
type WebSearcher interface {
	Search(ctx context.Context, query string) []models.SearchResult
	CheckConnection() string
}

// FallbackBuilder shapes search results into a solution document.
type FallbackBuilder func(query string, results []models.SearchResult) models.Solution

// SolutionCache caches solve responses keyed on sanitized problem text.
type SolutionCache interface {
	Get(ctx context.Context, key string, target interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ActivityPublisher mirrors activity records onto an event stream.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity models.Activity) error
}

// Outcome is the routing decision for one query.
type Outcome struct {
	FromKnowledgeBase bool
	Match             *knowledge.Match
}

// SolveResponse is the result of one solve request.
type SolveResponse struct {
	Problem      string                `json:"problem"`
	Solution     models.Solution       `json:"solution"`
	Source       models.SolutionSource `json:"source"`
	ResponseTime float64               `json:"response_time"`
	Category     models.Category       `json:"category"`
	ProblemID    string                `json:"problem_id"`
	Confidence   float64               `json:"confidence_score"`
	Difficulty   string                `json:"difficulty"`
}

// FeedbackRequest is the payload for SubmitFeedback.
type FeedbackRequest struct {
	ProblemID      string               `json:"problem_id"`
	AccuracyRating int                  `json:"accuracy_rating"`
	ClarityRating  models.ClarityRating `json:"clarity_rating"`
	Comments       string               `json:"comments,omitempty"`
	IsHelpful      bool                 `json:"is_helpful"`
}

// Agent routes problems between the knowledge base and web search.
type Agent struct {
	config    Config
	guard     *guard.Guard
	knowledge *knowledge.Store
	search    WebSearcher
	fallback  FallbackBuilder
	store     storage.Store
	processor *feedback.Processor
	cache     SolutionCache
	publisher ActivityPublisher
}

// Option configures optional collaborators.
type Option func(*Agent)

// WithCache attaches a solution cache.
func WithCache(cache SolutionCache) Option {
	return func(a *Agent) { a.cache = cache }
}

// WithPublisher attaches an activity event publisher.
func WithPublisher(publisher ActivityPublisher) Option {
	return func(a *Agent) { a.publisher = publisher }
}

// New creates an agent. All required collaborators are injected; there is
// no hidden global state.
func New(config Config, g *guard.Guard, ks *knowledge.Store, search WebSearcher, fallback FallbackBuilder, store storage.Store, processor *feedback.Processor, opts ...Option) *Agent {
	if config.TopK <= 0 {
		config.TopK = DefaultConfig().TopK
	}
	if config.SimilarityThreshold == 0 {
		config.SimilarityThreshold = DefaultConfig().SimilarityThreshold
	}

	a := &Agent{
		config:    config,
		guard:     g,
		knowledge: ks,
		search:    search,
		fallback:  fallback,
		store:     store,
		processor: processor,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Route retrieves the top-k similar entries and decides the answer source.
// The knowledge base wins only when the best score strictly exceeds the
// threshold; everything else falls back. Routing itself cannot fail.
func (a *Agent) Route(query string) Outcome {
	matches := a.knowledge.SearchSimilar(query, a.config.TopK)
	if len(matches) > 0 && matches[0].Similarity > a.config.SimilarityThreshold {
		return Outcome{FromKnowledgeBase: true, Match: &matches[0]}
	}
	return Outcome{}
}

// Solve runs the full pipeline: guard, route, answer, persist, log.
func (a *Agent) Solve(ctx context.Context, problem string, showSteps, includeExplanations bool) (*SolveResponse, error) {
	start := time.Now()

	problem = a.guard.Sanitize(problem)
	validation := a.guard.Validate(problem)
	if !validation.Accepted {
		return nil, &ValidationError{Reason: validation.Reason}
	}

	category := Categorize(problem)
	a.logActivity(ctx, "Problem submitted", models.SourceUserInput,
		fmt.Sprintf("Category: %s, Problem: %s", category, truncate(problem, 100)))

	response := a.cachedResponse(ctx, problem)
	if response == nil {
		var err error
		response, err = a.answer(ctx, problem, category)
		if err != nil {
			a.logActivity(ctx, "Solution failed", models.SourceError, truncate(err.Error(), 200))
			return nil, &InternalError{Cause: err}
		}
		a.cacheResponse(ctx, problem, response)
	}

	response.ResponseTime = float64(time.Since(start).Milliseconds())

	shaped := *response
	if !showSteps {
		shaped.Solution = shaped.Solution.WithoutSteps()
	} else if !includeExplanations {
		shaped.Solution = shaped.Solution.WithoutExplanations()
	}
	return &shaped, nil
}

// answer resolves the routing outcome into a persisted solution.
func (a *Agent) answer(ctx context.Context, problem string, category models.Category) (*SolveResponse, error) {
	outcome := a.Route(problem)

	if outcome.FromKnowledgeBase {
		match := outcome.Match

		// Prefer the query's own category; fall back to the match's.
		finalCategory := category
		if finalCategory == models.CategoryGeneral {
			finalCategory = match.Category
		}

		record, err := a.store.CreateProblem(ctx, problem, "intermediate", match.Solution, finalCategory, models.SourceKnowledgeBase)
		if err != nil {
			return nil, fmt.Errorf("storing knowledge base solution: %w", err)
		}

		a.logActivity(ctx, "Solution found", models.SourceKnowledgeBase,
			fmt.Sprintf("Similarity: %.2f", match.Similarity))

		return &SolveResponse{
			Problem:    problem,
			Solution:   match.Solution,
			Source:     models.SourceKnowledgeBase,
			Category:   finalCategory,
			ProblemID:  record.ID,
			Confidence: match.Similarity,
			Difficulty: "intermediate",
		}, nil
	}

	results := a.search.Search(ctx, problem)
	solution := a.fallback(problem, results)

	record, err := a.store.CreateProblem(ctx, problem, "advanced", solution, category, models.SourceWebSearch)
	if err != nil {
		return nil, fmt.Errorf("storing web search solution: %w", err)
	}

	a.logActivity(ctx, "Solution found", models.SourceWebSearch,
		fmt.Sprintf("Sources: %d found", len(results)))

	return &SolveResponse{
		Problem:    problem,
		Solution:   solution,
		Source:     models.SourceWebSearch,
		Category:   category,
		ProblemID:  record.ID,
		Confidence: solution.Confidence,
		Difficulty: "advanced",
	}, nil
}

// SubmitFeedback validates and persists one feedback entry, then runs the
// feedback processor over it.
func (a *Agent) SubmitFeedback(ctx context.Context, req FeedbackRequest) error {
	if req.ProblemID == "" {
		return NewValidationError("problem_id is required")
	}
	if req.AccuracyRating < 1 || req.AccuracyRating > 5 {
		return NewValidationError("accuracy_rating must be between 1 and 5")
	}
	if !req.ClarityRating.Valid() {
		return NewValidationError("clarity_rating must be one of %q, %q or %q",
			models.ClarityVeryClear, models.ClaritySomewhatClear, models.ClarityUnclear)
	}

	if _, err := a.store.GetProblem(ctx, req.ProblemID); err != nil {
		return fmt.Errorf("looking up problem %s: %w", req.ProblemID, err)
	}

	record, err := a.store.CreateFeedback(ctx, models.Feedback{
		ProblemID:      req.ProblemID,
		AccuracyRating: req.AccuracyRating,
		ClarityRating:  req.ClarityRating,
		Comments:       req.Comments,
		IsHelpful:      req.IsHelpful,
	})
	if err != nil {
		return &InternalError{Cause: fmt.Errorf("storing feedback: %w", err)}
	}

	a.processor.Process(*record)

	a.logActivity(ctx, "Feedback received", models.SourceUserFeedback,
		fmt.Sprintf("Rating: %d/5, Clarity: %s", req.AccuracyRating, req.ClarityRating))
	return nil
}

// SearchStatus reports fallback search availability.
func (a *Agent) SearchStatus() string {
	return a.search.CheckConnection()
}

// Insights exposes aggregate feedback insights.
func (a *Agent) Insights() feedback.Insights {
	return a.processor.Summarize()
}

// logActivity writes an activity record and mirrors it onto the event
// stream when a publisher is configured. Logging never fails the pipeline.
func (a *Agent) logActivity(ctx context.Context, action string, source models.SolutionSource, details string) {
	record, err := a.store.CreateActivity(ctx, action, source, details)
	if err != nil {
		log.Printf("Failed to record activity %q: %v", action, err)
		return
	}
	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, *record); err != nil {
			log.Printf("Failed to publish activity %q: %v", action, err)
		}
	}
}

func (a *Agent) cachedResponse(ctx context.Context, problem string) *SolveResponse {
	if a.cache == nil {
		return nil
	}
	var response SolveResponse
	found, err := a.cache.Get(ctx, problem, &response)
	if err != nil {
		log.Printf("Solution cache lookup failed: %v", err)
		return nil
	}
	if !found {
		return nil
	}
	return &response
}

func (a *Agent) cacheResponse(ctx context.Context, problem string, response *SolveResponse) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Set(ctx, problem, response, 0); err != nil {
		log.Printf("Solution cache write failed: %v", err)
	}
}

func truncate(s string, limit int) string {
	if runes := []rune(s); len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}

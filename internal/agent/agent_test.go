package agent

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathroute/internal/embedding"
	"github.com/mathroute/internal/feedback"
	"github.com/mathroute/internal/guard"
	"github.com/mathroute/internal/knowledge"
	"github.com/mathroute/internal/storage"
	"github.com/mathroute/internal/websearch"
	"github.com/mathroute/pkg/models"
)

func newTestAgent(t *testing.T, opts ...Option) (*Agent, *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	a := New(
		DefaultConfig(),
		guard.New(),
		knowledge.NewStore(embedding.NewHashProvider(embedding.DefaultDimensions)),
		websearch.NewService(websearch.Config{}),
		websearch.BuildSolution,
		store,
		feedback.NewProcessor(),
		opts...,
	)
	return a, store
}

func TestSolveKnowledgeBaseHit(t *testing.T) {
	a, store := newTestAgent(t)

	response, err := a.Solve(context.Background(), "solve quadratic equation x² + 5x + 6 = 0", true, true)
	require.NoError(t, err)

	assert.Equal(t, models.SourceKnowledgeBase, response.Source)
	assert.Equal(t, models.CategoryAlgebra, response.Category)
	assert.Equal(t, "intermediate", response.Difficulty)
	assert.InDelta(t, 1.0, response.Confidence, 1e-6)
	assert.NotEmpty(t, response.Solution.Steps)
	assert.Equal(t, "x = -2 or x = -3", response.Solution.FinalAnswer)

	// The solved problem is persisted and retrievable.
	record, err := store.GetProblem(context.Background(), response.ProblemID)
	require.NoError(t, err)
	assert.Equal(t, models.SourceKnowledgeBase, record.Source)
}

func TestSolveWebSearchFallback(t *testing.T) {
	a, store := newTestAgent(t)

	response, err := a.Solve(context.Background(), "evaluate the integral of e^x multiplied by tan(x) dx", true, true)
	require.NoError(t, err)

	assert.Equal(t, models.SourceWebSearch, response.Source)
	assert.Equal(t, "advanced", response.Difficulty)
	assert.NotEmpty(t, response.Solution.Steps)
	// Mock search supplies two results; confidence is the best relevance.
	assert.InDelta(t, 0.85, response.Confidence, 1e-9)

	record, err := store.GetProblem(context.Background(), response.ProblemID)
	require.NoError(t, err)
	assert.Equal(t, models.SourceWebSearch, record.Source)
}

func TestSolveRejectsNonMathematical(t *testing.T) {
	a, _ := newTestAgent(t)

	_, err := a.Solve(context.Background(), "hello there", true, true)
	require.Error(t, err)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.NotEmpty(t, validation.Reason)
}

func TestSolveRejectsPrivacyViolation(t *testing.T) {
	a, _ := newTestAgent(t)

	_, err := a.Solve(context.Background(), "solve my taxes, SSN 123-45-6789", true, true)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestSolveShapesSteps(t *testing.T) {
	a, _ := newTestAgent(t)
	ctx := context.Background()
	problem := "solve quadratic equation x² + 5x + 6 = 0"

	hidden, err := a.Solve(ctx, problem, false, true)
	require.NoError(t, err)
	assert.Empty(t, hidden.Solution.Steps)
	assert.NotEmpty(t, hidden.Solution.FinalAnswer)

	bare, err := a.Solve(ctx, problem, true, false)
	require.NoError(t, err)
	require.NotEmpty(t, bare.Solution.Steps)
	for _, step := range bare.Solution.Steps {
		assert.Empty(t, step.Explanation)
	}
}

func TestRouteThresholdIsStrict(t *testing.T) {
	store := knowledge.NewStore(embedding.NewHashProvider(embedding.DefaultDimensions))
	a := New(
		// A threshold of 1.0 can never be strictly exceeded, so even an
		// exact match routes to web search.
		Config{SimilarityThreshold: 1.0, TopK: 3},
		guard.New(),
		store,
		websearch.NewService(websearch.Config{}),
		websearch.BuildSolution,
		storage.NewMemoryStore(),
		feedback.NewProcessor(),
	)

	outcome := a.Route("solve quadratic equation x² + 5x + 6 = 0")
	assert.False(t, outcome.FromKnowledgeBase)
}

func TestRouteMissesUnrelatedQuery(t *testing.T) {
	a, _ := newTestAgent(t)

	// A query sharing no vocabulary with the seeded problems must fall
	// through to web search at the default threshold.
	outcome := a.Route("completely unrelated obscure research topic xyz123")
	assert.False(t, outcome.FromKnowledgeBase)
}

func TestSubmitFeedbackValidation(t *testing.T) {
	a, _ := newTestAgent(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  FeedbackRequest
	}{
		{"missing problem id", FeedbackRequest{AccuracyRating: 3, ClarityRating: models.ClarityVeryClear}},
		{"rating too low", FeedbackRequest{ProblemID: "p1", AccuracyRating: 0, ClarityRating: models.ClarityVeryClear}},
		{"rating too high", FeedbackRequest{ProblemID: "p1", AccuracyRating: 6, ClarityRating: models.ClarityVeryClear}},
		{"bad clarity", FeedbackRequest{ProblemID: "p1", AccuracyRating: 3, ClarityRating: "Crystal"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := a.SubmitFeedback(ctx, tc.req)
			var validation *ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}
}

func TestSubmitFeedbackUnknownProblem(t *testing.T) {
	a, _ := newTestAgent(t)

	err := a.SubmitFeedback(context.Background(), FeedbackRequest{
		ProblemID:      "00000000-0000-0000-0000-000000000000",
		AccuracyRating: 3,
		ClarityRating:  models.ClarityVeryClear,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSubmitFeedbackStored(t *testing.T) {
	a, store := newTestAgent(t)
	ctx := context.Background()

	response, err := a.Solve(ctx, "solve quadratic equation x² + 5x + 6 = 0", true, true)
	require.NoError(t, err)

	err = a.SubmitFeedback(ctx, FeedbackRequest{
		ProblemID:      response.ProblemID,
		AccuracyRating: 2,
		ClarityRating:  models.ClarityUnclear,
		Comments:       "confusing",
		IsHelpful:      false,
	})
	require.NoError(t, err)

	records, err := store.FeedbackByProblem(ctx, response.ProblemID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].AccuracyRating)
	assert.False(t, records[0].IsHelpful)

	insights := a.Insights()
	assert.Equal(t, 1, insights.TotalFeedback)
}

func TestSolveUsesCache(t *testing.T) {
	cache := &fakeCache{entries: make(map[string][]byte)}
	a, _ := newTestAgent(t, WithCache(cache))
	ctx := context.Background()
	problem := "solve quadratic equation x² + 5x + 6 = 0"

	first, err := a.Solve(ctx, problem, true, true)
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	second, err := a.Solve(ctx, problem, true, true)
	require.NoError(t, err)
	// Second call is served from cache, not recomputed or re-persisted.
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first.ProblemID, second.ProblemID)
}

func TestActivityLogged(t *testing.T) {
	a, store := newTestAgent(t)
	ctx := context.Background()

	_, err := a.Solve(ctx, "solve quadratic equation x² + 5x + 6 = 0", true, true)
	require.NoError(t, err)

	submitted, err := store.ActivityBySource(ctx, models.SourceUserInput)
	require.NoError(t, err)
	assert.Len(t, submitted, 1)

	found, err := store.ActivityBySource(ctx, models.SourceKnowledgeBase)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestCategorize(t *testing.T) {
	cases := map[string]models.Category{
		"find the derivative of x^2":      models.CategoryCalculus,
		"solve the equation x + 1 = 2":    models.CategoryAlgebra,
		"area of a circle with radius 2":  models.CategoryGeometry,
		"calculate the mean of 1, 2, 3":   models.CategoryStatistics,
		"what is sin(π/4)":                models.CategoryTrigonometry,
		"a problem about nothing special": models.CategoryGeneral,
	}

	for problem, want := range cases {
		assert.Equal(t, want, Categorize(problem), "problem: %s", problem)
	}
}

// fakeCache is an in-memory SolutionCache for tests.
type fakeCache struct {
	entries map[string][]byte
	sets    int
}

func (c *fakeCache) Get(ctx context.Context, key string, target interface{}) (bool, error) {
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, target)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	c.sets++
	return nil
}

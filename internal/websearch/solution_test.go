package websearch

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathroute/pkg/models"
)

func TestBuildSolutionEmptyResults(t *testing.T) {
	solution := BuildSolution("prove the continuum hypothesis", nil)

	require.Len(t, solution.Steps, 1)
	assert.Equal(t, "Advanced Topic Identified", solution.Steps[0].Title)
	assert.NotEmpty(t, solution.FinalAnswer)
	assert.Equal(t, 0.3, solution.Confidence)
	assert.Empty(t, solution.Sources)
}

func TestBuildSolutionFromResults(t *testing.T) {
	results := []models.SearchResult{
		{Title: "First", Content: "How to solve this equation step by step", URL: "https://a.example", Relevance: 0.9},
		{Title: "Second", Content: "More background material", URL: "https://b.example", Relevance: 0.6},
	}

	solution := BuildSolution("solve something hard", results)

	// Content mentions "solve" and "equation", so the method step is added.
	require.Len(t, solution.Steps, 3)
	assert.Equal(t, "Problem Analysis", solution.Steps[0].Title)
	assert.Equal(t, "Solution Approach", solution.Steps[1].Title)
	assert.Equal(t, "Mathematical Method", solution.Steps[2].Title)

	require.Len(t, solution.Sources, 2)
	assert.Equal(t, "First", solution.Sources[0].Title)
	assert.Equal(t, "https://a.example", solution.Sources[0].URL)

	// Confidence is the highest relevance among the results.
	assert.Equal(t, 0.9, solution.Confidence)
}

func TestBuildSolutionWithoutProcedureKeywords(t *testing.T) {
	results := []models.SearchResult{
		{Title: "Background", Content: "General topic overview", Relevance: 0.5},
	}

	solution := BuildSolution("something", results)
	assert.Len(t, solution.Steps, 2)
}

func TestBuildSolutionTruncatesSummary(t *testing.T) {
	long := strings.Repeat("π", 500)
	results := []models.SearchResult{{Title: "Long", Content: long, Relevance: 0.4}}

	solution := BuildSolution("query", results)

	content := solution.Steps[0].Content
	// Prefix plus at most 200 runes of content plus the ellipsis.
	assert.LessOrEqual(t, len([]rune(content)), len([]rune("Based on current mathematical research: "))+200+3)
	assert.True(t, strings.HasSuffix(content, "..."))
}

func TestBuildSolutionSourcesCappedAtThree(t *testing.T) {
	results := []models.SearchResult{
		{Title: "a", Relevance: 0.1},
		{Title: "b", Relevance: 0.2},
		{Title: "c", Relevance: 0.3},
		{Title: "d", Relevance: 0.4},
	}

	solution := BuildSolution("query", results)
	assert.Len(t, solution.Sources, 3)
	// Relevance is still scanned across all results.
	assert.Equal(t, 0.4, solution.Confidence)
}

func TestServiceFallsBackToMock(t *testing.T) {
	service := NewService(Config{})

	assert.Equal(t, "no_api_key", service.CheckConnection())

	results := service.Search(context.Background(), "solve x + 1 = 2")
	require.Len(t, results, 2)
	assert.Contains(t, results[0].Content, "solve x + 1 = 2")
	assert.Equal(t, 0.85, results[0].Relevance)
}

func TestServiceConnectedWithKey(t *testing.T) {
	service := NewService(Config{TavilyAPIKey: "test-key"})
	assert.Equal(t, "connected", service.CheckConnection())
}

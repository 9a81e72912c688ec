package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolutionWithoutSteps(t *testing.T) {
	solution := Solution{
		Steps:       []Step{{Number: 1, Title: "a", Explanation: "why"}},
		FinalAnswer: "42",
	}

	stripped := solution.WithoutSteps()
	assert.Empty(t, stripped.Steps)
	assert.Equal(t, "42", stripped.FinalAnswer)
	// The original is untouched.
	assert.Len(t, solution.Steps, 1)
}

func TestSolutionWithoutExplanations(t *testing.T) {
	solution := Solution{
		Steps: []Step{
			{Number: 1, Title: "a", Explanation: "why"},
			{Number: 2, Title: "b", Explanation: "because"},
		},
	}

	stripped := solution.WithoutExplanations()
	assert.Len(t, stripped.Steps, 2)
	for _, step := range stripped.Steps {
		assert.Empty(t, step.Explanation)
	}
	assert.Equal(t, "why", solution.Steps[0].Explanation)
}

func TestClarityRatingValid(t *testing.T) {
	assert.True(t, ClarityVeryClear.Valid())
	assert.True(t, ClaritySomewhatClear.Valid())
	assert.True(t, ClarityUnclear.Valid())
	assert.False(t, ClarityRating("Crystal").Valid())
	assert.False(t, ClarityRating("").Valid())
}

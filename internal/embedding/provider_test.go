package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashProviderDeterministic(t *testing.T) {
	provider := NewHashProvider(DefaultDimensions)

	first := provider.Embed("solve x^2 + 5x + 6 = 0")
	second := provider.Embed("solve x^2 + 5x + 6 = 0")

	require.Len(t, first, DefaultDimensions)
	assert.Equal(t, first, second)
}

func TestHashProviderCaseInsensitive(t *testing.T) {
	provider := NewHashProvider(DefaultDimensions)

	lower := provider.Embed("solve the equation")
	upper := provider.Embed("SOLVE THE EQUATION")

	assert.Equal(t, lower, upper)
}

func TestHashProviderEmptyInput(t *testing.T) {
	provider := NewHashProvider(DefaultDimensions)

	for _, input := range []string{"", "   ", "\t\n"} {
		vector := provider.Embed(input)
		require.Len(t, vector, DefaultDimensions)
		for _, v := range vector {
			assert.Zero(t, v)
		}
	}
}

func TestHashProviderDimensionsFallback(t *testing.T) {
	assert.Equal(t, DefaultDimensions, NewHashProvider(0).Dimensions())
	assert.Equal(t, DefaultDimensions, NewHashProvider(-5).Dimensions())
	assert.Equal(t, 16, NewHashProvider(16).Dimensions())
}

func TestHashProviderDiscriminates(t *testing.T) {
	provider := NewHashProvider(DefaultDimensions)

	math := provider.Embed("solve quadratic equation x² + 5x + 6 = 0")
	unrelated := provider.Embed("completely unrelated obscure research topic xyz123")

	similarity := CosineSimilarity(math, unrelated)
	assert.Less(t, similarity, 0.5)
	assert.Greater(t, similarity, -0.5)
}

func TestCosineSimilaritySelf(t *testing.T) {
	provider := NewHashProvider(DefaultDimensions)
	vector := provider.Embed("find derivative of x^3")

	assert.InDelta(t, 1.0, CosineSimilarity(vector, vector), 1e-9)
}

func TestCosineSimilarityDegenerate(t *testing.T) {
	zero := make([]float64, 4)
	unit := []float64{1, 0, 0, 0}

	assert.Zero(t, CosineSimilarity(zero, unit))
	assert.Zero(t, CosineSimilarity(unit, zero))
	assert.Zero(t, CosineSimilarity(nil, nil))
	assert.Zero(t, CosineSimilarity(unit, []float64{1, 0}))
}

func TestCosineSimilarityOpposite(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-1, -2, -3}

	assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
}

package embedding

import (
	"math"
	"strings"
)

// DefaultDimensions is the vector length produced by the built-in provider.
const DefaultDimensions = 384

// Provider generates a fixed-length vector for a text string. Implementations
// must be deterministic: the same text always yields the same vector.
type Provider interface {
	Embed(text string) []float64
	Dimensions() int
}

// HashProvider is a deterministic pseudo-embedding with no semantic meaning.
// Each whitespace token is hashed with a 32-bit polynomial string hash and
// every dimension accumulates sin(hash*(dim+1) + tokenIndex) * 0.1 across
// all tokens. Scaling the phase by the dimension index keeps the dimensions
// decorrelated, so texts sharing no tokens score near zero similarity. It
// exists so that similarity search has a reproducible numeric contract
// without an external model.
type HashProvider struct {
	dimensions int
}

// NewHashProvider creates a hash-based provider. A non-positive dimension
// count falls back to DefaultDimensions.
func NewHashProvider(dimensions int) *HashProvider {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &HashProvider{dimensions: dimensions}
}

// Dimensions returns the vector length.
func (p *HashProvider) Dimensions() int {
	return p.dimensions
}

// Embed maps text to a vector. Input with no tokens yields an all-zero
// vector, which callers must treat as zero similarity against anything.
func (p *HashProvider) Embed(text string) []float64 {
	vector := make([]float64, p.dimensions)

	tokens := strings.Fields(strings.ToLower(text))
	for tokenIndex, token := range tokens {
		hash := tokenHash(token)
		for i := 0; i < p.dimensions; i++ {
			vector[i] += math.Sin(float64(hash)*float64(i+1)+float64(tokenIndex)) * 0.1
		}
	}

	return vector
}

// tokenHash is the classic h = h*31 + c polynomial hash with 32-bit
// wraparound, mapped to a non-negative value.
func tokenHash(token string) int {
	var h int32
	for _, r := range token {
		h = h*31 + int32(r)
	}
	if h < 0 {
		h = -h
	}
	return int(h)
}

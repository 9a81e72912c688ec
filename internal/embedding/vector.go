package embedding

import "math"

// CosineSimilarity computes dot(a,b) / (|a| * |b|). Mismatched lengths or a
// zero-norm vector return 0 rather than NaN, so degenerate embeddings (for
// example, an empty query) never rank above real matches.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

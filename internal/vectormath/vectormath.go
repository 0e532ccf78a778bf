// Package vectormath provides the numeric primitives used by relevance scoring.
package vectormath

import "math"

// CosineSimilarity returns the normalized dot product of a and b.
//
// It returns 0 when either vector is empty, when the lengths differ, or when
// either vector has a zero norm. It never panics; a bad pair degrades to a
// zero similarity instead of failing the whole query.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
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

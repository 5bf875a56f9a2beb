// Package vectorindex defines the distance metric shared by all vector
// index implementations. The index contract itself lives in domain.
package vectorindex

import "math"

// CosineDistance returns 1 minus the cosine similarity of a and b, so that
// identical directions map to 0 and opposite directions to 2. Vectors of
// mismatched or zero length, and zero vectors, are maximally distant.
func CosineDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

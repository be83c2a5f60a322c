package domain

import (
	"fmt"
	"math"
)

// CosineSimilarity returns the normalized dot product of two equal-length
// vectors, in [-1, 1]. A zero-norm operand yields 0 rather than an error so
// retrieval stays total over degenerate embeddings. Unequal lengths are a
// caller bug and return ErrDimensionMismatch instead of silently truncating.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, WrapError(ErrDimensionMismatch, "cosine similarity", fmt.Errorf("len(a)=%d len(b)=%d", len(a), len(b)))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

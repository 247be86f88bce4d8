package service

import (
	"fmt"
	"math"

	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
)

// CosineSimilarity returns dot(a,b)/(|a||b|), or 0 when either vector has zero magnitude.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, appErrors.Clone(appErrors.ErrDimensionMismatch, fmt.Sprintf("vector dimensions differ: %d vs %d", len(a), len(b)))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// clamp rounding drift
	return math.Max(-1, math.Min(1, similarity)), nil
}

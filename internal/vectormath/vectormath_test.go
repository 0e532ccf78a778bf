package vectormath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	v := []float64{0.3, -0.5, 0.8, 0.1}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarity_NegationIsMinusOne(t *testing.T) {
	v := []float64{0.3, -0.5, 0.8, 0.1}
	neg := make([]float64, len(v))
	for i := range v {
		neg[i] = -v[i]
	}
	assert.InDelta(t, -1.0, CosineSimilarity(v, neg), 1e-9)
}

func TestCosineSimilarity_OrthogonalIsZero(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	a := []float64{1, 2, 3}
	zero := []float64{0, 0, 0}
	assert.Equal(t, 0.0, CosineSimilarity(a, zero))
	assert.Equal(t, 0.0, CosineSimilarity(zero, a))
}

func TestCosineSimilarity_EmptyAndNil(t *testing.T) {
	a := []float64{1, 2, 3}
	assert.Equal(t, 0.0, CosineSimilarity(a, nil))
	assert.Equal(t, 0.0, CosineSimilarity(nil, a))
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, CosineSimilarity(a, []float64{}))
}

func TestCosineSimilarity_LengthMismatch(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2}
	assert.Equal(t, 0.0, CosineSimilarity(a, b))
}

func TestCosineSimilarity_UnnormalizedInputs(t *testing.T) {
	// Same direction, different magnitudes: still 1.
	a := []float64{1, 1}
	b := []float64{10, 10}
	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-9)
}

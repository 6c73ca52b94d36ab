package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical unit vectors", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch scores zero", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"empty scores zero", []float32{}, []float32{}, 0},
		{"zero vector scores zero", []float32{0, 0}, []float32{1, 0}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Similarity(tc.a, tc.b), 1e-6)
		})
	}
}

func TestSimilaritySelfIsOne(t *testing.T) {
	v := []float32{0.3, -0.2, 0.9, 0.1}
	assert.InDelta(t, 1.0, Similarity(v, v), 1e-6)
}

func TestSimilarityScaleInvariant(t *testing.T) {
	a := []float32{0.5, 0.5, 0}
	b := []float32{5, 5, 0}
	assert.InDelta(t, 1.0, Similarity(a, b), 1e-6)
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

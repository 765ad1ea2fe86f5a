package embed

import (
	"context"
	"hash/fnv"
	"math"
)

// mockProvider produces deterministic pseudo-embeddings from a hash of the
// input text. It never calls a real model; it exists so tests and the
// `mock` config provider exercise the same Provider contract as
// production code. Grounded on the teacher's embed/mock.go stub.
type mockProvider struct {
	dims int
}

// NewMockProvider returns a Provider that deterministically hashes text
// into a unit-length vector of dims dimensions (defaults to Dimensions).
func NewMockProvider(dims int) Provider {
	if dims <= 0 {
		dims = Dimensions
	}
	return &mockProvider{dims: dims}
}

func (m *mockProvider) Embed(_ context.Context, texts []string, _ Mode) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = hashEmbedding(text, m.dims)
	}
	return out, nil
}

func (m *mockProvider) EmbedDimensions() int { return m.dims }

func (m *mockProvider) Close() error { return nil }

// hashEmbedding deterministically derives a unit-length vector from text
// using repeated FNV-1a hashing as a cheap stand-in PRNG. Two identical
// texts always embed identically; similar texts do not reliably embed
// similarly (this is not a semantic model).
func hashEmbedding(text string, dims int) []float32 {
	vec := make([]float32, dims)
	h := fnv.New64a()
	seed := []byte(text)

	var sumSq float64
	for i := 0; i < dims; i++ {
		h.Reset()
		h.Write(seed)
		h.Write([]byte{byte(i), byte(i >> 8)})
		sum := h.Sum64()
		// Map to [-1, 1].
		v := float64(sum%2000001)/1000000.0 - 1.0
		vec[i] = float32(v)
		sumSq += v * v
	}

	norm := math.Sqrt(sumSq)
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_Deterministic(t *testing.T) {
	p := NewMockProvider(16)
	a, err := p.Embed(context.Background(), []string{"hello world"}, ModePassage)
	require.NoError(t, err)
	b, err := p.Embed(context.Background(), []string{"hello world"}, ModePassage)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMockProvider_UnitLength(t *testing.T) {
	p := NewMockProvider(32)
	vecs, err := p.Embed(context.Background(), []string{"abc"}, ModeQuery)
	require.NoError(t, err)
	require.Len(t, vecs, 1)

	var sumSq float64
	for _, v := range vecs[0] {
		sumSq += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSq), 1e-6)
}

func TestMockProvider_DifferentTextsDiffer(t *testing.T) {
	p := NewMockProvider(16)
	vecs, err := p.Embed(context.Background(), []string{"foo", "bar"}, ModePassage)
	require.NoError(t, err)
	assert.NotEqual(t, vecs[0], vecs[1])
}

func TestMockProvider_Dimensions(t *testing.T) {
	p := NewMockProvider(0)
	assert.Equal(t, Dimensions, p.EmbedDimensions())
}

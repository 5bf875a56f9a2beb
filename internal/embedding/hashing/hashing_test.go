package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedDeterministic(t *testing.T) {
	e := NewEmbedder()
	first, err := e.Embed(context.Background(), "Where is the library located?")
	require.NoError(t, err)
	second, err := e.Embed(context.Background(), "Where is the library located?")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEmbedDimensionAndNorm(t *testing.T) {
	e := NewEmbedder()
	vec, err := e.Embed(context.Background(), "Books, study rooms, and research support.")
	require.NoError(t, err)
	require.Len(t, vec, e.Dimension())

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestEmbedEmptyTextIsZeroVector(t *testing.T) {
	e := NewEmbedder()
	vec, err := e.Embed(context.Background(), "  ...  ")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbedManyPreservesOrder(t *testing.T) {
	e := NewEmbedder()
	texts := []string{"library hours", "dining options", "parking permits"}
	vecs, err := e.EmbedMany(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, len(texts))
	for i, text := range texts {
		want, err := e.Embed(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, want, vecs[i])
	}
}

func TestModelIncludesDimension(t *testing.T) {
	assert.Equal(t, "hashing-v1-d256", NewEmbedder().Model())
	assert.Equal(t, "hashing-v1-d512", NewEmbedderWithDimension(512).Model())
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-assist/internal/domain"
)

func doc(id, text string) domain.IndexedDocument {
	return domain.IndexedDocument{ID: id, Text: text, Metadata: map[string]string{"name": id}}
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix := NewIndex()
	require.NoError(t, ix.Init(context.Background(), 2, "hashing-v1-d2"))
	return ix
}

func TestQueryOrderedByDistance(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)
	require.NoError(t, ix.Upsert(ctx,
		[]domain.IndexedDocument{doc("a", "a"), doc("b", "b"), doc("c", "c")},
		[][]float64{{0, 1}, {1, 0}, {1, 1}},
	))

	res, err := ix.Query(ctx, []float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "b", res[0].Document.ID)
	assert.Equal(t, "c", res[1].Document.ID)
	assert.Equal(t, "a", res[2].Document.ID)
	for i := 1; i < len(res); i++ {
		assert.GreaterOrEqual(t, res[i].Distance, res[i-1].Distance)
	}
}

func TestQueryKExceedsEntries(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)
	require.NoError(t, ix.Upsert(ctx, []domain.IndexedDocument{doc("a", "a")}, [][]float64{{1, 0}}))

	res, err := ix.Query(ctx, []float64{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestQueryEmptyIndex(t *testing.T) {
	ix := newTestIndex(t)
	res, err := ix.Query(context.Background(), []float64{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestUpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)
	require.NoError(t, ix.Upsert(ctx, []domain.IndexedDocument{doc("r1", "first")}, [][]float64{{1, 0}}))
	require.NoError(t, ix.Upsert(ctx, []domain.IndexedDocument{doc("r1", "second")}, [][]float64{{1, 0}}))

	n, err := ix.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	res, err := ix.Query(ctx, []float64{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "second", res[0].Document.Text)
}

func TestEqualDistanceBreaksByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)
	require.NoError(t, ix.Upsert(ctx,
		[]domain.IndexedDocument{doc("first", "x"), doc("second", "y")},
		[][]float64{{1, 1}, {1, 1}},
	))

	res, err := ix.Query(ctx, []float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, res[0].Distance, res[1].Distance)
	assert.Equal(t, "first", res[0].Document.ID)
	assert.Equal(t, "second", res[1].Document.ID)
}

func TestDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)
	err := ix.Upsert(ctx, []domain.IndexedDocument{doc("a", "a")}, [][]float64{{1, 0, 0}})
	assert.Error(t, err)

	require.NoError(t, ix.Upsert(ctx, []domain.IndexedDocument{doc("a", "a")}, [][]float64{{1, 0}}))
	_, err = ix.Query(ctx, []float64{1, 0, 0}, 1)
	assert.Error(t, err)
}

func TestModelRecorded(t *testing.T) {
	ix := newTestIndex(t)
	model, err := ix.Model(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hashing-v1-d2", model)
}

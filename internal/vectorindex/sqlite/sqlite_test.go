package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-assist/internal/domain"
)

func doc(id, text string) domain.IndexedDocument {
	return domain.IndexedDocument{ID: id, Text: text, Metadata: map[string]string{"name": id}}
}

func openTestIndex(t *testing.T, path string) *Index {
	t.Helper()
	ix, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func TestUpsertQueryRoundTrip(t *testing.T) {
	ctx := context.Background()
	ix := openTestIndex(t, filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, ix.Init(ctx, 2, "hashing-v1-d2"))

	require.NoError(t, ix.Upsert(ctx,
		[]domain.IndexedDocument{doc("a", "alpha"), doc("b", "beta")},
		[][]float64{{0, 1}, {1, 0}},
	))

	res, err := ix.Query(ctx, []float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "b", res[0].Document.ID)
	assert.Equal(t, "beta", res[0].Document.Text)
	assert.Equal(t, map[string]string{"name": "b"}, res[0].Document.Metadata)
	assert.Less(t, res[0].Distance, res[1].Distance)
}

func TestUpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	ix := openTestIndex(t, filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, ix.Init(ctx, 2, "hashing-v1-d2"))

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

func TestQueryEmptyIndex(t *testing.T) {
	ctx := context.Background()
	ix := openTestIndex(t, filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, ix.Init(ctx, 2, "hashing-v1-d2"))

	res, err := ix.Query(ctx, []float64{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestModelPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	ix := openTestIndex(t, path)
	require.NoError(t, ix.Init(ctx, 2, "hashing-v1-d2"))
	require.NoError(t, ix.Close())

	reopened := openTestIndex(t, path)
	require.NoError(t, reopened.Init(ctx, 2, "hashing-v1-d2"))
	model, err := reopened.Model(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hashing-v1-d2", model)
}

func TestReopenWithDifferentModel(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	ix := openTestIndex(t, path)
	require.NoError(t, ix.Init(ctx, 2, "hashing-v1-d2"))
	require.NoError(t, ix.Close())

	reopened := openTestIndex(t, path)
	err := reopened.Init(ctx, 2, "openai/text-embedding-3-small")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigMismatch)
}

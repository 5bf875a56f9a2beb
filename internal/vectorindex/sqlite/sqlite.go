// Package sqlite provides a persistent vector index on a local SQLite
// database. Vectors are stored as little-endian float64 blobs and scanned
// with brute-force cosine distance; the corpus is small enough that no
// approximate-neighbor structure is needed. The embedding model identifier
// is recorded in a meta table so an index built with one model cannot be
// queried through another.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	_ "modernc.org/sqlite"

	"campus-assist/internal/domain"
	"campus-assist/internal/vectorindex"
)

const schema = `
CREATE TABLE IF NOT EXISTS index_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS documents (
	id       TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	text     TEXT NOT NULL,
	metadata TEXT NOT NULL,
	vector   BLOB NOT NULL
);
`

// Index is a SQLite-backed vector index.
type Index struct {
	db        *sql.DB
	dimension int
	model     string
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	return &Index{db: db}, nil
}

// Init creates the schema and records dimension and model. Reopening an
// existing index with a different embedding model is a configuration
// mismatch; a different dimension is rejected as corrupt configuration.
func (ix *Index) Init(ctx context.Context, dimension int, model string) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	if _, err := ix.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	storedModel, okModel, err := ix.meta(ctx, "model")
	if err != nil {
		return err
	}
	storedDim, okDim, err := ix.meta(ctx, "dimension")
	if err != nil {
		return err
	}
	if okModel && storedModel != model {
		return fmt.Errorf("%w: index has %q, embedder is %q", domain.ErrConfigMismatch, storedModel, model)
	}
	if okDim {
		if d, _ := strconv.Atoi(storedDim); d != dimension {
			return fmt.Errorf("stored dimension %s does not match %d", storedDim, dimension)
		}
	}
	if err := ix.setMeta(ctx, "model", model); err != nil {
		return err
	}
	if err := ix.setMeta(ctx, "dimension", strconv.Itoa(dimension)); err != nil {
		return err
	}
	ix.dimension = dimension
	ix.model = model
	return nil
}

func (ix *Index) Upsert(ctx context.Context, docs []domain.IndexedDocument, vectors [][]float64) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	defer tx.Rollback()

	var next int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM documents`).Scan(&next); err != nil {
		return err
	}
	for i, doc := range docs {
		if len(vectors[i]) != ix.dimension {
			return errors.New("vector dimension mismatch")
		}
		meta, err := json.Marshal(doc.Metadata)
		if err != nil {
			return err
		}
		// ON CONFLICT keeps the original position so replacement does not
		// change tie-breaking order
		res, err := tx.ExecContext(ctx,
			`INSERT INTO documents (id, position, text, metadata, vector) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET text = excluded.text, metadata = excluded.metadata, vector = excluded.vector`,
			doc.ID, next, doc.Text, string(meta), encodeVector(vectors[i]),
		)
		if err != nil {
			return fmt.Errorf("upsert document %s: %w", doc.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			next++
		}
	}
	return tx.Commit()
}

func (ix *Index) Query(ctx context.Context, vector []float64, k int) (domain.RetrievalResult, error) {
	if k <= 0 {
		return domain.RetrievalResult{}, nil
	}
	if len(vector) != ix.dimension {
		return nil, errors.New("query vector dimension mismatch")
	}
	rows, err := ix.db.QueryContext(ctx, `SELECT id, text, metadata, vector FROM documents ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	defer rows.Close()

	results := domain.RetrievalResult{}
	for rows.Next() {
		var id, text, metaJSON string
		var blob []byte
		if err := rows.Scan(&id, &text, &metaJSON, &blob); err != nil {
			return nil, err
		}
		var meta map[string]string
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", id, err)
		}
		results = append(results, domain.SearchResult{
			Document: domain.IndexedDocument{ID: id, Text: text, Metadata: meta},
			Distance: vectorindex.CosineDistance(vector, decodeVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (ix *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	return n, nil
}

func (ix *Index) Model(ctx context.Context) (string, error) {
	model, ok, err := ix.meta(ctx, "model")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("index not initialized")
	}
	return model, nil
}

func (ix *Index) Close() error { return ix.db.Close() }

func (ix *Index) meta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := ix.db.QueryRowContext(ctx, `SELECT value FROM index_meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	return value, true, nil
}

func (ix *Index) setMeta(ctx context.Context, key, value string) error {
	_, err := ix.db.ExecContext(ctx,
		`INSERT INTO index_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func encodeVector(v []float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(x))
	}
	return buf
}

func decodeVector(buf []byte) []float64 {
	v := make([]float64, len(buf)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return v
}

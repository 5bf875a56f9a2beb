// Package memory provides an in-memory vector index using brute-force
// cosine distance. Upserts replace entries in place, so insertion order is
// preserved and used to break distance ties.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"campus-assist/internal/domain"
	"campus-assist/internal/vectorindex"
)

type entry struct {
	doc    domain.IndexedDocument
	vector []float64
}

// Index is a brute-force in-memory vector index. A single RWMutex protects
// upserts; reads never mutate state, so concurrent queries are safe during
// the serving phase.
type Index struct {
	mu        sync.RWMutex
	dimension int
	model     string
	entries   []entry
	byID      map[string]int
}

func NewIndex() *Index { return &Index{byID: make(map[string]int)} }

func (ix *Index) Init(_ context.Context, dimension int, model string) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.dimension = dimension
	ix.model = model
	ix.entries = nil
	ix.byID = make(map[string]int)
	return nil
}

func (ix *Index) Upsert(_ context.Context, docs []domain.IndexedDocument, vectors [][]float64) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, v := range vectors {
		if len(v) != ix.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	for i, doc := range docs {
		if pos, ok := ix.byID[doc.ID]; ok {
			// replacement keeps the original insertion position
			ix.entries[pos] = entry{doc: doc, vector: vectors[i]}
			continue
		}
		ix.byID[doc.ID] = len(ix.entries)
		ix.entries = append(ix.entries, entry{doc: doc, vector: vectors[i]})
	}
	return nil
}

func (ix *Index) Query(_ context.Context, vector []float64, k int) (domain.RetrievalResult, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if k <= 0 || len(ix.entries) == 0 {
		return domain.RetrievalResult{}, nil
	}
	if len(vector) != ix.dimension {
		return nil, errors.New("query vector dimension mismatch")
	}
	results := make(domain.RetrievalResult, len(ix.entries))
	for i, e := range ix.entries {
		results[i] = domain.SearchResult{Document: e.doc, Distance: vectorindex.CosineDistance(vector, e.vector)}
	}
	// stable sort keeps first-inserted entries ahead on equal distance
	sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (ix *Index) Count(_ context.Context) (int, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries), nil
}

func (ix *Index) Model(_ context.Context) (string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.model, nil
}

func (ix *Index) Close() error { return nil }

// Package retrieval wires the embedder and the vector index together: a
// one-shot indexing pass over the knowledge base, and a query path that
// embeds a question and runs a nearest-neighbor lookup.
package retrieval

import (
	"context"
	"fmt"
	"log"

	"campus-assist/internal/domain"
	"campus-assist/internal/knowledge"
)

// Orchestrator composes an Embedder and a VectorIndex. It applies no
// filtering or reranking; failures from either collaborator propagate.
type Orchestrator struct {
	embedder domain.Embedder
	index    domain.VectorIndex
}

func NewOrchestrator(embedder domain.Embedder, index domain.VectorIndex) *Orchestrator {
	return &Orchestrator{embedder: embedder, index: index}
}

// IndexRecords builds, embeds and upserts the given records. Records with
// missing required fields are skipped and logged; they never fail the batch.
// Returns the number of documents indexed and the number skipped.
func (o *Orchestrator) IndexRecords(ctx context.Context, records []domain.FacilityRecord) (int, int, error) {
	var docs []domain.IndexedDocument
	var texts []string
	skipped := 0
	for _, rec := range records {
		doc, err := knowledge.Build(rec)
		if err != nil {
			log.Printf("skipping record: %v", err)
			skipped++
			continue
		}
		docs = append(docs, doc)
		texts = append(texts, doc.Text)
	}
	if len(docs) == 0 {
		// still initialize, so an empty index answers queries with an
		// empty result instead of failing on missing storage
		if dim := o.embedder.Dimension(); dim > 0 {
			if err := o.index.Init(ctx, dim, o.embedder.Model()); err != nil {
				return 0, skipped, err
			}
		}
		return 0, skipped, nil
	}

	vectors, err := o.embedder.EmbedMany(ctx, texts)
	if err != nil {
		return 0, skipped, fmt.Errorf("embed documents: %w", err)
	}
	if err := o.index.Init(ctx, len(vectors[0]), o.embedder.Model()); err != nil {
		return 0, skipped, err
	}
	if err := o.index.Upsert(ctx, docs, vectors); err != nil {
		return 0, skipped, fmt.Errorf("upsert documents: %w", err)
	}
	return len(docs), skipped, nil
}

// Retrieve embeds the question and returns the k nearest documents. The
// embedding model recorded in the index must match the query-time embedder.
func (o *Orchestrator) Retrieve(ctx context.Context, question string, k int) (domain.RetrievalResult, error) {
	indexModel, err := o.index.Model(ctx)
	if err != nil {
		return nil, err
	}
	if indexModel != "" && indexModel != o.embedder.Model() {
		return nil, fmt.Errorf("%w: index has %q, embedder is %q", domain.ErrConfigMismatch, indexModel, o.embedder.Model())
	}
	vec, err := o.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	results, err := o.index.Query(ctx, vec, k)
	if err != nil {
		return nil, err
	}
	return results, nil
}

package domain

import "context"

// FacilityRecord is a single entry in the campus knowledge base.
// Records are immutable once loaded; the JSON data file is the source of truth.
type FacilityRecord struct {
	ID             string            `json:"id" validate:"required"`
	Name           string            `json:"name" validate:"required"`
	Category       string            `json:"type" validate:"required"`
	Location       string            `json:"location" validate:"required"`
	Hours          map[string]string `json:"hours,omitempty"`
	Description    string            `json:"description" validate:"required"`
	Contact        string            `json:"contact" validate:"required"`
	AdditionalInfo []string          `json:"additional_info,omitempty"`
}

// IndexedDocument is the flattened, embeddable form of a FacilityRecord.
// Text concatenates the record fields in a fixed order so the embedding is
// stable across runs; Metadata carries the fields used for citation.
type IndexedDocument struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// SearchResult pairs an indexed document with its cosine distance to the
// query vector. Smaller distance means more similar.
type SearchResult struct {
	Document IndexedDocument
	Distance float64
}

// RetrievalResult is an ordered sequence of search results, most similar
// first, with equal distances broken by insertion order.
type RetrievalResult []SearchResult

// Answer is the final output of the assistant: generated text plus the
// sources it was grounded on.
type Answer struct {
	Text      string
	Sources   []IndexedDocument
	Distances []float64
}

// Embedder converts free text into a numeric vector representation.
// Implementations must be deterministic for a fixed model identifier.
type Embedder interface {
	// Model returns the identifier of the embedding model, recorded in the
	// index and checked at query time.
	Model() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedMany(ctx context.Context, texts []string) ([][]float64, error)
}

// VectorIndex stores embedded documents and supports k-nearest-neighbor
// queries by cosine distance.
type VectorIndex interface {
	// Init prepares the index for vectors of the given dimension and records
	// the embedding model identifier alongside the stored entries.
	Init(ctx context.Context, dimension int, model string) error
	// Upsert inserts documents, replacing existing entries by ID.
	Upsert(ctx context.Context, docs []IndexedDocument, vectors [][]float64) error
	// Query returns the k entries nearest to the given vector. If k exceeds
	// the number of entries, all entries are returned. An empty index yields
	// an empty result, not an error.
	Query(ctx context.Context, vector []float64, k int) (RetrievalResult, error)
	Count(ctx context.Context) (int, error)
	// Model returns the embedding model identifier recorded at Init time.
	Model(ctx context.Context) (string, error)
	Close() error
}

// Generator produces a natural-language answer from a system prompt and a
// context-augmented user message.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Retriever defines the query-side operations of the retrieval core.
type Retriever interface {
	Retrieve(ctx context.Context, question string, k int) (RetrievalResult, error)
}

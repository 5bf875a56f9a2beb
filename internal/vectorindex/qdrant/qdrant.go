// Package qdrant provides a vector index backed by a Qdrant server via the
// official gRPC client. Point ids are UUIDv5 values derived from record ids,
// so re-upserting a record replaces its point instead of duplicating it.
// The embedding model identifier is stored on a reserved meta point and
// checked when the index is reopened.
package qdrant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"campus-assist/internal/domain"
)

var pointNamespace = uuid.MustParse("8a6e1f8e-3a69-4f0a-9a53-8e77b6a2f0c1")

const metaKey = "meta"

// Index stores embedded documents in a Qdrant collection.
type Index struct {
	client     *qdrant.Client
	collection string
	dimension  int
	model      string
}

// Config contains connection details for the Qdrant server.
type Config struct {
	Host       string
	Port       int
	Collection string
}

// Open connects to the Qdrant server.
func Open(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	client, err := qdrant.NewClient(&qdrant.Config{Host: cfg.Host, Port: cfg.Port})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	return &Index{client: client, collection: cfg.Collection}, nil
}

func (ix *Index) Init(ctx context.Context, dimension int, model string) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	exists, err := ix.client.CollectionExists(ctx, ix.collection)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	if !exists {
		if err := ix.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: ix.collection,
			VectorsConfig: &qdrant.VectorsConfig{
				Config: &qdrant.VectorsConfig_Params{
					Params: &qdrant.VectorParams{
						Size:     uint64(dimension),
						Distance: qdrant.Distance_Cosine,
					},
				},
			},
		}); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
		if err := ix.writeMetaPoint(ctx, dimension, model); err != nil {
			return err
		}
	} else {
		info, err := ix.client.GetCollectionInfo(ctx, ix.collection)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
		}
		if d := storedDimension(info); d != 0 && d != dimension {
			return fmt.Errorf("stored dimension %d does not match %d", d, dimension)
		}
		stored, err := ix.readMetaModel(ctx)
		if err != nil {
			return err
		}
		if stored != "" && stored != model {
			return fmt.Errorf("%w: index has %q, embedder is %q", domain.ErrConfigMismatch, stored, model)
		}
	}
	ix.dimension = dimension
	ix.model = model
	return nil
}

func (ix *Index) Upsert(ctx context.Context, docs []domain.IndexedDocument, vectors [][]float64) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	pts := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		if len(vectors[i]) != ix.dimension {
			return errors.New("vector dimension mismatch")
		}
		meta := make(map[string]any, len(doc.Metadata))
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		pts[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(pointID(doc.ID)),
			Vectors: qdrant.NewVectors(toFloat32(vectors[i])...),
			Payload: qdrant.NewValueMap(map[string]any{
				"record_id": doc.ID,
				"text":      doc.Text,
				"metadata":  meta,
			}),
		}
	}
	if _, err := ix.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: ix.collection,
		Points:         pts,
	}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	return nil
}

func (ix *Index) Query(ctx context.Context, vector []float64, k int) (domain.RetrievalResult, error) {
	if k <= 0 {
		return domain.RetrievalResult{}, nil
	}
	limit := uint64(k)
	resp, err := ix.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: ix.collection,
		Limit:          &limit,
		Filter:         excludeMetaFilter(),
		Query:          qdrant.NewQuery(toFloat32(vector)...),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	results := make(domain.RetrievalResult, 0, len(resp))
	for _, r := range resp {
		doc := domain.IndexedDocument{Metadata: map[string]string{}}
		if v, ok := r.Payload["record_id"]; ok {
			doc.ID = v.GetStringValue()
		}
		if v, ok := r.Payload["text"]; ok {
			doc.Text = v.GetStringValue()
		}
		if v, ok := r.Payload["metadata"]; ok {
			if s := v.GetStructValue(); s != nil {
				for key, val := range s.Fields {
					doc.Metadata[key] = val.GetStringValue()
				}
			}
		}
		// qdrant reports cosine similarity; convert to distance
		results = append(results, domain.SearchResult{Document: doc, Distance: 1 - float64(r.Score)})
	}
	return results, nil
}

func (ix *Index) Count(ctx context.Context) (int, error) {
	n, err := ix.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: ix.collection,
		Filter:         excludeMetaFilter(),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	return int(n), nil
}

func (ix *Index) Model(ctx context.Context) (string, error) {
	stored, err := ix.readMetaModel(ctx)
	if err != nil {
		return "", err
	}
	if stored == "" {
		return ix.model, nil
	}
	return stored, nil
}

func (ix *Index) Close() error { return ix.client.Close() }

// writeMetaPoint stores the embedding model on a reserved point with a zero
// vector, excluded from all queries and counts by payload filter.
func (ix *Index) writeMetaPoint(ctx context.Context, dimension int, model string) error {
	_, err := ix.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: ix.collection,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewIDUUID(metaPointID()),
			Vectors: qdrant.NewVectors(make([]float32, dimension)...),
			Payload: qdrant.NewValueMap(map[string]any{
				metaKey: "true",
				"model": model,
			}),
		}},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	return nil
}

func (ix *Index) readMetaModel(ctx context.Context) (string, error) {
	pts, err := ix.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: ix.collection,
		Ids:            []*qdrant.PointId{qdrant.NewIDUUID(metaPointID())},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	if len(pts) == 0 {
		return "", nil
	}
	if v, ok := pts[0].Payload["model"]; ok {
		return v.GetStringValue(), nil
	}
	return "", nil
}

// storedDimension reads the vector size from the collection config. Zero
// means the collection carries a vector configuration this index never
// writes, in which case no dimension check is possible.
func storedDimension(info *qdrant.CollectionInfo) int {
	return int(info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize())
}

func excludeMetaFilter() *qdrant.Filter {
	return &qdrant.Filter{
		MustNot: []*qdrant.Condition{qdrant.NewMatch(metaKey, "true")},
	}
}

func pointID(recordID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(recordID)).String()
}

func metaPointID() string {
	return uuid.NewSHA1(pointNamespace, []byte("__index_meta__")).String()
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

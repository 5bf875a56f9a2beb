// Package hashing implements a local, dependency-free embedder using the
// hashing trick: tokens are mapped into a fixed number of buckets and the
// resulting term-frequency vector is L2-normalized. It is fully
// deterministic for a given dimension, which makes it suitable for offline
// use and for tests; semantic quality is naturally below a trained
// sentence-embedding model.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const defaultDimension = 256

// Embedder is a feature-hashing bag-of-words vectorizer.
type Embedder struct {
	dimension    int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewEmbedder creates a hashing embedder with the default dimension.
func NewEmbedder() *Embedder {
	return NewEmbedderWithDimension(defaultDimension)
}

// NewEmbedderWithDimension creates a hashing embedder with a custom
// dimension. Vectors from embedders with different dimensions are not
// comparable; the dimension is part of the model identifier.
func NewEmbedderWithDimension(dim int) *Embedder {
	if dim <= 0 {
		dim = defaultDimension
	}
	return &Embedder{
		dimension:    dim,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+\p{L}*`),
		stopwords:    defaultStopwords(),
	}
}

// Model returns the identifier of this embedder configuration.
func (e *Embedder) Model() string { return "hashing-v1-d" + strconv.Itoa(e.dimension) }

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed computes the hashed term-frequency embedding for the given text.
// Text with no recognizable tokens yields the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, e.dimension)
	for _, tok := range e.tokenize(text) {
		vec[e.bucket(tok)]++
	}
	// L2 normalize
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// EmbedMany embeds each text in order.
func (e *Embedder) EmbedMany(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *Embedder) bucket(token string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return int(h.Sum32() % uint32(e.dimension))
}

func (e *Embedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

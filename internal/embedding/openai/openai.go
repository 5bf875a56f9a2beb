// Package openai implements the Embedder interface against an
// OpenAI-compatible embeddings endpoint (OpenAI itself, or a local server
// such as Ollama or LM Studio exposing the same API).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client is an OpenAI-compatible embeddings client.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	batchSize int
	dimension int
	client    *http.Client
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
	BatchSize int
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 32
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    key,
		model:     cfg.Model,
		batchSize: batch,
		client:    &http.Client{Timeout: t},
	}, nil
}

// Model returns the identifier of the remote embedding model.
func (c *Client) Model() string { return "openai/" + c.model }

// Dimension returns the dimensionality of the produced vectors. It is zero
// until the first successful embed call against the remote model.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := c.post(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedMany embeds the texts in request batches, preserving input order.
func (c *Client) EmbedMany(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := c.post(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, input []string) ([][]float64, error) {
	body, _ := json.Marshal(map[string]any{
		"input": input,
		"model": c.model,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embeddings request failed: %s: %s", resp.Status, string(payload))
	}

	var out struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}
	if len(out.Data) != len(input) {
		return nil, errors.New("embeddings response count does not match input count")
	}
	vecs := make([][]float64, len(input))
	for _, d := range out.Data {
		if d.Index < 0 || d.Index >= len(vecs) || len(d.Embedding) == 0 {
			return nil, errors.New("malformed embeddings response")
		}
		vecs[d.Index] = d.Embedding
	}
	if c.dimension == 0 {
		c.dimension = len(vecs[0])
	}
	return vecs, nil
}

// Package embedder provides rag.Embedder implementations.
package embedder

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultBatchSize caps how many texts go into one embeddings request.
const DefaultBatchSize = 100

// OpenAIEmbedder embeds text through the OpenAI embeddings API,
// batching large inputs.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	batchSize int

	apiKey  string
	baseURL string
}

// OpenAIOption configures the OpenAIEmbedder.
type OpenAIOption func(*OpenAIEmbedder)

// WithModel sets the embedding model. Default is text-embedding-3-small.
func WithModel(model openai.EmbeddingModel) OpenAIOption {
	return func(e *OpenAIEmbedder) {
		e.model = model
	}
}

// WithBatchSize sets how many texts are embedded per API request.
func WithBatchSize(n int) OpenAIOption {
	return func(e *OpenAIEmbedder) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) OpenAIOption {
	return func(e *OpenAIEmbedder) {
		e.baseURL = url
	}
}

// NewOpenAIEmbedder creates an embedder around the OpenAI API.
func NewOpenAIEmbedder(apiKey string, opts ...OpenAIOption) *OpenAIEmbedder {
	e := &OpenAIEmbedder{
		model:     openai.SmallEmbedding3,
		batchSize: DefaultBatchSize,
		apiKey:    apiKey,
	}
	for _, opt := range opts {
		opt(e)
	}

	config := openai.DefaultConfig(e.apiKey)
	if e.baseURL != "" {
		config.BaseURL = e.baseURL
	}
	e.client = openai.NewClientWithConfig(config)
	return e
}

// EmbedDocuments embeds a batch of texts, splitting oversized inputs
// into multiple API requests. Vectors come back in input order.
func (e *OpenAIEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	all := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))
		batch := texts[start:end]

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: e.model,
		})
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d failed: %w", start/e.batchSize+1, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("embedding batch returned %d vectors for %d inputs", len(resp.Data), len(batch))
		}
		for _, item := range resp.Data {
			all = append(all, item.Embedding)
		}
	}
	return all, nil
}

// EmbedQuery embeds a single query string.
func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Package retriever provides rag.Retriever implementations.
package retriever

import (
	"context"
	"fmt"

	"github.com/polyglotkit/polyglot/rag"
)

// Defaults follow the retrieval surface of the document tools: a small
// top-k with no score floor.
const (
	DefaultTopK = 3
)

// VectorRetriever retrieves documents by embedding the query and
// running a similarity search against a vector store.
type VectorRetriever struct {
	store          rag.VectorStore
	embedder       rag.Embedder
	topK           int
	scoreThreshold float64
}

// Option configures the VectorRetriever.
type Option func(*VectorRetriever)

// WithTopK sets how many documents a query returns.
func WithTopK(k int) Option {
	return func(r *VectorRetriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithScoreThreshold drops results scoring below the threshold.
func WithScoreThreshold(threshold float64) Option {
	return func(r *VectorRetriever) {
		r.scoreThreshold = threshold
	}
}

// NewVectorRetriever creates a retriever over a store and an embedder.
func NewVectorRetriever(store rag.VectorStore, embedder rag.Embedder, opts ...Option) *VectorRetriever {
	r := &VectorRetriever{
		store:    store,
		embedder: embedder,
		topK:     DefaultTopK,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve implements rag.Retriever.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]rag.DocumentSearchResult, error) {
	queryEmbedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := r.store.Search(ctx, queryEmbedding, r.topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	if r.scoreThreshold > 0 {
		filtered := results[:0]
		for _, result := range results {
			if result.Score >= r.scoreThreshold {
				filtered = append(filtered, result)
			}
		}
		results = filtered
	}
	return results, nil
}

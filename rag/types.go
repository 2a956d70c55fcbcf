package rag

import (
	"context"
	"math"
)

// Document is one unit of retrievable knowledge.
type Document struct {
	ID        string
	Content   string
	Metadata  map[string]any
	Embedding []float32
}

// DocumentSearchResult pairs a document with its similarity score.
type DocumentSearchResult struct {
	Document Document
	Score    float64
}

// Embedder generates embedding vectors for text.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore stores embedded documents and answers similarity queries.
type VectorStore interface {
	Add(ctx context.Context, documents []Document) error
	Search(ctx context.Context, queryEmbedding []float32, k int) ([]DocumentSearchResult, error)
	Count(ctx context.Context) (int, error)
}

// Retriever retrieves relevant documents for a natural-language query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]DocumentSearchResult, error)
}

// DocumentLoader loads documents from a source.
type DocumentLoader interface {
	Load(ctx context.Context) ([]Document, error)
}

// TextSplitter splits documents into smaller chunks. Splitting may call
// an embedder, hence the context and error.
type TextSplitter interface {
	SplitDocuments(ctx context.Context, documents []Document) ([]Document, error)
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Mismatched or zero-length vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

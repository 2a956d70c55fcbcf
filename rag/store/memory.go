// Package store provides rag.VectorStore implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/polyglotkit/polyglot/rag"
)

// MemoryStore is an exact in-memory vector store. Search scans every
// document, which is fine at the corpus sizes this system ingests.
type MemoryStore struct {
	mu        sync.RWMutex
	embedder  rag.Embedder
	documents []rag.Document
}

// NewMemoryStore creates an in-memory store. The embedder is used for
// documents added without an embedding; it may be nil if every document
// arrives pre-embedded.
func NewMemoryStore(embedder rag.Embedder) *MemoryStore {
	return &MemoryStore{embedder: embedder}
}

// Add implements rag.VectorStore. Documents without an ID get one, and
// documents without an embedding are embedded in a single batch.
func (s *MemoryStore) Add(ctx context.Context, documents []rag.Document) error {
	docs := append([]rag.Document(nil), documents...)

	var missing []int
	var texts []string
	for i := range docs {
		if docs[i].ID == "" {
			docs[i].ID = uuid.NewString()
		}
		if len(docs[i].Embedding) == 0 {
			missing = append(missing, i)
			texts = append(texts, docs[i].Content)
		}
	}

	if len(missing) > 0 {
		if s.embedder == nil {
			return fmt.Errorf("no embedder configured and %d documents have no embedding", len(missing))
		}
		embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed documents: %w", err)
		}
		for i, idx := range missing {
			docs[idx].Embedding = embeddings[i]
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, docs...)
	return nil
}

// Search implements rag.VectorStore.
func (s *MemoryStore) Search(ctx context.Context, queryEmbedding []float32, k int) ([]rag.DocumentSearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]rag.DocumentSearchResult, len(s.documents))
	for i, doc := range s.documents {
		results[i] = rag.DocumentSearchResult{
			Document: doc,
			Score:    rag.CosineSimilarity(queryEmbedding, doc.Embedding),
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Count implements rag.VectorStore.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/polyglotkit/polyglot/rag"
)

// RedisStore persists embedded documents in Redis. Documents live as
// JSON values under a key prefix with an index set per collection;
// ranking happens client-side, the same way the in-memory store ranks.
type RedisStore struct {
	client   *redis.Client
	embedder rag.Embedder
	prefix   string
	ttl      time.Duration
}

// RedisOptions configures the Redis connection and key layout.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // key prefix, default "polyglot:rag:"
	TTL      time.Duration // document expiration, default 0 (keep forever)
}

// NewRedisStore creates a Redis-backed vector store. The embedder may
// be nil if every document arrives pre-embedded.
func NewRedisStore(opts RedisOptions, embedder rag.Embedder) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "polyglot:rag:"
	}

	return &RedisStore{
		client:   client,
		embedder: embedder,
		prefix:   prefix,
		ttl:      opts.TTL,
	}
}

func (s *RedisStore) docKey(id string) string {
	return fmt.Sprintf("%sdoc:%s", s.prefix, id)
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "docs"
}

// Add implements rag.VectorStore. Each document is stored as JSON and
// registered in the index set in one pipeline.
func (s *RedisStore) Add(ctx context.Context, documents []rag.Document) error {
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

	pipe := s.client.Pipeline()
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal document %s: %w", doc.ID, err)
		}
		pipe.Set(ctx, s.docKey(doc.ID), data, s.ttl)
		pipe.SAdd(ctx, s.indexKey(), doc.ID)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.indexKey(), s.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save documents to redis: %w", err)
	}
	return nil
}

// Search implements rag.VectorStore. All documents are fetched and
// ranked client-side; expired entries are skipped.
func (s *RedisStore) Search(ctx context.Context, queryEmbedding []float32, k int) ([]rag.DocumentSearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	var results []rag.DocumentSearchResult
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var doc rag.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		results = append(results, rag.DocumentSearchResult{
			Document: doc,
			Score:    rag.CosineSimilarity(queryEmbedding, doc.Embedding),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Count implements rag.VectorStore.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, s.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return int(n), nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyglotkit/polyglot/rag"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s := NewRedisStore(RedisOptions{Addr: mr.Addr()}, nil)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, sampleDocuments()))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	results, err := s.Search(ctx, []float32{0, 1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[0].Document.ID)
	assert.Equal(t, "esg report", results[0].Document.Content)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestRedisStoreMetadataSurvives(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	docs := []rag.Document{{
		ID:        "a",
		Content:   "cement production",
		Metadata:  map[string]any{"source": "report.txt"},
		Embedding: []float32{1, 0},
	}}
	require.NoError(t, s.Add(ctx, docs))

	results, err := s.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "report.txt", results[0].Document.Metadata["source"])
}

func TestRedisStoreEmpty(t *testing.T) {
	s := newTestRedisStore(t)

	results, err := s.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

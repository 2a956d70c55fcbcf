package splitter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyglotkit/polyglot/rag"
)

var _ rag.TextSplitter = (*SemanticSplitter)(nil)

// topicEmbedder maps every sentence onto one of two orthogonal vectors,
// so similarity is 1 within a topic and 0 across topics.
type topicEmbedder struct{}

func (topicEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if strings.Contains(t, "weather") {
			out[i] = []float32{0, 1}
		} else {
			out[i] = []float32{1, 0}
		}
	}
	return out, nil
}

func (e topicEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func TestSemanticSplitterBreaksOnTopicChange(t *testing.T) {
	s := NewSemanticSplitter(topicEmbedder{},
		WithMinSentences(1), WithOverlapSentences(0))

	text := "Cement is strong. Cement lasts long. The weather is rainy. The weather changes fast."
	chunks, err := s.SplitText(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, "Cement is strong. Cement lasts long.", chunks[0])
	assert.Equal(t, "The weather is rainy. The weather changes fast.", chunks[1])
}

func TestSemanticSplitterMergesSmallChunks(t *testing.T) {
	s := NewSemanticSplitter(topicEmbedder{},
		WithMinSentences(3), WithOverlapSentences(0))

	// The semantic break would leave two 2-sentence chunks, both below
	// the minimum, so they are merged back together.
	text := "Cement is strong. Cement lasts long. The weather is rainy. The weather changes fast."
	chunks, err := s.SplitText(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "Cement is strong.")
	assert.Contains(t, chunks[0], "The weather changes fast.")
}

func TestSemanticSplitterOverlap(t *testing.T) {
	s := NewSemanticSplitter(topicEmbedder{},
		WithMinSentences(1), WithOverlapSentences(2))

	text := "Cement one. Cement two. Cement three. The weather one. The weather two. The weather three."
	chunks, err := s.SplitText(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[1], "Cement two. Cement three."),
		"second chunk starts with the tail of the first, got %q", chunks[1])
}

func TestSemanticSplitterMaxSentences(t *testing.T) {
	s := NewSemanticSplitter(topicEmbedder{},
		WithMinSentences(1), WithMaxSentences(2), WithOverlapSentences(0))

	text := "Cement one. Cement two. Cement three. Cement four."
	chunks, err := s.SplitText(context.Background(), text)
	require.NoError(t, err)
	assert.Len(t, chunks, 2, "no semantic break, but the max length forces a cut")
}

func TestSemanticSplitterSections(t *testing.T) {
	s := NewSemanticSplitter(topicEmbedder{}, WithOverlapSentences(0))

	text := "Single sentence section." + DefaultSectionSeparator + "Another lone section."
	chunks, err := s.SplitText(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, []string{"Single sentence section.", "Another lone section."}, chunks)
}

func TestSemanticSplitterDocumentsMetadata(t *testing.T) {
	s := NewSemanticSplitter(topicEmbedder{},
		WithMinSentences(1), WithOverlapSentences(0))

	docs := []rag.Document{{
		ID:       "report",
		Content:  "Cement is strong. Cement lasts long. The weather is rainy. The weather changes fast.",
		Metadata: map[string]any{"source": "report.txt"},
	}}
	out, err := s.SplitDocuments(context.Background(), docs)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "report-0", out[0].ID)
	assert.Equal(t, "report-1", out[1].ID)
	for i, doc := range out {
		assert.Equal(t, "report.txt", doc.Metadata["source"])
		assert.Equal(t, i, doc.Metadata["chunk_index"])
		assert.Equal(t, 2, doc.Metadata["total_chunks"])
	}
}

func TestSplitSentences(t *testing.T) {
	t.Run("latin terminators", func(t *testing.T) {
		got := splitSentences("One. Two! Three?")
		assert.Equal(t, []string{"One.", "Two!", "Three?"}, got)
	})

	t.Run("cjk terminators", func(t *testing.T) {
		got := splitSentences("台泥成立於1946年。主要生產水泥！品質如何？")
		assert.Equal(t, []string{"台泥成立於1946年。", "主要生產水泥！", "品質如何？"}, got)
	})

	t.Run("decimal points survive", func(t *testing.T) {
		got := splitSentences("Growth was 3.5 percent. Next year looks similar.")
		assert.Equal(t, []string{"Growth was 3.5 percent.", "Next year looks similar."}, got)
	})

	t.Run("closing quotes stay attached", func(t *testing.T) {
		got := splitSentences("他說「很好。」然後離開。")
		assert.Equal(t, []string{"他說「很好。」", "然後離開。"}, got)
	})
}

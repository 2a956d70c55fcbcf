// Package splitter provides text splitting strategies for ingestion.
package splitter

import (
	"context"
	"fmt"
	"maps"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/polyglotkit/polyglot/rag"
)

// Defaults tuned for mixed Chinese/English corporate documents.
const (
	DefaultSimilarityThreshold = 0.7
	DefaultMinChunkSentences   = 3
	DefaultMaxChunkSentences   = 15
	DefaultOverlapSentences    = 2
	DefaultSectionSeparator    = "________________"
)

// SemanticSplitter chunks text at semantic boundaries. Sentences are
// embedded and a chunk break is placed wherever the similarity between
// adjacent sentences falls below the threshold, subject to minimum and
// maximum chunk sizes. Neighboring chunks share overlapping sentences
// so context is not lost at the boundary.
type SemanticSplitter struct {
	embedder     rag.Embedder
	threshold    float64
	minSentences int
	maxSentences int
	overlap      int
	separator    string
}

// Option configures the SemanticSplitter.
type Option func(*SemanticSplitter)

// WithSimilarityThreshold sets the break threshold for adjacent
// sentence similarity.
func WithSimilarityThreshold(threshold float64) Option {
	return func(s *SemanticSplitter) {
		s.threshold = threshold
	}
}

// WithMinSentences sets the minimum sentences per chunk; smaller chunks
// are merged into a neighbor when possible.
func WithMinSentences(n int) Option {
	return func(s *SemanticSplitter) {
		s.minSentences = n
	}
}

// WithMaxSentences caps the sentences per chunk.
func WithMaxSentences(n int) Option {
	return func(s *SemanticSplitter) {
		s.maxSentences = n
	}
}

// WithOverlapSentences sets how many trailing sentences of a chunk are
// repeated at the start of the next one.
func WithOverlapSentences(n int) Option {
	return func(s *SemanticSplitter) {
		s.overlap = n
	}
}

// WithSectionSeparator sets the marker that hard-splits the input into
// sections before any semantic analysis.
func WithSectionSeparator(sep string) Option {
	return func(s *SemanticSplitter) {
		s.separator = sep
	}
}

// NewSemanticSplitter creates a splitter around an embedder.
func NewSemanticSplitter(embedder rag.Embedder, opts ...Option) *SemanticSplitter {
	s := &SemanticSplitter{
		embedder:     embedder,
		threshold:    DefaultSimilarityThreshold,
		minSentences: DefaultMinChunkSentences,
		maxSentences: DefaultMaxChunkSentences,
		overlap:      DefaultOverlapSentences,
		separator:    DefaultSectionSeparator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SplitDocuments implements rag.TextSplitter. Each document is chunked
// independently; chunk metadata carries the source document's metadata
// plus chunk_index and total_chunks.
func (s *SemanticSplitter) SplitDocuments(ctx context.Context, documents []rag.Document) ([]rag.Document, error) {
	var out []rag.Document
	for _, doc := range documents {
		chunks, err := s.SplitText(ctx, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to split document %s: %w", doc.ID, err)
		}
		for i, chunk := range chunks {
			meta := make(map[string]any, len(doc.Metadata)+2)
			maps.Copy(meta, doc.Metadata)
			meta["chunk_index"] = i
			meta["total_chunks"] = len(chunks)

			id := uuid.NewString()
			if doc.ID != "" {
				id = fmt.Sprintf("%s-%d", doc.ID, i)
			}
			out = append(out, rag.Document{ID: id, Content: chunk, Metadata: meta})
		}
	}
	return out, nil
}

// SplitText chunks one text. Sections shorter than two sentences are
// kept whole; everything else goes through the semantic pipeline.
func (s *SemanticSplitter) SplitText(ctx context.Context, text string) ([]string, error) {
	var chunks []string
	for _, section := range strings.Split(text, s.separator) {
		cleaned := s.cleanSection(section)
		if cleaned == "" {
			continue
		}

		sentences := splitSentences(cleaned)
		if len(sentences) < 2 {
			chunks = append(chunks, cleaned)
			continue
		}

		embeddings, err := s.embedder.EmbedDocuments(ctx, sentences)
		if err != nil {
			return nil, fmt.Errorf("failed to embed sentences: %w", err)
		}

		breakpoints := findBreakpoints(adjacentSimilarities(embeddings), s.threshold)
		grouped := groupSentences(sentences, breakpoints, s.minSentences, s.maxSentences)
		for _, group := range addOverlap(grouped, s.overlap) {
			chunks = append(chunks, strings.TrimSpace(strings.Join(group, " ")))
		}
	}
	return chunks, nil
}

var (
	blankLinePattern  = regexp.MustCompile(`\n\s*\n`)
	listMarkerPattern = regexp.MustCompile(`(?m)^\s*[\*•-]\s+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// cleanSection normalizes one section: blank lines collapsed, list
// markers stripped, runs of whitespace reduced to single spaces.
func (s *SemanticSplitter) cleanSection(text string) string {
	text = blankLinePattern.ReplaceAllString(text, "\n")
	text = listMarkerPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, s.separator, "")
	return strings.TrimSpace(text)
}

var sentenceEnders = map[rune]bool{
	'。': true, '！': true, '？': true, '…': true, '；': true,
	'.': true, '!': true, '?': true, ';': true,
}

var sentenceClosers = map[rune]bool{
	'”': true, '」': true, '』': true, '）': true, '"': true, '\'': true, ')': true,
}

// splitSentences segments text on CJK and Latin sentence terminators,
// keeping closing quotes and brackets attached and leaving decimal
// points alone.
func splitSentences(text string) []string {
	var sentences []string
	var sb strings.Builder
	flush := func() {
		if s := strings.TrimSpace(sb.String()); s != "" {
			sentences = append(sentences, s)
		}
		sb.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		sb.WriteRune(r)
		if sentenceClosers[r] && i > 0 && sentenceEnders[runes[i-1]] {
			flush()
			continue
		}
		if !sentenceEnders[r] {
			continue
		}
		if r == '.' && i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			continue
		}
		if i+1 < len(runes) && (sentenceEnders[runes[i+1]] || sentenceClosers[runes[i+1]]) {
			continue
		}
		flush()
	}
	flush()
	return sentences
}

func adjacentSimilarities(embeddings [][]float32) []float64 {
	if len(embeddings) < 2 {
		return nil
	}
	sims := make([]float64, len(embeddings)-1)
	for i := 0; i < len(embeddings)-1; i++ {
		sims[i] = rag.CosineSimilarity(embeddings[i], embeddings[i+1])
	}
	return sims
}

// findBreakpoints returns the indices after which a semantic break
// occurs: similarity below threshold means the break falls after
// sentence i.
func findBreakpoints(similarities []float64, threshold float64) map[int]bool {
	breaks := make(map[int]bool)
	for i, sim := range similarities {
		if sim < threshold {
			breaks[i] = true
		}
	}
	return breaks
}

// groupSentences cuts the sentence list at semantic breaks and at the
// max length, then merges undersized chunks into a neighbor as long as
// the result stays within the max.
func groupSentences(sentences []string, breakpoints map[int]bool, minSentences, maxSentences int) [][]string {
	if len(sentences) == 0 {
		return nil
	}

	var initial [][]string
	start := 0
	for i := range sentences {
		length := i + 1 - start
		if i == len(sentences)-1 || length >= maxSentences || breakpoints[i] {
			initial = append(initial, sentences[start:i+1])
			start = i + 1
		}
	}

	var merged [][]string
	var current []string
	for _, chunk := range initial {
		if len(chunk) == 0 {
			continue
		}
		potential := len(current) + len(chunk)
		switch {
		case len(current) == 0:
			current = append([]string(nil), chunk...)
		case len(chunk) < minSentences && potential <= maxSentences:
			current = append(current, chunk...)
		case len(current) < minSentences && potential <= maxSentences:
			current = append(current, chunk...)
		default:
			merged = append(merged, current)
			current = append([]string(nil), chunk...)
		}
	}
	if len(current) > 0 {
		merged = append(merged, current)
	}
	return merged
}

// addOverlap prepends the last overlap sentences of each chunk to the
// next one, skipping sentences the next chunk already contains.
func addOverlap(chunks [][]string, overlap int) [][]string {
	if overlap <= 0 || len(chunks) < 2 {
		return chunks
	}

	out := [][]string{chunks[0]}
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev
		if len(prev) > overlap {
			tail = prev[len(prev)-overlap:]
		}

		seen := make(map[string]bool, len(tail))
		combined := append([]string(nil), tail...)
		for _, sent := range tail {
			seen[sent] = true
		}
		for _, sent := range chunks[i] {
			if !seen[sent] {
				combined = append(combined, sent)
			}
		}
		out = append(out, combined)
	}
	return out
}

package loader

import (
	"context"
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/polyglotkit/polyglot/rag"
)

// HTMLLoader extracts the readable text of an HTML document, dropping
// script, style and navigation chrome.
type HTMLLoader struct {
	reader   io.Reader
	source   string
	metadata map[string]any
}

// NewHTMLLoader creates a loader over an HTML stream. The source string
// is recorded in the document metadata.
func NewHTMLLoader(r io.Reader, source string) *HTMLLoader {
	return &HTMLLoader{
		reader: r,
		source: source,
		metadata: map[string]any{
			"source": source,
			"type":   "html",
		},
	}
}

var strippedSelectors = []string{"script", "style", "noscript", "nav", "header", "footer"}

// Load implements rag.DocumentLoader.
func (l *HTMLLoader) Load(ctx context.Context) ([]rag.Document, error) {
	doc, err := goquery.NewDocumentFromReader(l.reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html from %s: %w", l.source, err)
	}

	for _, sel := range strippedSelectors {
		doc.Find(sel).Remove()
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	var blocks []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	content := strings.Join(blocks, "\n")
	if content == "" {
		content = strings.TrimSpace(doc.Find("body").Text())
	}

	metadata := make(map[string]any, len(l.metadata)+1)
	maps.Copy(metadata, l.metadata)
	if title != "" {
		metadata["title"] = title
	}

	return []rag.Document{{
		ID:       l.source,
		Content:  content,
		Metadata: metadata,
	}}, nil
}

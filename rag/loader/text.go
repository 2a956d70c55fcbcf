// Package loader provides rag.DocumentLoader implementations.
package loader

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/polyglotkit/polyglot/rag"
)

// TextLoader loads one document from a plain-text file.
type TextLoader struct {
	filePath string
	metadata map[string]any
}

// TextLoaderOption configures the TextLoader.
type TextLoaderOption func(*TextLoader)

// WithMetadata sets additional metadata for loaded documents.
func WithMetadata(metadata map[string]any) TextLoaderOption {
	return func(l *TextLoader) {
		maps.Copy(l.metadata, metadata)
	}
}

// NewTextLoader creates a loader for a text file.
func NewTextLoader(filePath string, opts ...TextLoaderOption) *TextLoader {
	l := &TextLoader{
		filePath: filePath,
		metadata: map[string]any{
			"source": filePath,
			"type":   "text",
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements rag.DocumentLoader.
func (l *TextLoader) Load(ctx context.Context) ([]rag.Document, error) {
	content, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.filePath, err)
	}

	metadata := make(map[string]any, len(l.metadata))
	maps.Copy(metadata, l.metadata)

	return []rag.Document{{
		ID:       filepath.Base(l.filePath),
		Content:  string(content),
		Metadata: metadata,
	}}, nil
}

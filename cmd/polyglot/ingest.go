package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/polyglotkit/polyglot/rag"
	"github.com/polyglotkit/polyglot/rag/embedder"
	"github.com/polyglotkit/polyglot/rag/loader"
	"github.com/polyglotkit/polyglot/rag/splitter"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Chunk documents and add them to the vector store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
		if os.Getenv("REDIS_ADDR") == "" {
			return fmt.Errorf("REDIS_ADDR not set; ingested chunks need a persistent store")
		}

		emb := embedder.NewOpenAIEmbedder(os.Getenv("OPENAI_API_KEY"))
		vs := buildVectorStore(emb)
		split := splitter.NewSemanticSplitter(emb)

		ctx := cmd.Context()
		total := 0
		for _, path := range args {
			docs, err := loadFile(ctx, path)
			if err != nil {
				return err
			}

			chunks, err := split.SplitDocuments(ctx, docs)
			if err != nil {
				return fmt.Errorf("failed to split %s: %w", path, err)
			}
			if err := vs.Add(ctx, chunks); err != nil {
				return fmt.Errorf("failed to store chunks of %s: %w", path, err)
			}

			fmt.Printf("%s: %d chunks\n", path, len(chunks))
			total += len(chunks)
		}

		count, err := vs.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Ingested %d chunks; store now holds %d documents.\n", total, count)
		return nil
	},
}

// loadFile picks a loader from the file extension.
func loadFile(ctx context.Context, path string) ([]rag.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return loader.NewHTMLLoader(f, path).Load(ctx)
	default:
		return loader.NewTextLoader(path).Load(ctx)
	}
}

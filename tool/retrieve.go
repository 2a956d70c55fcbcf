package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/polyglotkit/polyglot/rag"
)

// Retrieve is a tool that searches the document knowledge base and
// returns the most relevant fragments for a query.
type Retrieve struct {
	retriever rag.Retriever
	notFound  string
}

type RetrieveOption func(*Retrieve)

// WithNotFoundMessage overrides the message returned when nothing
// relevant is found.
func WithNotFoundMessage(msg string) RetrieveOption {
	return func(r *Retrieve) {
		r.notFound = msg
	}
}

// NewRetrieve creates the tool around a retriever.
func NewRetrieve(retriever rag.Retriever, opts ...RetrieveOption) *Retrieve {
	r := &Retrieve{
		retriever: retriever,
		notFound:  "Sorry, no relevant document fragments were found.",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the name of the tool.
func (r *Retrieve) Name() string {
	return "query_knowledge_base"
}

// Description returns the description of the tool.
func (r *Retrieve) Description() string {
	return "Search the internal document knowledge base for information relevant to the user's question. " +
		"Use this for questions that cannot be answered from general knowledge or the other tools. " +
		"Input should be the user's question or a focused search phrase."
}

// Call retrieves fragments and formats them for the model.
func (r *Retrieve) Call(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return "", fmt.Errorf("query is empty")
	}

	results, err := r.retriever.Retrieve(ctx, query)
	if err != nil {
		return "", fmt.Errorf("knowledge base search failed: %w", err)
	}
	if len(results) == 0 {
		return r.notFound, nil
	}

	var sb strings.Builder
	sb.WriteString("Based on the knowledge base, the following relevant information was found:\n\n")
	for i, res := range results {
		sb.WriteString(fmt.Sprintf("--- Relevant fragment %d (ID: %s, Score: %.4f) ---\n", i+1, res.Document.ID, res.Score))
		sb.WriteString(res.Document.Content)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

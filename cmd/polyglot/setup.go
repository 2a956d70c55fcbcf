package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/tools"

	"github.com/polyglotkit/polyglot/assistant"
	"github.com/polyglotkit/polyglot/pptx"
	"github.com/polyglotkit/polyglot/rag"
	"github.com/polyglotkit/polyglot/rag/embedder"
	"github.com/polyglotkit/polyglot/rag/retriever"
	"github.com/polyglotkit/polyglot/rag/store"
	"github.com/polyglotkit/polyglot/tool"
	"github.com/polyglotkit/polyglot/translate"
)

// buildModel creates the chat model from OPENAI_* environment variables.
func buildModel() (llms.Model, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	var opts []openai.Option
	if base := os.Getenv("OPENAI_API_BASE"); base != "" {
		opts = append(opts, openai.WithBaseURL(base))
	}
	if modelName := os.Getenv("OPENAI_MODEL"); modelName != "" {
		opts = append(opts, openai.WithModel(modelName))
	}
	return openai.New(opts...)
}

// buildTranslateJob wires the LLM translator into a presentation job.
func buildTranslateJob(model llms.Model) *pptx.Job {
	return pptx.NewJob(translate.NewLLMTranslator(translate.DefaultConfig(model)))
}

// buildVectorStore picks the redis store when REDIS_ADDR is set and
// falls back to the in-memory store otherwise.
func buildVectorStore(emb rag.Embedder) rag.VectorStore {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return store.NewRedisStore(store.RedisOptions{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		}, emb)
	}
	return store.NewMemoryStore(emb)
}

// buildTools assembles the tool set from the environment. Tools whose
// backing service is not configured are left out.
func buildTools(ctx context.Context, model llms.Model) ([]tools.Tool, error) {
	toolSet := []tools.Tool{
		tool.NewTranslatePPT(buildTranslateJob(model)),
	}

	if os.Getenv("OPENWEATHER_API_KEY") != "" {
		weather, err := tool.NewWeather("")
		if err != nil {
			return nil, fmt.Errorf("weather tool: %w", err)
		}
		toolSet = append(toolSet, weather)
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		sqlTool, err := tool.NewSQLQuery(ctx, dbURL)
		if err != nil {
			return nil, fmt.Errorf("sql tool: %w", err)
		}
		toolSet = append(toolSet, sqlTool)
	}

	if os.Getenv("REDIS_ADDR") != "" {
		emb := embedder.NewOpenAIEmbedder(os.Getenv("OPENAI_API_KEY"))
		vs := buildVectorStore(emb)
		toolSet = append(toolSet, tool.NewRetrieve(retriever.NewVectorRetriever(vs, emb)))
	}

	return toolSet, nil
}

// buildAssistant creates the assistant with every configured tool.
func buildAssistant(ctx context.Context) (*assistant.Assistant, *pptx.Job, error) {
	model, err := buildModel()
	if err != nil {
		return nil, nil, err
	}

	toolSet, err := buildTools(ctx, model)
	if err != nil {
		return nil, nil, err
	}

	a, err := assistant.New(assistant.Config{Model: model, Tools: toolSet})
	if err != nil {
		return nil, nil, err
	}
	return a, buildTranslateJob(model), nil
}

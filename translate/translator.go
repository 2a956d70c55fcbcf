// Package translate provides text translators backed by chat models.
package translate

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/tmc/langchaingo/llms"

	"github.com/polyglotkit/polyglot/log"
)

// Translator translates a piece of text between two languages. On
// failure it returns the original text alongside the error so callers
// can degrade gracefully.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

const systemPromptTemplate = `You are a professional translator. Translate the user's text from %s to %s.

Rules:
1. Return only the translated text, with no explanations, quotes, or extra formatting.
2. Preserve leading and trailing whitespace exactly as in the input.
3. Do not translate numbers, URLs, email addresses, or code identifiers.
4. Keep the tone and register of the original text.`

// Config configures an LLMTranslator.
type Config struct {
	Model       llms.Model
	Temperature float64
	MaxTokens   int
	Logger      log.Logger
}

// DefaultConfig returns a configuration tuned for faithful translation:
// zero temperature, generous token budget.
func DefaultConfig(model llms.Model) *Config {
	return &Config{
		Model:       model,
		Temperature: 0.0,
		MaxTokens:   2000,
	}
}

// LLMTranslator translates text through a chat model. It never invents
// output: whitespace-only input is returned as-is without a model call,
// and every failure path hands back the original text.
type LLMTranslator struct {
	config *Config
}

// NewLLMTranslator creates a translator around a chat model.
func NewLLMTranslator(config *Config) *LLMTranslator {
	if config.Logger == nil {
		config.Logger = log.GetDefaultLogger()
	}
	return &LLMTranslator{config: config}
}

// Translate implements Translator.
func (t *LLMTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(systemPromptTemplate, sourceLang, targetLang)),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}

	opts := []llms.CallOption{llms.WithTemperature(t.config.Temperature)}
	if t.config.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(t.config.MaxTokens))
	}

	resp, err := t.config.Model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return text, fmt.Errorf("translation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return text, fmt.Errorf("translation returned no choices")
	}
	out := resp.Choices[0].Content
	if strings.TrimSpace(out) == "" {
		return text, fmt.Errorf("translation returned empty text")
	}

	t.config.Logger.Debug("translated %d chars %s -> %s", len(text), sourceLang, targetLang)
	return restoreEdges(text, out), nil
}

// restoreEdges reapplies the original leading and trailing whitespace.
// Models routinely trim their output, but in a presentation the spaces
// around a run are content: dropping them glues words together.
func restoreEdges(original, translated string) string {
	lead := original[:len(original)-len(strings.TrimLeftFunc(original, unicode.IsSpace))]
	tail := original[len(strings.TrimRightFunc(original, unicode.IsSpace)):]
	return lead + strings.TrimSpace(translated) + tail
}

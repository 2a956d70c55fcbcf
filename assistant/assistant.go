package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"

	"github.com/polyglotkit/polyglot/log"
)

// DefaultMaxIterations bounds how many model round trips one turn may take.
const DefaultMaxIterations = 10

// DefaultSystemPrompt instructs the model on tool use and language.
const DefaultSystemPrompt = `You are a helpful AI assistant with access to professional tools for
weather lookups, database queries, document retrieval and PowerPoint translation.

Principles:
1. Carefully analyze the user's question and pick the most appropriate tool.
2. For questions requiring live or stored data, use a tool; do not guess.
3. For requests that mention translating a presentation, call the translation tool
   instead of replying with text only.
4. Always answer in the language used by the user.`

// maxIterationsMessage is returned when the loop guard trips.
const maxIterationsMessage = "Maximum iterations reached. Please try a simpler query."

// Config configures an Assistant.
type Config struct {
	// Model is the chat model driving the loop.
	Model llms.Model
	// Tools the model may call.
	Tools []tools.Tool
	// SystemPrompt overrides DefaultSystemPrompt.
	SystemPrompt string
	// MaxIterations overrides DefaultMaxIterations.
	MaxIterations int
	// Logger defaults to the package default logger.
	Logger log.Logger
}

// Assistant runs the function-calling loop.
type Assistant struct {
	model         llms.Model
	tools         []tools.Tool
	byName        map[string]tools.Tool
	toolDefs      []llms.Tool
	systemPrompt  string
	maxIterations int
	logger        log.Logger
}

// New creates an Assistant from the config.
func New(cfg Config) (*Assistant, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("assistant requires a model")
	}

	a := &Assistant{
		model:         cfg.Model,
		tools:         cfg.Tools,
		byName:        make(map[string]tools.Tool, len(cfg.Tools)),
		systemPrompt:  cfg.SystemPrompt,
		maxIterations: cfg.MaxIterations,
		logger:        cfg.Logger,
	}
	if a.systemPrompt == "" {
		a.systemPrompt = DefaultSystemPrompt
	}
	if a.maxIterations <= 0 {
		a.maxIterations = DefaultMaxIterations
	}
	if a.logger == nil {
		a.logger = log.GetDefaultLogger()
	}

	for _, t := range cfg.Tools {
		if _, exists := a.byName[t.Name()]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name())
		}
		a.byName[t.Name()] = t
	}
	a.toolDefs = buildToolDefs(cfg.Tools)
	return a, nil
}

// Tools returns the registered tools.
func (a *Assistant) Tools() []tools.Tool {
	return a.tools
}

// Chat runs one assistant turn: the user input is appended to the
// session, tool calls are resolved until the model answers in plain
// text, and the final answer is returned.
func (a *Assistant) Chat(ctx context.Context, session *Session, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("input is empty")
	}
	if session == nil {
		return "", fmt.Errorf("session is nil")
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	messages := session.messages
	if len(messages) == 0 && a.systemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, a.systemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, input))

	var opts []llms.CallOption
	if len(a.toolDefs) > 0 {
		opts = append(opts, llms.WithTools(a.toolDefs))
	}

	for iteration := 0; iteration < a.maxIterations; iteration++ {
		resp, err := a.model.GenerateContent(ctx, messages, opts...)
		if err != nil {
			return "", fmt.Errorf("model call failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("model returned no choices")
		}
		choice := resp.Choices[0]

		aiMsg := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		if choice.Content != "" {
			aiMsg.Parts = append(aiMsg.Parts, llms.TextPart(choice.Content))
		}
		for _, tc := range choice.ToolCalls {
			aiMsg.Parts = append(aiMsg.Parts, tc)
		}
		messages = append(messages, aiMsg)

		if len(choice.ToolCalls) == 0 {
			session.messages = messages
			return choice.Content, nil
		}

		for _, tc := range choice.ToolCalls {
			observation := a.executeToolCall(ctx, tc)
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: tc.ID,
						Name:       tc.FunctionCall.Name,
						Content:    observation,
					},
				},
			})
		}
	}

	a.logger.Warn("assistant hit the iteration limit (%d)", a.maxIterations)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeAI, maxIterationsMessage))
	session.messages = messages
	return maxIterationsMessage, nil
}

// executeToolCall runs one tool call. Failures are returned as
// observations so the model can recover or explain them to the user.
func (a *Assistant) executeToolCall(ctx context.Context, tc llms.ToolCall) string {
	name := tc.FunctionCall.Name
	tool, ok := a.byName[name]
	if !ok {
		a.logger.Warn("model requested unknown tool %q", name)
		return fmt.Sprintf("Error: unknown tool %q", name)
	}

	input := toolInput(tc.FunctionCall.Arguments)
	a.logger.Debug("calling tool %s with input %q", name, input)

	result, err := tool.Call(ctx, input)
	if err != nil {
		a.logger.Warn("tool %s failed: %v", name, err)
		return fmt.Sprintf("Error: %v", err)
	}
	return result
}

// toolInput extracts the "input" argument; malformed argument payloads
// fall back to the raw string.
func toolInput(arguments string) string {
	var args map[string]any
	if err := json.Unmarshal([]byte(arguments), &args); err == nil {
		if val, ok := args["input"].(string); ok {
			return val
		}
	}
	return arguments
}

// buildToolDefs exposes every tool to the model as a function taking a
// single "input" string.
func buildToolDefs(toolSet []tools.Tool) []llms.Tool {
	defs := make([]llms.Tool, 0, len(toolSet))
	for _, t := range toolSet {
		defs = append(defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"input": map[string]any{
							"type":        "string",
							"description": "The input query for the tool",
						},
					},
					"required":             []string{"input"},
					"additionalProperties": false,
				},
			},
		})
	}
	return defs
}

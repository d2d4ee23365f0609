package llm

import (
	"context"
	"fmt"
)

// ToolSpec is a function definition in the common tool-calling format
// shared by chat-completions style APIs.
type ToolSpec struct {
	Type     string       `json:"type"` // always "function"
	Function FunctionSpec `json:"function"`
}

// FunctionSpec describes one callable function offered to the model.
type FunctionSpec struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ToolCall is a tool invocation requested by the model. RawArguments is
// the argument payload exactly as the model produced it and stays an
// opaque JSON string until the orchestrator parses it.
type ToolCall struct {
	ID           string
	Name         string
	RawArguments string
}

// GenerateResult is the outcome of a tool-enabled generation round.
// Content is nil when the model produced no text.
type GenerateResult struct {
	Content   *string
	ToolCalls []ToolCall
}

// Options carries the generation parameters shared by all providers.
type Options struct {
	SystemMessage string
	Temperature   float32
	MaxTokens     int // 0 means provider default
}

// Backend is the capability boundary to a hosted LLM. Implementations
// own their transport, credentials and request shaping.
type Backend interface {
	// Generate produces plain text for a prompt.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)

	// GenerateWithTools runs a single tool-enabled inference round.
	// The model may answer with text, tool calls, or both; it is never
	// re-invoked with tool results.
	GenerateWithTools(ctx context.Context, prompt string, tools []ToolSpec, opts Options) (*GenerateResult, error)
}

// ModelError wraps a provider failure. It is fatal to the request that
// triggered it.
type ModelError struct {
	Provider string
	Err      error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model backend %s: %v", e.Provider, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

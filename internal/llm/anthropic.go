package llm

import (
	"context"
	"errors"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"
	"github.com/toolbridge/toolbridge/internal/observability"
)

const anthropicDefaultMaxTokens = 4096

// AnthropicBackend implements Backend over the Anthropic Messages API.
type AnthropicBackend struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicBackend creates a backend for Anthropic Claude or a
// compatible provider (e.g. Z.ai) when baseURL is set.
func NewAnthropicBackend(apiKey, model, baseURL string) (*AnthropicBackend, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	log.Info().Str("model", model).Msg("initialized Anthropic backend")
	return &AnthropicBackend{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

func (b *AnthropicBackend) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	start := time.Now()
	resp, err := b.client.Messages.New(ctx, b.params(prompt, nil, opts))
	observability.RecordModelRequest("anthropic", "text", start, err)
	if err != nil {
		return "", &ModelError{Provider: "anthropic", Err: err}
	}

	var text string
	for _, block := range resp.Content {
		if tb, ok := block.AsUnion().(anthropic.TextBlock); ok {
			text += tb.Text
		}
	}
	return text, nil
}

func (b *AnthropicBackend) GenerateWithTools(ctx context.Context, prompt string, tools []ToolSpec, opts Options) (*GenerateResult, error) {
	start := time.Now()
	resp, err := b.client.Messages.New(ctx, b.params(prompt, anthropicTools(tools), opts))
	observability.RecordModelRequest("anthropic", "tools", start, err)
	if err != nil {
		return nil, &ModelError{Provider: "anthropic", Err: err}
	}

	var text string
	result := &GenerateResult{}
	for _, block := range resp.Content {
		switch blk := block.AsUnion().(type) {
		case anthropic.TextBlock:
			text += blk.Text
		case anthropic.ToolUseBlock:
			result.ToolCalls = append(result.ToolCalls, ToolCall{
				ID:           blk.ID,
				Name:         blk.Name,
				RawArguments: string(blk.Input),
			})
		}
	}
	if text != "" {
		result.Content = &text
	}
	return result, nil
}

func (b *AnthropicBackend) params(prompt string, tools []anthropic.ToolUnionUnionParam, opts Options) anthropic.MessageNewParams {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(b.model)),
		MaxTokens: anthropic.F(int64(maxTokens)),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
		Temperature: anthropic.F(float64(opts.Temperature)),
	}
	if len(tools) > 0 {
		params.Tools = anthropic.F(tools)
	}
	if opts.SystemMessage != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(opts.SystemMessage),
		})
	}
	return params
}

func anthropicTools(tools []ToolSpec) []anthropic.ToolUnionUnionParam {
	out := make([]anthropic.ToolUnionUnionParam, len(tools))
	for i, t := range tools {
		schema := t.Function.Parameters
		if len(schema) == 0 {
			schema = map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			}
		}
		out[i] = anthropic.ToolParam{
			Name:        anthropic.String(t.Function.Name),
			Description: anthropic.String(t.Function.Description),
			InputSchema: anthropic.F[interface{}](schema),
		}
	}
	return out
}

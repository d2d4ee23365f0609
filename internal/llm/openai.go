package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/toolbridge/toolbridge/internal/observability"
)

// OpenAIBackend implements Backend over the OpenAI chat completions API.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend creates a backend for OpenAI or an API-compatible
// gateway when baseURL is set.
func NewOpenAIBackend(apiKey, model, organization, baseURL string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if organization != "" {
		cfg.OrgID = organization
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	log.Info().Str("model", model).Msg("initialized OpenAI backend")
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (b *OpenAIBackend) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	start := time.Now()
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    b.messages(prompt, opts),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	observability.RecordModelRequest("openai", "text", start, err)
	if err != nil {
		return "", &ModelError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ModelError{Provider: "openai", Err: errors.New("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *OpenAIBackend) GenerateWithTools(ctx context.Context, prompt string, tools []ToolSpec, opts Options) (*GenerateResult, error) {
	start := time.Now()
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    b.messages(prompt, opts),
		Tools:       openAITools(tools),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	observability.RecordModelRequest("openai", "tools", start, err)
	if err != nil {
		return nil, &ModelError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &ModelError{Provider: "openai", Err: errors.New("no choices returned")}
	}

	msg := resp.Choices[0].Message
	result := &GenerateResult{}
	if msg.Content != "" {
		content := msg.Content
		result.Content = &content
	}
	for _, tc := range msg.ToolCalls {
		if tc.Type != openai.ToolTypeFunction {
			continue
		}
		result.ToolCalls = append(result.ToolCalls, ToolCall{
			ID:           tc.ID,
			Name:         tc.Function.Name,
			RawArguments: tc.Function.Arguments,
		})
	}
	return result, nil
}

func (b *OpenAIBackend) messages(prompt string, opts Options) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage
	if opts.SystemMessage != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: opts.SystemMessage,
		})
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
}

func openAITools(tools []ToolSpec) []openai.Tool {
	out := make([]openai.Tool, len(tools))
	for i, t := range tools {
		out[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  t.Function.Parameters,
			},
		}
	}
	return out
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/toolbridge/toolbridge/internal/observability"
	"google.golang.org/api/option"
)

// GeminiBackend implements Backend over the Google Gemini API.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

func NewGeminiBackend(apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	log.Info().Str("model", model).Msg("initialized Gemini backend")
	return &GeminiBackend{client: client, model: model}, nil
}

// Close releases the underlying gRPC connection.
func (b *GeminiBackend) Close() error {
	return b.client.Close()
}

func (b *GeminiBackend) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	model := b.generativeModel(opts)

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	observability.RecordModelRequest("gemini", "text", start, err)
	if err != nil {
		return "", &ModelError{Provider: "gemini", Err: err}
	}

	text, _, err := splitParts(resp)
	if err != nil {
		return "", &ModelError{Provider: "gemini", Err: err}
	}
	return text, nil
}

func (b *GeminiBackend) GenerateWithTools(ctx context.Context, prompt string, tools []ToolSpec, opts Options) (*GenerateResult, error) {
	model := b.generativeModel(opts)
	model.Tools = geminiTools(tools)

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	observability.RecordModelRequest("gemini", "tools", start, err)
	if err != nil {
		return nil, &ModelError{Provider: "gemini", Err: err}
	}

	text, calls, err := splitParts(resp)
	if err != nil {
		return nil, &ModelError{Provider: "gemini", Err: err}
	}
	result := &GenerateResult{ToolCalls: calls}
	if text != "" {
		result.Content = &text
	}
	return result, nil
}

// generativeModel builds a fresh per-request model handle so concurrent
// requests never share mutable Tools/SystemInstruction state.
func (b *GeminiBackend) generativeModel(opts Options) *genai.GenerativeModel {
	model := b.client.GenerativeModel(b.model)
	model.SetTemperature(opts.Temperature)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if opts.SystemMessage != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(opts.SystemMessage)},
		}
	}
	return model
}

// splitParts collects text and function calls from the first candidate.
// Gemini does not assign call IDs, so one is fabricated per call.
func splitParts(resp *genai.GenerateContentResponse) (string, []ToolCall, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil, errors.New("no content returned")
	}

	var sb strings.Builder
	var calls []ToolCall
	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			sb.WriteString(string(v))
		case genai.FunctionCall:
			args, err := json.Marshal(v.Args)
			if err != nil {
				log.Warn().Err(err).Str("tool", v.Name).Msg("could not marshal tool call args")
				continue
			}
			calls = append(calls, ToolCall{
				ID:           fmt.Sprintf("gemini-toolcall-%s", v.Name),
				Name:         v.Name,
				RawArguments: string(args),
			})
		}
	}
	return strings.TrimSpace(sb.String()), calls, nil
}

func geminiTools(tools []ToolSpec) []*genai.Tool {
	var out []*genai.Tool
	for _, t := range tools {
		out = append(out, &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  geminiSchema(t.Function.Parameters),
			}},
		})
	}
	return out
}

// geminiSchema converts a JSON schema map into the typed genai schema.
func geminiSchema(m map[string]interface{}) *genai.Schema {
	if len(m) == 0 {
		return &genai.Schema{Type: genai.TypeObject}
	}

	s := &genai.Schema{}
	switch t, _ := m["type"].(string); t {
	case "object":
		s.Type = genai.TypeObject
	case "string":
		s.Type = genai.TypeString
	case "number":
		s.Type = genai.TypeNumber
	case "integer":
		s.Type = genai.TypeInteger
	case "boolean":
		s.Type = genai.TypeBoolean
	case "array":
		s.Type = genai.TypeArray
	default:
		s.Type = genai.TypeObject
	}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	s.Required = stringSlice(m["required"])
	s.Enum = stringSlice(m["enum"])
	if props, ok := m["properties"].(map[string]interface{}); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if pm, ok := v.(map[string]interface{}); ok {
				s.Properties[name] = geminiSchema(pm)
			}
		}
	}
	if items, ok := m["items"].(map[string]interface{}); ok {
		s.Items = geminiSchema(items)
	}
	return s
}

// stringSlice accepts both []string and JSON-decoded []interface{}.
func stringSlice(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []interface{}:
		var out []string
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

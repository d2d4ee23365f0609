package llm

import (
	"github.com/rs/zerolog/log"
	"github.com/toolbridge/toolbridge/internal/config"
)

// New creates the model backend selected by cfg.LLMProvider. Unknown
// providers fall back to OpenAI.
func New(cfg *config.Config) (Backend, error) {
	provider := cfg.LLMProvider
	switch provider {
	case "openai", "anthropic", "gemini":
	default:
		log.Warn().Str("provider", provider).Msg("unknown LLM provider, falling back to OpenAI")
		provider = "openai"
	}

	switch provider {
	case "anthropic":
		b, err := NewAnthropicBackend(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "gemini":
		b, err := NewGeminiBackend(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		b, err := NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIOrganization, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

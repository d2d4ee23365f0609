package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	LogLevel    string `json:"log_level"`
	LogPretty   bool   `json:"log_pretty"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// MCP tool service client
	MCPBaseURL string `json:"mcp_base_url"`
	MCPTimeout int    `json:"mcp_timeout"` // seconds

	// AI / LLM
	LLMProvider        string  `json:"llm_provider"` // "openai" | "anthropic" | "gemini"
	LLMTemperature     float32 `json:"llm_temperature"`
	LLMMaxTokens       int     `json:"llm_max_tokens"`
	OpenAIAPIKey       string  `json:"openai_api_key"`
	OpenAIModel        string  `json:"openai_model"`
	OpenAIOrganization string  `json:"openai_organization"`
	OpenAIBaseURL      string  `json:"openai_base_url"` // override for Azure-compatible gateways / custom proxy
	AnthropicAPIKey    string  `json:"anthropic_api_key"`
	AnthropicBaseURL   string  `json:"anthropic_base_url"` // override for Z.ai / custom proxy
	AnthropicModel     string  `json:"anthropic_model"`
	GeminiAPIKey       string  `json:"gemini_api_key"`
	GeminiModel        string  `json:"gemini_model"`

	// Security
	MaxPromptLength    int  `json:"max_prompt_length"`
	EnableAuditLogging bool `json:"enable_audit_logging"`

	// Observability
	MetricsEnabled bool `json:"metrics_enabled"`

	// Service manifest (YAML)
	ManifestPath string `json:"manifest_path"`
}

func Load() (*Config, error) {
	// Load .env if present; real environment still wins below
	_ = godotenv.Load()

	cfg := &Config{
		Host:               DefaultHost,
		Port:               DefaultPort,
		Environment:        DefaultEnvironment,
		LogLevel:           DefaultLogLevel,
		CORSOrigins:        DefaultCORSOrigins,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		MCPBaseURL:         DefaultMCPBaseURL,
		MCPTimeout:         DefaultMCPTimeout,
		LLMProvider:        DefaultLLMProvider,
		LLMTemperature:     DefaultTemperature,
		OpenAIModel:        DefaultOpenAIModel,
		AnthropicModel:     DefaultAnthropicModel,
		GeminiModel:        DefaultGeminiModel,
		MaxPromptLength:    DefaultMaxPromptLength,
		EnableAuditLogging: true,
		MetricsEnabled:     true,
		ManifestPath:       DefaultManifestPath,
	}

	// Load from JSON config file if specified
	if path := getEnv("TOOLBRIDGE_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, err
		}
	}

	// Environment overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("ENVIRONMENT", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("LOG_PRETTY", ""); v != "" {
		cfg.LogPretty = v == "true" || v == "1"
	}
	if v := getEnv("CORS_ORIGINS", ""); v != "" {
		cfg.CORSOrigins = strings.Split(v, ",")
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("MCP_BASE_URL", ""); v != "" {
		cfg.MCPBaseURL = strings.TrimRight(v, "/")
	}
	if v := getEnv("MCP_TIMEOUT", ""); v != "" {
		if t, err := strconv.Atoi(v); err == nil {
			cfg.MCPTimeout = t
		}
	}
	if v := getEnv("LLM_PROVIDER", ""); v != "" {
		cfg.LLMProvider = strings.ToLower(v)
	}
	if v := getEnv("LLM_TEMPERATURE", ""); v != "" {
		if t, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLMTemperature = float32(t)
		}
	}
	if v := getEnv("LLM_MAX_TOKENS", ""); v != "" {
		if t, err := strconv.Atoi(v); err == nil {
			cfg.LLMMaxTokens = t
		}
	}
	if v := getEnv("OPENAI_API_KEY", ""); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := getEnv("OPENAI_MODEL", ""); v != "" {
		cfg.OpenAIModel = v
	}
	if v := getEnv("OPENAI_ORGANIZATION", ""); v != "" {
		cfg.OpenAIOrganization = v
	}
	if v := getEnv("OPENAI_BASE_URL", ""); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("ANTHROPIC_MODEL", ""); v != "" {
		cfg.AnthropicModel = v
	}
	if v := getEnv("GEMINI_API_KEY", ""); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := getEnv("GEMINI_MODEL", ""); v != "" {
		cfg.GeminiModel = v
	}
	if v := getEnv("MAX_PROMPT_LENGTH", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxPromptLength = n
		}
	}
	if v := getEnv("ENABLE_AUDIT_LOGGING", ""); v != "" {
		cfg.EnableAuditLogging = v == "true" || v == "1"
	}
	if v := getEnv("METRICS_ENABLED", ""); v != "" {
		cfg.MetricsEnabled = v == "true" || v == "1"
	}
	if v := getEnv("TOOLBRIDGE_MANIFEST", ""); v != "" {
		cfg.ManifestPath = v
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

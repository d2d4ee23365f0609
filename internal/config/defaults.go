package config

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	DefaultMCPBaseURL = "http://localhost:8000"
	DefaultMCPTimeout = 30 // seconds

	DefaultLLMProvider    = "openai"
	DefaultTemperature    = 0.7
	DefaultOpenAIModel    = "gpt-4o"
	DefaultAnthropicModel = "claude-sonnet-4-6"
	DefaultGeminiModel    = "gemini-1.5-pro"

	DefaultMaxPromptLength = 8000

	DefaultManifestPath = "mcp_tool.yaml"
)

var DefaultCORSOrigins = []string{"*"}

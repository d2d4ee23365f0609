package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/toolbridge/toolbridge/internal/agent"
	"github.com/toolbridge/toolbridge/internal/config"
	"github.com/toolbridge/toolbridge/internal/handler"
	"github.com/toolbridge/toolbridge/internal/llm"
	"github.com/toolbridge/toolbridge/internal/mcp"
	"github.com/toolbridge/toolbridge/internal/middleware"
	"github.com/toolbridge/toolbridge/internal/observability"
	"github.com/toolbridge/toolbridge/internal/security"
	"github.com/toolbridge/toolbridge/internal/tools"
)

func (s *Server) setupRoutes() (http.Handler, error) {
	cfg := s.cfg

	// ─── Manifest and registries ────────────────────────────────────────────────
	manifest, err := config.LoadManifest(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry()
	registry.Register(tools.GreetingTool())
	registry.Register(tools.CalculateTool())

	resources := tools.NewResourceRegistry()
	resources.Register(tools.HealthResource())
	resources.Register(tools.InfoResource(manifest, registry, resources))

	// ─── LLM backend ────────────────────────────────────────────────────────────
	backend, llmErr := llm.New(cfg)
	if llmErr != nil {
		log.Warn().Err(llmErr).Msg("LLM backend unavailable - /llm/process will return 503")
	}
	s.backend = backend

	// ─── MCP client ─────────────────────────────────────────────────────────────
	mcpCli := mcp.NewClient(cfg.MCPBaseURL, time.Duration(cfg.MCPTimeout)*time.Second)
	s.mcpCli = mcpCli

	// Startup summary
	log.Info().
		Str("provider", cfg.LLMProvider).
		Bool("llm_enabled", backend != nil).
		Str("mcp_base_url", cfg.MCPBaseURL).
		Int("tools_registered", len(registry.List())).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Bool("metrics", cfg.MetricsEnabled).
		Msg("service configuration")

	// ─── Security ───────────────────────────────────────────────────────────────
	promptVal := security.NewPromptValidator(cfg.MaxPromptLength)
	auditLogger := security.NewAuditLogger(cfg.EnableAuditLogging)

	// ─── Handlers ───────────────────────────────────────────────────────────────
	rootH := handler.NewRootHandler(manifest)
	healthH := handler.NewHealthHandler(manifest, cfg.LLMProvider, backend, registry, mcpCli)
	mcpH := handler.NewMCPHandler(registry, resources, auditLogger)

	infoRes, _ := resources.Get("/info")
	infoH := handler.NewInfoHandler(infoRes)

	var orch *agent.Orchestrator
	if backend != nil {
		orch = agent.New(mcpCli, backend, cfg.LLMProvider, auditLogger)
	}
	llmH := handler.NewLLMHandler(orch, promptVal, cfg)

	// ─── Router ─────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)

	// Public routes
	r.Get("/", rootH.Root)
	r.Get("/health", healthH.Health)
	r.Get("/info", infoH.Info)
	r.Get("/mcp/resource/*", mcpH.GetResource)

	if cfg.MetricsEnabled {
		r.Handle("/metrics", observability.MetricsHandler())
	}

	// Rate limited routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

		r.Post("/mcp/tool/{tool_name}", mcpH.CallTool)
		r.Post("/llm/process", llmH.Process)
	})

	return r, nil
}

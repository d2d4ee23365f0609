package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/toolbridge/toolbridge/internal/config"
	"github.com/toolbridge/toolbridge/internal/llm"
	"github.com/toolbridge/toolbridge/internal/mcp"
	"github.com/toolbridge/toolbridge/internal/models"
	"github.com/toolbridge/toolbridge/internal/tools"
)

// HealthHandler handles GET /health
type HealthHandler struct {
	manifest *config.Manifest
	provider string
	backend  llm.Backend
	tools    *tools.Registry
	catalog  *mcp.Client
}

func NewHealthHandler(manifest *config.Manifest, provider string, backend llm.Backend, reg *tools.Registry, catalog *mcp.Client) *HealthHandler {
	return &HealthHandler{
		manifest: manifest,
		provider: provider,
		backend:  backend,
		tools:    reg,
		catalog:  catalog,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}

	if h.backend != nil {
		checks["llm"] = h.provider
	} else {
		checks["llm"] = "disabled"
	}
	checks["tools"] = fmt.Sprintf("%d registered", len(h.tools.List()))

	if n, fetchedAt, ok := h.catalog.CachedCatalog(); ok {
		checks["catalog"] = fmt.Sprintf("%d tools, fetched %s", n, fetchedAt.UTC().Format(time.RFC3339))
	} else {
		checks["catalog"] = "not yet fetched"
	}

	models.WriteJSON(w, http.StatusOK, models.APISuccess(models.HealthResponse{
		Status:  "healthy",
		Version: h.manifest.Version,
		Checks:  checks,
	}, ""))
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/toolbridge/toolbridge/internal/models"
	"github.com/toolbridge/toolbridge/internal/security"
	"github.com/toolbridge/toolbridge/internal/tools"
)

// MCPHandler serves the tool and resource endpoints consumed by MCP clients.
type MCPHandler struct {
	tools     *tools.Registry
	resources *tools.ResourceRegistry
	audit     *security.AuditLogger
}

func NewMCPHandler(reg *tools.Registry, resources *tools.ResourceRegistry, audit *security.AuditLogger) *MCPHandler {
	return &MCPHandler{
		tools:     reg,
		resources: resources,
		audit:     audit,
	}
}

// CallTool handles POST /mcp/tool/{tool_name}
func (h *MCPHandler) CallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "tool_name")
	log.Info().Str("tool", name).Msg("received MCP tool request")

	tool, ok := h.tools.Get(name)
	if !ok {
		log.Warn().Str("tool", name).Msg("tool not found")
		models.WriteError(w, http.StatusNotFound, fmt.Sprintf("Tool '%s' not found", name))
		return
	}

	var args map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		log.Error().Err(err).Str("tool", name).Msg("invalid JSON body")
		models.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	start := time.Now()
	result, err := tool.Execute(r.Context(), args)
	if err != nil {
		log.Error().Err(err).Str("tool", name).Msg("tool execution failed")
		h.audit.LogToolInvocation(name, time.Since(start).Milliseconds(), false, err.Error())
		models.WriteJSON(w, http.StatusBadRequest, models.MCPError(err.Error()))
		return
	}

	h.audit.LogToolInvocation(name, time.Since(start).Milliseconds(), true, "")
	models.WriteJSON(w, http.StatusOK, models.MCPSuccess(result))
}

// GetResource handles GET /mcp/resource/*
func (h *MCPHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	uri := "/" + chi.URLParam(r, "*")
	log.Info().Str("uri", uri).Msg("received MCP resource request")

	resource, ok := h.resources.Get(uri)
	if !ok {
		log.Warn().Str("uri", uri).Msg("resource not found")
		models.WriteError(w, http.StatusNotFound, fmt.Sprintf("Resource '%s' not found", uri))
		return
	}

	data, err := resource.Fetch(r.Context())
	if err != nil {
		log.Error().Err(err).Str("uri", uri).Msg("resource fetch failed")
		models.WriteJSON(w, http.StatusBadRequest, models.MCPError(err.Error()))
		return
	}

	models.WriteJSON(w, http.StatusOK, models.MCPSuccess(data))
}

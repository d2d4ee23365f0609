package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/toolbridge/toolbridge/internal/agent"
	"github.com/toolbridge/toolbridge/internal/config"
	"github.com/toolbridge/toolbridge/internal/models"
	"github.com/toolbridge/toolbridge/internal/security"
)

// LLMHandler handles POST /llm/process
type LLMHandler struct {
	orchestrator *agent.Orchestrator
	validator    *security.PromptValidator
	cfg          *config.Config
}

func NewLLMHandler(orchestrator *agent.Orchestrator, validator *security.PromptValidator, cfg *config.Config) *LLMHandler {
	return &LLMHandler{
		orchestrator: orchestrator,
		validator:    validator,
		cfg:          cfg,
	}
}

// Process handles POST /llm/process
func (h *LLMHandler) Process(w http.ResponseWriter, r *http.Request) {
	if h.orchestrator == nil {
		models.WriteError(w, http.StatusServiceUnavailable, "LLM is not configured")
		return
	}

	var req models.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Temperature == nil {
		t := h.cfg.LLMTemperature
		req.Temperature = &t
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = h.cfg.LLMMaxTokens
	}
	req.SetDefaults()

	if res := h.validator.Validate(req.Prompt); !res.Valid {
		models.WriteError(w, http.StatusBadRequest, res.Message)
		return
	}

	areq := agent.Request{
		Prompt:      req.Prompt,
		Temperature: *req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.SystemMessage != nil {
		areq.SystemMessage = *req.SystemMessage
	}

	result, err := h.orchestrator.Process(r.Context(), areq)
	if err != nil {
		log.Error().Err(err).Msg("error processing LLM request")
		// Error envelope rides on HTTP 200 so callers always read the body
		models.WriteJSON(w, http.StatusOK, models.APIError("Error processing LLM request: "+err.Error(), http.StatusInternalServerError))
		return
	}

	models.WriteJSON(w, http.StatusOK, models.APISuccess(result, ""))
}

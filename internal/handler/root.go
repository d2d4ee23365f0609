package handler

import (
	"fmt"
	"net/http"

	"github.com/toolbridge/toolbridge/internal/config"
	"github.com/toolbridge/toolbridge/internal/models"
)

// RootHandler handles GET /
type RootHandler struct {
	manifest *config.Manifest
}

func NewRootHandler(manifest *config.Manifest) *RootHandler {
	return &RootHandler{manifest: manifest}
}

// Root handles GET /
func (h *RootHandler) Root(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, models.APISuccess(map[string]interface{}{
		"message":          fmt.Sprintf("Welcome to the %s service", h.manifest.Name),
		"health_check_url": "/health",
		"info_url":         "/info",
		"llm_url":          "/llm/process",
	}, ""))
}

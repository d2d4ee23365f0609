package handler

import (
	"net/http"

	"github.com/toolbridge/toolbridge/internal/models"
	"github.com/toolbridge/toolbridge/internal/tools"
)

// InfoHandler handles GET /info
type InfoHandler struct {
	info tools.Resource
}

func NewInfoHandler(info tools.Resource) *InfoHandler {
	return &InfoHandler{info: info}
}

// Info handles GET /info. The document is returned unwrapped because MCP
// clients read the tool listing straight from the body.
func (h *InfoHandler) Info(w http.ResponseWriter, r *http.Request) {
	data, err := h.info.Fetch(r.Context())
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	models.WriteJSON(w, http.StatusOK, data)
}

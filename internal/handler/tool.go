package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/passagent/passagent-go/internal/crypto"
	"github.com/passagent/passagent-go/internal/service"
	"github.com/passagent/passagent-go/internal/tool"
)

// ToolHandler exposes the agent's tools over HTTP.
type ToolHandler struct {
	service *service.ToolService
}

// NewToolHandler creates a new ToolHandler.
func NewToolHandler(svc *service.ToolService) *ToolHandler {
	return &ToolHandler{service: svc}
}

// HandleList handles GET /api/v1/tools requests.
func (h *ToolHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.List())
}

// HandleInvoke handles POST /api/v1/tools/{name}/invoke requests. The body is
// the argument object passed to the tool.
func (h *ToolHandler) HandleInvoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var args map[string]any
	if !decodeBody(w, r, &args, true) {
		return
	}

	resp, err := h.service.Invoke(r.Context(), name, args)
	if err != nil {
		switch {
		case errors.Is(err, tool.ErrUnknownTool):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, tool.ErrInvalidArguments), errors.Is(err, crypto.ErrInvalidArgument):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, crypto.ErrEntropyUnavailable):
			slog.Error("tool invocation failed", "tool", name, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, errorResponse("secure random source unavailable"))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

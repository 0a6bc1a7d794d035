package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/passagent/passagent-go/internal/crypto"
	"github.com/passagent/passagent-go/internal/model"
	"github.com/passagent/passagent-go/internal/service"
)

// GeneratorHandler handles HTTP requests for password generation.
type GeneratorHandler struct {
	service *service.GeneratorService
}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler(svc *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{service: svc}
}

// HandleGenerate handles POST /api/v1/generate requests.
// Missing fields fall back to the configured policy, so an empty body is valid.
func (h *GeneratorHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	resp, err := h.service.Generate(req)
	if err != nil {
		switch {
		case errors.Is(err, crypto.ErrInvalidArgument):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, crypto.ErrEntropyUnavailable):
			slog.Error("password generation failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, errorResponse("secure random source unavailable"))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

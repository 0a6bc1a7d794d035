package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/passagent/passagent-go/internal/middleware"
	"github.com/passagent/passagent-go/internal/model"
	"github.com/passagent/passagent-go/internal/service"
)

const maxRunListLimit = 100

// AgentHandler handles HTTP requests for agent runs.
type AgentHandler struct {
	service *service.AgentService
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(svc *service.AgentService) *AgentHandler {
	return &AgentHandler{service: svc}
}

// HandleRun handles POST /api/v1/agent/runs requests.
func (h *AgentHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.RunRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	resp, err := h.service.Run(r.Context(), userID, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQueryRequired), errors.Is(err, service.ErrQueryTooLong):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrAgentDisabled):
			writeJSON(w, http.StatusServiceUnavailable, errorResponse(err.Error()))
		case resp.ID != "":
			// The run started; report what the agent did before it failed.
			slog.Warn("agent run failed", "run_id", resp.ID, "error", err)
			writeJSON(w, http.StatusBadGateway, resp)
		default:
			slog.Error("agent run failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleListRuns handles GET /api/v1/agent/runs requests.
func (h *AgentHandler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRunListLimit {
			writeJSON(w, http.StatusBadRequest, errorResponse("limit must be between 1 and 100"))
			return
		}
		limit = n
	}

	runs, err := h.service.ListRuns(r.Context(), userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, runs)
}

// HandleGetRun handles GET /api/v1/agent/runs/{id} requests.
func (h *AgentHandler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" || len(id) > 36 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid run id"))
		return
	}

	resp, err := h.service.GetRun(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

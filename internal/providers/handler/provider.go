package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"scootal/internal/providers/service"
	apperrors "scootal/pkg/errors"
	httputil "scootal/pkg/http"
	"scootal/pkg/logger"
)

type ProviderHandler struct {
	service service.ProviderService
	log     *logger.Logger
}

func NewProviderHandler(service service.ProviderService, log *logger.Logger) *ProviderHandler {
	return &ProviderHandler{
		service: service,
		log:     log,
	}
}

func (h *ProviderHandler) Onboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actorID := r.Header.Get("X-Actor-ID")
	if actorID == "" {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("X-Actor-ID header is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Onboard", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Onboard", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	url, err := h.service.Onboard(r.Context(), actorID, body.Email)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Onboard", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"onboarding_url": url}); err != nil {
		h.log.Error("failed to write success response", "handler", "Onboard", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProviderHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actorID := r.Header.Get("X-Actor-ID")
	if actorID == "" {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("X-Actor-ID header is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	provider, err := h.service.Get(r.Context(), actorID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, provider); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProviderHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/providers/onboard", h.Onboard)
	router.GET("/api/v1/providers/me", h.Get)
}

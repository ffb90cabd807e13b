package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"scootal/internal/assets/service"
	apperrors "scootal/pkg/errors"
	httputil "scootal/pkg/http"
	"scootal/pkg/logger"
	"scootal/pkg/model"
)

// FeaturePurchaser charges for the promotional flag before it is applied.
type FeaturePurchaser interface {
	PurchaseFeature(ctx context.Context, assetID string) error
}

type AssetHandler struct {
	service service.AssetService
	escrow  FeaturePurchaser
	log     *logger.Logger
}

func NewAssetHandler(service service.AssetService, escrow FeaturePurchaser, log *logger.Logger) *AssetHandler {
	return &AssetHandler{
		service: service,
		escrow:  escrow,
		log:     log,
	}
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var asset model.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &asset); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, asset); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *AssetHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	asset, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, asset); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AssetHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	assets, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, assets, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *AssetHandler) ListBiddable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	startStr := query.Get("start")
	if startStr == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'start' query parameter is required (RFC3339)")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListBiddable", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid start format, must be RFC3339")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListBiddable", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	class := model.DurationClass(query.Get("duration_class"))

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListBiddable", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	assets, err := h.service.ListBiddable(r.Context(), start, class, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListBiddable", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, assets); err != nil {
		h.log.Error("failed to write success response", "handler", "ListBiddable", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AssetHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	actorID := r.Header.Get("X-Actor-ID")

	var av model.WeeklyAvailability
	if err := json.NewDecoder(r.Body).Decode(&av); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateAvailability", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateAvailability(r.Context(), id, actorID, av); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AssetHandler) Feature(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.escrow.PurchaseFeature(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Feature", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"asset_id": id, "featured": true}); err != nil {
		h.log.Error("failed to write success response", "handler", "Feature", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AssetHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/assets", h.Create)
	router.GET("/api/v1/assets", h.GetAll)
	router.GET("/api/v1/assets/biddable", h.ListBiddable)
	router.GET("/api/v1/assets/id/:id", h.GetByID)
	router.PATCH("/api/v1/assets/id/:id/availability", h.UpdateAvailability)
	router.POST("/api/v1/assets/id/:id/feature", h.Feature)
}

package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"scootal/internal/payments/service"
	httputil "scootal/pkg/http"
	"scootal/pkg/logger"
	"scootal/pkg/model"
)

// ProviderOnboarding receives account readiness signals from the processor.
type ProviderOnboarding interface {
	MarkOnboarded(ctx context.Context, accountID string) error
}

// WebhookHandler terminates Stripe callbacks: capture confirmations for
// split payments and account readiness for provider onboarding.
type WebhookHandler struct {
	orchestrator  service.PayoutOrchestrator
	providers     ProviderOnboarding
	webhookSecret string
	log           *logger.Logger
}

func NewWebhookHandler(
	orchestrator service.PayoutOrchestrator,
	providers ProviderOnboarding,
	webhookSecret string,
	log *logger.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		orchestrator:  orchestrator,
		providers:     providers,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.Error("Failed to read webhook payload", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		h.log.Warn("Webhook signature verification failed", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.log.Debug("Stripe event received", "type", event.Type)

	switch event.Type {
	case "payment_intent.succeeded":
		h.settle(w, r, event, model.PaymentCaptured)
		return

	case "payment_intent.payment_failed":
		h.settle(w, r, event, model.PaymentFailed)
		return

	case "account.updated":
		var acc stripe.Account
		if err := json.Unmarshal(event.Data.Raw, &acc); err != nil {
			h.log.Error("Failed to parse account event", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if acc.ChargesEnabled && acc.DetailsSubmitted {
			if err := h.providers.MarkOnboarded(r.Context(), acc.ID); err != nil {
				h.log.Error("Failed to mark provider onboarded", "account_id", acc.ID, "error", err)
				if writeErr := httputil.WriteError(w, err); writeErr != nil {
					h.log.Error("failed to write error response", "handler", "HandleStripe", "operation", "WriteError", "error", writeErr)
				}
				return
			}
			h.log.Info("Provider onboarding completed", "account_id", acc.ID)
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) settle(w http.ResponseWriter, r *http.Request, event stripe.Event, outcome string) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		h.log.Error("Failed to parse payment intent event", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.orchestrator.ConfirmCapture(r.Context(), intent.ID, outcome); err != nil {
		h.log.Error("Failed to confirm capture", "intent_id", intent.ID, "outcome", outcome, "error", err)
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "settle", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/payments/webhook/stripe", h.HandleStripe)
}

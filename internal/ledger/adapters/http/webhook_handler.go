package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	chi_middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/domain"
)

const maxPayloadSize = 1 << 20 // 1 MB

// SignatureHeader carries the hex HMAC of the raw request body.
const SignatureHeader = "X-Webhook-Signature"

// webhookService is the slice of the ledger service used by the handler.
type webhookService interface {
	HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error
}

// WebhookHandler terminates the payment gateway's confirmation callbacks.
type WebhookHandler struct {
	service webhookService
	logger  *slog.Logger
}

func NewWebhookHandler(service webhookService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger.With("component", "webhook_handler"),
	}
}

// HandlePaymentWebhook verifies and applies one confirmation. A non-2xx
// status tells the gateway to redeliver, so only errors the sender can
// act on (bad signature, unreadable payload) or a failed financial write
// produce one. Redelivery of an applied event is answered 200.
func (h *WebhookHandler) HandlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chi_middleware.GetReqID(ctx)
	logger := h.logger.With("request_id", requestID)

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadSize))
	if err != nil {
		http.Error(w, "Unable to read request body", http.StatusBadRequest)
		return
	}

	err = h.service.HandlePaymentWebhook(ctx, payload, r.Header.Get(SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			logger.WarnContext(ctx, "Webhook signature rejected")
			http.Error(w, "Invalid signature", http.StatusBadRequest)
		case errors.Is(err, domain.ErrMalformedPayload):
			logger.WarnContext(ctx, "Webhook payload rejected", "error", err)
			http.Error(w, "Malformed payload", http.StatusBadRequest)
		default:
			logger.ErrorContext(ctx, "Webhook processing failed", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]bool{"received": true}); err != nil {
		logger.WarnContext(ctx, "Failed to write webhook response", "error", err)
	}
}

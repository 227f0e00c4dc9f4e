package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

// DeliveryEventsHandler receives delivery-status callbacks from the email
// provider. It always answers 2xx, even on internal errors, to avoid
// provider retry storms; failures are swallowed and logged.
type DeliveryEventsHandler struct {
	messageRepo domain.MessageRepository
	contactRepo domain.ContactRepository
	eventRepo   domain.EmailEventRepository
	logger      *slog.Logger
}

func NewDeliveryEventsHandler(
	messageRepo domain.MessageRepository,
	contactRepo domain.ContactRepository,
	eventRepo domain.EmailEventRepository,
	logger *slog.Logger,
) *DeliveryEventsHandler {
	return &DeliveryEventsHandler{
		messageRepo: messageRepo,
		contactRepo: contactRepo,
		eventRepo:   eventRepo,
		logger:      logger.With("component", "delivery_events_handler"),
	}
}

type deliveryEvent struct {
	TrackingID string `json:"tracking_id"`
	Event      string `json:"event"` // delivered, bounced, complained
}

func (h *DeliveryEventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chi_middleware.GetReqID(ctx)
	logger := h.logger.With("request_id", requestID)

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	rawPayload, err := io.ReadAll(r.Body)
	if err != nil {
		logger.WarnContext(ctx, "Failed to read delivery events body", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	// Providers batch events; accept either a single object or an array.
	var events []deliveryEvent
	if err := json.Unmarshal(rawPayload, &events); err != nil {
		var single deliveryEvent
		if err := json.Unmarshal(rawPayload, &single); err != nil {
			logger.WarnContext(ctx, "Unparseable delivery events payload", "error", err)
			w.WriteHeader(http.StatusOK)
			return
		}
		events = []deliveryEvent{single}
	}

	for _, ev := range events {
		h.processEvent(ctx, logger, ev, rawPayload)
	}
	w.WriteHeader(http.StatusOK)
}

func (h *DeliveryEventsHandler) processEvent(ctx context.Context, logger *slog.Logger, ev deliveryEvent, rawPayload []byte) {
	var eventType domain.EmailEventType
	switch ev.Event {
	case "delivered":
		eventType = domain.EventDelivered
	case "bounced":
		eventType = domain.EventBounced
	case "complained":
		eventType = domain.EventComplained
	default:
		logger.WarnContext(ctx, "Unknown delivery event type, ignoring", "event", ev.Event)
		return
	}
	if ev.TrackingID == "" {
		logger.WarnContext(ctx, "Delivery event without tracking id, ignoring", "event", ev.Event)
		return
	}

	if err := h.eventRepo.Create(ctx, &domain.EmailEvent{
		ID:         uuid.New(),
		TrackingID: ev.TrackingID,
		Type:       eventType,
		Payload:    rawPayload,
		ReceivedAt: time.Now().UTC(),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to append email event log row", "error", err, "tracking_id", ev.TrackingID)
	}

	// Delivered confirmations don't change contact status; only terminal
	// states do.
	if eventType == domain.EventDelivered {
		return
	}

	msg, err := h.messageRepo.GetByTrackingID(ctx, ev.TrackingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.WarnContext(ctx, "Delivery event for unknown tracking id", "tracking_id", ev.TrackingID)
			return
		}
		logger.ErrorContext(ctx, "Failed to resolve tracking id", "error", err, "tracking_id", ev.TrackingID)
		return
	}

	status := domain.ContactBounced
	if eventType == domain.EventComplained {
		status = domain.ContactComplained
	}
	if err := h.contactRepo.UpdateStatus(ctx, msg.ContactID, status); err != nil {
		logger.ErrorContext(ctx, "Failed to update contact status from delivery event",
			"error", err, "contact_id", msg.ContactID, "status", status)
	}
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/app"
	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// manualSendService is the slice of the manual sender used by the handler.
type manualSendService interface {
	Send(ctx context.Context, athleteID uuid.UUID, contactIDs []uuid.UUID, subject, body string) (*app.BatchResult, error)
}

// OutreachHandler serves the caller-initiated send API.
type OutreachHandler struct {
	manual manualSendService
	logger *slog.Logger
}

func NewOutreachHandler(manual manualSendService, logger *slog.Logger) *OutreachHandler {
	return &OutreachHandler{
		manual: manual,
		logger: logger.With("component", "outreach_handler"),
	}
}

type manualSendRequest struct {
	ContactIDs []uuid.UUID `json:"contact_ids"`
	Subject    string      `json:"subject,omitempty"`
	Body       string      `json:"body,omitempty"`
}

type manualSendResponse struct {
	Sent   int               `json:"sent"`
	Failed []app.SendFailure `json:"failed,omitempty"`
}

// HandleManualSend dispatches to explicitly selected contacts with the
// "manual" phase label; the automatic schedule cursor is never touched.
func (h *OutreachHandler) HandleManualSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chi_middleware.GetReqID(ctx)
	logger := h.logger.With("request_id", requestID)

	athleteID, err := uuid.Parse(chi.URLParam(r, "athleteID"))
	if err != nil {
		http.Error(w, "Invalid athlete id", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req manualSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.ContactIDs) == 0 {
		http.Error(w, "contact_ids is required", http.StatusBadRequest)
		return
	}

	result, err := h.manual.Send(ctx, athleteID, req.ContactIDs, req.Subject, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "Athlete not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrNoValidRecipients):
			http.Error(w, "No valid recipients", http.StatusUnprocessableEntity)
		case errors.Is(err, domain.ErrAllSendsFailed):
			http.Error(w, "All sends failed", http.StatusBadGateway)
		default:
			logger.ErrorContext(ctx, "Manual send failed", "error", err, "athlete_id", athleteID)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(manualSendResponse{
		Sent:   len(result.Sent),
		Failed: result.Failed,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to write manual send response", "error", err)
	}
}

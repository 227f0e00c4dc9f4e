package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/domain"
	outreachdomain "github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
	"github.com/hernahi/fundraising-mvp-sub000/internal/platform/messagebroker"
)

// TxRunner runs fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// PoolTxRunner is the production TxRunner backed by a pgx pool.
type PoolTxRunner struct {
	Pool *pgxpool.Pool
}

func (r *PoolTxRunner) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, r.Pool, fn)
}

// LedgerService converts asynchronous, possibly-duplicated payment
// confirmations into exactly-once aggregate effects.
//
// The financial write (ledger entry + aggregate counters) happens inside
// one transaction guarded by an idempotency check on the session id. The
// cosmetic post-steps (comment, donor feed, contact flip, receipt) run
// outside it, best effort: their failure never rolls back money.
type LedgerService struct {
	verifier       *SignatureVerifier
	txRunner       TxRunner
	donationRepo   domain.DonationRepository
	aggregateRepo  domain.AggregateRepository
	engagementRepo domain.EngagementRepository
	contactRepo    outreachdomain.ContactRepository
	publisher      messagebroker.Publisher
	receiptSubject string
	timeout        time.Duration
	logger         *slog.Logger
}

func NewLedgerService(
	verifier *SignatureVerifier,
	txRunner TxRunner,
	donationRepo domain.DonationRepository,
	aggregateRepo domain.AggregateRepository,
	engagementRepo domain.EngagementRepository,
	contactRepo outreachdomain.ContactRepository,
	publisher messagebroker.Publisher,
	receiptSubject string,
	timeout time.Duration,
	logger *slog.Logger,
) *LedgerService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LedgerService{
		verifier:       verifier,
		txRunner:       txRunner,
		donationRepo:   donationRepo,
		aggregateRepo:  aggregateRepo,
		engagementRepo: engagementRepo,
		contactRepo:    contactRepo,
		publisher:      publisher,
		receiptSubject: receiptSubject,
		timeout:        timeout,
		logger:         logger.With("service", "ledger"),
	}
}

// HandlePaymentWebhook verifies, parses and applies one payment
// confirmation. Safe to call any number of times with the same delivery:
// the first successful paid transition wins and every replay is a no-op.
func (s *LedgerService) HandlePaymentWebhook(ctx context.Context, rawPayload []byte, signature string) error {
	timer := prometheus.NewTimer(webhookDuration)
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.verifier.Verify(rawPayload, signature); err != nil {
		webhooksTotal.WithLabelValues("invalid_signature").Inc()
		s.logger.WarnContext(ctx, "Rejected webhook with invalid signature")
		return err
	}

	var event domain.PaymentEvent
	if err := json.Unmarshal(rawPayload, &event); err != nil {
		webhooksTotal.WithLabelValues("malformed").Inc()
		return fmt.Errorf("%w: %s", domain.ErrMalformedPayload, err.Error())
	}
	if event.EventType != domain.EventTypeSessionCompleted {
		webhooksTotal.WithLabelValues("ignored").Inc()
		s.logger.InfoContext(ctx, "Ignoring payment event type", "event_type", event.EventType)
		return nil
	}
	if event.SessionID == "" || event.Amount <= 0 {
		webhooksTotal.WithLabelValues("malformed").Inc()
		return fmt.Errorf("%w: missing session id or non-positive amount", domain.ErrMalformedPayload)
	}

	applied, err := s.applyFinancial(ctx, &event)
	if err != nil {
		webhooksTotal.WithLabelValues("error").Inc()
		return err
	}
	if !applied {
		// Duplicate delivery: the entry was already paid. No aggregate
		// increment, no post-steps, no receipt.
		webhooksTotal.WithLabelValues("duplicate").Inc()
		s.logger.InfoContext(ctx, "Duplicate payment confirmation, already applied", "session_id", event.SessionID)
		return nil
	}
	webhooksTotal.WithLabelValues("applied").Inc()
	s.logger.InfoContext(ctx, "Payment applied to ledger",
		"session_id", event.SessionID, "amount", event.Amount, "athlete_id", event.AthleteID)

	s.runPostSteps(ctx, &event)
	return nil
}

// applyFinancial runs the exactly-once financial transaction. Returns
// false when the entry was already paid.
func (s *LedgerService) applyFinancial(ctx context.Context, event *domain.PaymentEvent) (bool, error) {
	applied := false
	txErr := s.txRunner.WithTx(ctx, func(tx pgx.Tx) error {
		existing, err := s.donationRepo.GetForUpdateTx(ctx, tx, event.SessionID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to read ledger entry: %w", err)
		}
		if existing != nil && existing.Status == domain.DonationPaid {
			return nil // early exit, no double increment
		}

		now := time.Now().UTC()
		entry := &domain.Donation{
			ID:              event.SessionID,
			OrgID:           event.OrgID,
			CampaignID:      event.CampaignID,
			AthleteID:       event.AthleteID,
			Amount:          event.Amount,
			Currency:        event.Currency,
			DonorName:       event.DonorName,
			DonorEmail:      event.DonorEmail,
			Status:          domain.DonationPaid,
			SourceEventID:   event.EventID,
			SourceEventType: event.EventType,
			PaidAt:          &now,
		}
		if err := s.donationRepo.UpsertPaidTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("failed to write ledger entry: %w", err)
		}
		if err := s.aggregateRepo.IncrementTx(ctx, tx, event.CampaignID, event.AthleteID, event.Amount); err != nil {
			return fmt.Errorf("failed to increment aggregates: %w", err)
		}
		applied = true
		return nil
	})
	if txErr != nil {
		return false, txErr
	}
	return applied, nil
}

// runPostSteps performs the non-financial side effects. Each is at most
// once (keyed by the donation id) and best effort; errors are logged and
// swallowed so they can never undo the financial write.
func (s *LedgerService) runPostSteps(ctx context.Context, event *domain.PaymentEvent) {
	now := time.Now().UTC()

	if event.Comment != "" {
		err := s.engagementRepo.CreateComment(ctx, &domain.Comment{
			DonationID: event.SessionID,
			AthleteID:  event.AthleteID,
			DonorName:  event.DonorName,
			Body:       event.Comment,
			CreatedAt:  now,
		})
		if err != nil && !errors.Is(err, domain.ErrDuplicateEntry) {
			s.logger.WarnContext(ctx, "Failed to create donor comment", "error", err, "session_id", event.SessionID)
		}
	}

	err := s.engagementRepo.CreateFeedItem(ctx, &domain.FeedItem{
		DonationID: event.SessionID,
		CampaignID: event.CampaignID,
		AthleteID:  event.AthleteID,
		DonorName:  event.DonorName,
		Amount:     event.Amount,
		Currency:   event.Currency,
		CreatedAt:  now,
	})
	if err != nil && !errors.Is(err, domain.ErrDuplicateEntry) {
		s.logger.WarnContext(ctx, "Failed to create donor feed item", "error", err, "session_id", event.SessionID)
	}

	// Flip the matching contact to donated; this is what removes the
	// donor from all future sweeps.
	if event.DonorEmail != "" {
		emailKey := outreachdomain.NormalizeEmailKey(event.DonorEmail)
		err := s.contactRepo.MarkDonatedByEmailKey(ctx, event.AthleteID, emailKey)
		if err != nil && !errors.Is(err, outreachdomain.ErrNotFound) {
			s.logger.WarnContext(ctx, "Failed to flip contact to donated", "error", err, "session_id", event.SessionID)
		}
	}

	s.queueReceipt(ctx, event)
}

// queueReceipt publishes the receipt message at most once per donation: a
// receipt record keyed by the donation id claims the send, and a duplicate
// claim means a prior delivery already queued it.
func (s *LedgerService) queueReceipt(ctx context.Context, event *domain.PaymentEvent) {
	if err := s.engagementRepo.CreateReceiptRecord(ctx, event.SessionID); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return
		}
		s.logger.WarnContext(ctx, "Failed to claim receipt record", "error", err, "session_id", event.SessionID)
		return
	}

	msg, err := json.Marshal(map[string]any{
		"donation_id": event.SessionID,
		"donor_email": event.DonorEmail,
		"donor_name":  event.DonorName,
		"amount":      event.Amount,
		"currency":    event.Currency,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal receipt message", "error", err, "session_id", event.SessionID)
		return
	}
	if err := s.publisher.Publish(ctx, s.receiptSubject, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish receipt message", "error", err, "session_id", event.SessionID)
	}
}

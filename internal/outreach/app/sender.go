package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/adapters/mailer"
	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

// BatchRequest is one rendered message plus the recipient set for one
// athlete.
type BatchRequest struct {
	Org     *domain.Organization
	Athlete *domain.Athlete
	Phase   domain.PhaseKey
	Subject string
	Body    string
	// Recipients should already be filtered; the engine re-applies the
	// exclusions anyway.
	Recipients []*domain.Contact
	// Scheduled selects the scheduled-send exclusion set (donated contacts
	// excluded) instead of the manual one.
	Scheduled bool
	// AdvanceState, when set, is written to the athlete inside the same
	// commit as the contact and audit rows. Manual sends leave it nil and
	// never touch the schedule cursor.
	AdvanceState *domain.OutreachState
}

// SendFailure records one recipient that could not be delivered to.
type SendFailure struct {
	Email  string
	Reason string
}

// BatchResult reports per-recipient outcomes of a batch send.
type BatchResult struct {
	Sent   []*domain.Contact
	Failed []SendFailure
}

// BatchSendEngine dispatches a rendered message to a recipient set with
// bounded concurrency and commits the audit trail in a single transaction.
//
// This is an at-least-once boundary: if the process dies after dispatch but
// before the commit, a retry re-dispatches to recipients that already got
// the email. Duplicate email is the accepted cost; duplicate money is not
// (the payment ledger handles that side).
type BatchSendEngine struct {
	provider    mailer.Provider
	txRunner    TxRunner
	athleteRepo domain.AthleteRepository
	contactRepo domain.ContactRepository
	messageRepo domain.MessageRepository
	fromAddress string
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
}

func NewBatchSendEngine(
	provider mailer.Provider,
	txRunner TxRunner,
	athleteRepo domain.AthleteRepository,
	contactRepo domain.ContactRepository,
	messageRepo domain.MessageRepository,
	fromAddress string,
	concurrency int,
	timeout time.Duration,
	logger *slog.Logger,
) *BatchSendEngine {
	if concurrency <= 0 {
		concurrency = 8
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &BatchSendEngine{
		provider:    provider,
		txRunner:    txRunner,
		athleteRepo: athleteRepo,
		contactRepo: contactRepo,
		messageRepo: messageRepo,
		fromAddress: fromAddress,
		concurrency: concurrency,
		timeout:     timeout,
		logger:      logger.With("component", "send_engine"),
	}
}

type recipientOutcome struct {
	contact    *domain.Contact
	trackingID string
	err        error
}

// SendBatch dispatches to every eligible recipient concurrently, collects
// all outcomes (one recipient's failure never aborts the others), and on at
// least one success commits contact updates, audit records and the optional
// cursor advance atomically. Failed recipients are reported, not retried.
func (e *BatchSendEngine) SendBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	var eligible []*domain.Contact
	if req.Scheduled {
		eligible = EligibleForScheduled(req.Recipients)
	} else {
		eligible = EligibleForManual(req.Recipients)
	}
	if len(eligible) == 0 {
		batchesTotal.WithLabelValues("no_recipients").Inc()
		return nil, domain.ErrNoValidRecipients
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	outcomes := make([]recipientOutcome, len(eligible))
	var mu sync.Mutex

	g := &errgroup.Group{}
	g.SetLimit(e.concurrency)
	for i, contact := range eligible {
		i, contact := i, contact
		g.Go(func() error {
			trackingID := uuid.New().String()
			err := e.provider.Send(ctx, mailer.OutboundEmail{
				To:         contact.Email,
				ToName:     contact.Name,
				From:       e.fromAddress,
				Subject:    req.Subject,
				Body:       req.Body,
				TrackingID: trackingID,
			})
			mu.Lock()
			outcomes[i] = recipientOutcome{contact: contact, trackingID: trackingID, err: err}
			mu.Unlock()
			// Never propagate: one failure must not cancel the group.
			return nil
		})
	}
	_ = g.Wait()

	now := time.Now().UTC()
	result := &BatchResult{}
	for _, oc := range outcomes {
		if oc.err != nil {
			sendsTotal.WithLabelValues(string(req.Phase), "failure").Inc()
			e.logger.WarnContext(ctx, "Recipient send failed",
				"athlete_id", req.Athlete.ID, "phase", req.Phase,
				"email", oc.contact.Email, "error", oc.err)
			result.Failed = append(result.Failed, SendFailure{
				Email:  oc.contact.Email,
				Reason: oc.err.Error(),
			})
			continue
		}
		sendsTotal.WithLabelValues(string(req.Phase), "success").Inc()
		result.Sent = append(result.Sent, oc.contact)
	}

	if len(result.Sent) == 0 {
		batchesTotal.WithLabelValues("all_failed").Inc()
		e.logger.ErrorContext(ctx, "All sends failed, nothing committed",
			"athlete_id", req.Athlete.ID, "phase", req.Phase, "failed", len(result.Failed))
		return result, domain.ErrAllSendsFailed
	}

	commitErr := e.txRunner.WithTx(ctx, func(tx pgx.Tx) error {
		for _, oc := range outcomes {
			msg := &domain.Message{
				ID:         uuid.New(),
				OrgID:      req.Org.ID,
				AthleteID:  req.Athlete.ID,
				ContactID:  oc.contact.ID,
				Email:      oc.contact.Email,
				Phase:      req.Phase,
				Subject:    req.Subject,
				Succeeded:  oc.err == nil,
				TrackingID: oc.trackingID,
				SentAt:     now,
			}
			if oc.err != nil {
				msg.Error = oc.err.Error()
			}
			if err := e.messageRepo.CreateTx(ctx, tx, msg); err != nil {
				return fmt.Errorf("failed to record audit message: %w", err)
			}
			// Terminal statuses (donated, bounced, complained) are never
			// downgraded to sent; a manual send may legitimately reach a
			// donated contact without resurrecting them for future sweeps.
			if oc.err == nil && !oc.contact.Suppressed() && !oc.contact.Converted() {
				if err := e.contactRepo.MarkSentTx(ctx, tx, oc.contact.ID, req.Phase, now); err != nil {
					return fmt.Errorf("failed to mark contact sent: %w", err)
				}
			}
		}
		if req.AdvanceState != nil {
			if err := e.athleteRepo.UpdateOutreachStateTx(ctx, tx, req.Athlete.ID, *req.AdvanceState); err != nil {
				return fmt.Errorf("failed to advance outreach state: %w", err)
			}
		}
		return nil
	})
	if commitErr != nil {
		return result, fmt.Errorf("batch commit failed: %w", commitErr)
	}

	batchesTotal.WithLabelValues("committed").Inc()
	if len(result.Failed) > 0 {
		e.logger.WarnContext(ctx, "Batch committed with partial failures",
			"athlete_id", req.Athlete.ID, "phase", req.Phase,
			"sent", len(result.Sent), "failed", len(result.Failed))
	} else {
		e.logger.InfoContext(ctx, "Batch committed",
			"athlete_id", req.Athlete.ID, "phase", req.Phase, "sent", len(result.Sent))
	}
	return result, nil
}

package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/adapters/paymentgateway"
	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/domain"
)

// Mismatch pairs a ledger entry with a gateway session that disagree on
// the amount.
type Mismatch struct {
	Donation *domain.Donation           `json:"donation"`
	Session  paymentgateway.PaidSession `json:"session"`
}

// ReconciliationReport is the read-only diff between the gateway's record
// of completed sessions and the local ledger for one window.
type ReconciliationReport struct {
	From       time.Time                    `json:"from"`
	To         time.Time                    `json:"to"`
	Missing    []paymentgateway.PaidSession `json:"missing,omitempty"`    // gateway has it, ledger does not
	Extra      []*domain.Donation           `json:"extra,omitempty"`      // ledger has it, gateway does not
	Mismatched []Mismatch                   `json:"mismatched,omitempty"` // amounts disagree
}

// Clean reports whether the window reconciled without discrepancies.
func (r *ReconciliationReport) Clean() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0 && len(r.Mismatched) == 0
}

// Reconciler diffs the payment gateway against the ledger. It only
// reports; it never writes, and a missing session is expected to arrive
// through webhook redelivery rather than be backfilled here.
type Reconciler struct {
	gateway      paymentgateway.Client
	donationRepo domain.DonationRepository
	logger       *slog.Logger
}

func NewReconciler(gateway paymentgateway.Client, donationRepo domain.DonationRepository, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		gateway:      gateway,
		donationRepo: donationRepo,
		logger:       logger.With("component", "reconciler"),
	}
}

// Reconcile compares both sides over [from, to), keyed by session id.
func (r *Reconciler) Reconcile(ctx context.Context, from, to time.Time) (*ReconciliationReport, error) {
	sessions, err := r.gateway.ListPaidSessions(ctx, from, to)
	if err != nil {
		return nil, err
	}
	donations, err := r.donationRepo.ListPaidInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Donation, len(donations))
	for _, d := range donations {
		byID[d.ID] = d
	}

	report := &ReconciliationReport{From: from, To: to}
	matched := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		d, ok := byID[s.SessionID]
		if !ok {
			report.Missing = append(report.Missing, s)
			continue
		}
		matched[s.SessionID] = true
		if d.Amount != s.Amount {
			report.Mismatched = append(report.Mismatched, Mismatch{Donation: d, Session: s})
		}
	}
	for _, d := range donations {
		if !matched[d.ID] {
			report.Extra = append(report.Extra, d)
		}
	}

	reconciliationDiscrepancies.WithLabelValues("missing").Set(float64(len(report.Missing)))
	reconciliationDiscrepancies.WithLabelValues("extra").Set(float64(len(report.Extra)))
	reconciliationDiscrepancies.WithLabelValues("mismatched").Set(float64(len(report.Mismatched)))

	if report.Clean() {
		r.logger.InfoContext(ctx, "Reconciliation clean", "from", from, "to", to, "sessions", len(sessions))
	} else {
		r.logger.WarnContext(ctx, "Reconciliation found discrepancies",
			"from", from, "to", to,
			"missing", len(report.Missing), "extra", len(report.Extra), "mismatched", len(report.Mismatched))
	}
	return report, nil
}

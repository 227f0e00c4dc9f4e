package paymentgateway

import (
	"context"
	"time"
)

// PaidSession is one completed checkout session as the gateway reports it.
type PaidSession struct {
	SessionID string    `json:"session_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	PaidAt    time.Time `json:"paid_at"`
}

// Client reads the gateway's record of completed sessions. Reconciliation
// compares it against the local ledger.
type Client interface {
	// ListPaidSessions returns sessions completed in [from, to).
	ListPaidSessions(ctx context.Context, from, to time.Time) ([]PaidSession, error)
}

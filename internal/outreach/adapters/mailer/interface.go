package mailer

import "context"

// OutboundEmail is one message handed to the delivery provider. TrackingID
// is opaque metadata the provider echoes back on delivery-status callbacks.
type OutboundEmail struct {
	To         string
	ToName     string
	From       string
	Subject    string
	Body       string
	TrackingID string
}

// Provider sends a single email. Implementations must be safe for
// concurrent use; the send engine fans out across recipients.
type Provider interface {
	Send(ctx context.Context, email OutboundEmail) error
}

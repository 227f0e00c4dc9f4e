package domain

import "errors"

var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicateEntry indicates a unique constraint violation. Best-effort
	// post-steps treat it as "already done" and move on.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrInvalidSignature indicates the webhook signature did not verify.
	// Rejected at the boundary with no state change and no retry.
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	// ErrMalformedPayload indicates the webhook body could not be parsed
	// after the signature verified.
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

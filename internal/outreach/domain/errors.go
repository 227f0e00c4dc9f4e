package domain

import "errors"

var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicateEntry indicates a unique constraint violation.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrNoValidRecipients indicates a send was requested with no eligible
	// recipients after filtering. Surfaced to the caller, never retried.
	ErrNoValidRecipients = errors.New("no valid recipients")
	// ErrAllSendsFailed indicates every recipient in a batch failed; nothing
	// was committed and the phase cursor must not advance.
	ErrAllSendsFailed = errors.New("all sends failed")
)

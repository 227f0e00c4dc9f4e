package app

import (
	"net/mail"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

// The recipient filter is advisory: it never mutates state, and the send
// engine re-applies the same exclusions before dispatch.

// validAddress reports whether the contact's email parses as a standard
// address.
func validAddress(c *domain.Contact) bool {
	if c.Email == "" {
		return false
	}
	addr, err := mail.ParseAddress(c.Email)
	return err == nil && addr.Address == c.Email
}

// EligibleForScheduled returns the contacts a scheduled sweep may target:
// valid address, not suppressed (bounced/complained), not yet converted.
func EligibleForScheduled(contacts []*domain.Contact) []*domain.Contact {
	var out []*domain.Contact
	for _, c := range contacts {
		if !validAddress(c) || c.Suppressed() || c.Converted() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// EligibleForManual returns the contacts a caller-initiated send may
// target. Donated contacts stay eligible here: the caller pre-selected
// them and only terminal delivery states (bounced/complained) are excluded.
func EligibleForManual(contacts []*domain.Contact) []*domain.Contact {
	var out []*domain.Contact
	for _, c := range contacts {
		if !validAddress(c) || c.Suppressed() {
			continue
		}
		out = append(out, c)
	}
	return out
}

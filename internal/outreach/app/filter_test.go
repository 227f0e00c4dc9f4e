package app

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

func contact(email string, status domain.ContactStatus) *domain.Contact {
	return &domain.Contact{
		ID:       uuid.New(),
		Email:    email,
		EmailKey: domain.NormalizeEmailKey(email),
		Status:   status,
	}
}

func TestEligibleForScheduled(t *testing.T) {
	contacts := []*domain.Contact{
		contact("good@example.com", domain.ContactDraft),
		contact("resend@example.com", domain.ContactSent),
		contact("not-an-address", domain.ContactDraft),
		contact("", domain.ContactDraft),
		contact("gone@example.com", domain.ContactBounced),
		contact("angry@example.com", domain.ContactComplained),
		contact("paid@example.com", domain.ContactDonated),
	}

	got := EligibleForScheduled(contacts)

	var emails []string
	for _, c := range got {
		emails = append(emails, c.Email)
	}
	assert.Equal(t, []string{"good@example.com", "resend@example.com"}, emails)
}

func TestEligibleForManualKeepsDonated(t *testing.T) {
	contacts := []*domain.Contact{
		contact("good@example.com", domain.ContactDraft),
		contact("paid@example.com", domain.ContactDonated),
		contact("gone@example.com", domain.ContactBounced),
		contact("angry@example.com", domain.ContactComplained),
	}

	got := EligibleForManual(contacts)

	var emails []string
	for _, c := range got {
		emails = append(emails, c.Email)
	}
	assert.Equal(t, []string{"good@example.com", "paid@example.com"}, emails)
}

func TestFilterNeverMutates(t *testing.T) {
	c := contact("paid@example.com", domain.ContactDonated)
	EligibleForScheduled([]*domain.Contact{c})
	assert.Equal(t, domain.ContactDonated, c.Status)
}

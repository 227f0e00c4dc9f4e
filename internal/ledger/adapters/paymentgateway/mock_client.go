package paymentgateway

import (
	"context"
	"time"
)

// MockClient serves a fixed session list, for tests and local runs.
type MockClient struct {
	Sessions []PaidSession
	Err      error
}

func (m *MockClient) ListPaidSessions(_ context.Context, from, to time.Time) ([]PaidSession, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []PaidSession
	for _, s := range m.Sessions {
		if !s.PaidAt.Before(from) && s.PaidAt.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

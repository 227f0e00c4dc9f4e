package mailer

import (
	"context"
	"log/slog"
	"sync"
)

// MockProvider records sends and fails addresses on demand. Used in tests
// and local development.
type MockProvider struct {
	logger *slog.Logger

	mu         sync.Mutex
	sent       []OutboundEmail
	failByAddr map[string]error
}

func NewMockProvider(logger *slog.Logger) *MockProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockProvider{
		logger:     logger.With("provider", "mock_mailer"),
		failByAddr: make(map[string]error),
	}
}

// FailFor makes Send return err for the given address.
func (p *MockProvider) FailFor(addr string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failByAddr[addr] = err
}

// Sent returns a copy of every successfully sent email.
func (p *MockProvider) Sent() []OutboundEmail {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]OutboundEmail, len(p.sent))
	copy(out, p.sent)
	return out
}

func (p *MockProvider) Send(ctx context.Context, email OutboundEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.failByAddr[email.To]; ok {
		p.logger.WarnContext(ctx, "MockProvider: simulated send failure", "to", email.To)
		return err
	}
	p.sent = append(p.sent, email)
	return nil
}

package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

type MockAthleteRepository struct {
	mock.Mock
}

func (m *MockAthleteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Athlete, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) ListAutoSendEnabled(ctx context.Context) ([]*domain.Athlete, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) UpdateOutreachState(ctx context.Context, id uuid.UUID, state domain.OutreachState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

func (m *MockAthleteRepository) UpdateOutreachStateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, state domain.OutreachState) error {
	args := m.Called(ctx, tx, id, state)
	return args.Error(0)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) ListByAthlete(ctx context.Context, athleteID uuid.UUID) ([]*domain.Contact, error) {
	args := m.Called(ctx, athleteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) GetByIDs(ctx context.Context, athleteID uuid.UUID, ids []uuid.UUID) ([]*domain.Contact, error) {
	args := m.Called(ctx, athleteID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) MarkSentTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, phase domain.PhaseKey, sentAt time.Time) error {
	args := m.Called(ctx, tx, id, phase, sentAt)
	return args.Error(0)
}

func (m *MockContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockContactRepository) MarkDonatedByEmailKey(ctx context.Context, athleteID uuid.UUID, emailKey string) error {
	args := m.Called(ctx, athleteID, emailKey)
	return args.Error(0)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) CreateTx(ctx context.Context, tx pgx.Tx, msg *domain.Message) error {
	args := m.Called(ctx, tx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Message, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

// fakeTxRunner executes the commit function directly; the nil tx is fine
// because the mocked repositories never touch it.
type fakeTxRunner struct {
	err   error
	calls int
}

func (r *fakeTxRunner) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	return fn(nil)
}

// mockBatchSender stands in for the send engine in sweeper tests.
type mockBatchSender struct {
	mock.Mock
}

func (m *mockBatchSender) SendBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BatchResult), args.Error(1)
}

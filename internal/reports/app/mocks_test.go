package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/domain"
	outreachdomain "github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

type MockOrgLister struct {
	mock.Mock
}

func (m *MockOrgLister) ListAll(ctx context.Context) ([]*outreachdomain.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outreachdomain.Organization), args.Error(1)
}

type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*domain.Donation, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *MockDonationRepository) UpsertPaidTx(ctx context.Context, tx pgx.Tx, d *domain.Donation) error {
	args := m.Called(ctx, tx, d)
	return args.Error(0)
}

func (m *MockDonationRepository) ListPaidInRange(ctx context.Context, from, to time.Time) ([]*domain.Donation, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Donation), args.Error(1)
}

func (m *MockDonationRepository) SumPaidForOrgDay(ctx context.Context, orgID uuid.UUID, dayStart, dayEnd time.Time) (int64, int, error) {
	args := m.Called(ctx, orgID, dayStart, dayEnd)
	return args.Get(0).(int64), args.Int(1), args.Error(2)
}

type MockRollupRepository struct {
	mock.Mock
}

func (m *MockRollupRepository) InsertIfAbsent(ctx context.Context, r *domain.DailyRollup) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}

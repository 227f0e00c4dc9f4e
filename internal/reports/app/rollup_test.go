package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/domain"
	outreachdomain "github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

func TestRollupUsesOrgLocalDay(t *testing.T) {
	orgID := uuid.New()
	orgs := &MockOrgLister{}
	orgs.On("ListAll", mock.Anything).Return([]*outreachdomain.Organization{
		{ID: orgID, Timezone: "America/Los_Angeles"},
	}, nil)

	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	wantStart := time.Date(2024, 3, 4, 0, 0, 0, 0, la)
	wantEnd := time.Date(2024, 3, 5, 0, 0, 0, 0, la)

	donationRepo := &MockDonationRepository{}
	donationRepo.On("SumPaidForOrgDay", mock.Anything, orgID,
		mock.MatchedBy(func(ts time.Time) bool { return ts.Equal(wantStart) }),
		mock.MatchedBy(func(ts time.Time) bool { return ts.Equal(wantEnd) }),
	).Return(int64(4200), 3, nil)

	rollupRepo := &MockRollupRepository{}
	rollupRepo.On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(r *domain.DailyRollup) bool {
		return r.OrgID == orgID && r.Day.Equal(wantStart) && r.TotalRaised == 4200 && r.DonationCount == 3
	})).Return(true, nil)

	job := NewRollupJob(orgs, donationRepo, rollupRepo, discardLogger())
	// 10:00 on March 5 in LA; "yesterday" is March 4 local.
	job.now = func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, la) }

	require.NoError(t, job.Run(context.Background()))
	rollupRepo.AssertExpectations(t)
}

func TestRollupZeroDonationDayStillRecorded(t *testing.T) {
	orgID := uuid.New()
	orgs := &MockOrgLister{}
	orgs.On("ListAll", mock.Anything).Return([]*outreachdomain.Organization{{ID: orgID}}, nil)

	donationRepo := &MockDonationRepository{}
	donationRepo.On("SumPaidForOrgDay", mock.Anything, orgID, mock.Anything, mock.Anything).
		Return(int64(0), 0, nil)

	rollupRepo := &MockRollupRepository{}
	rollupRepo.On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(r *domain.DailyRollup) bool {
		return r.TotalRaised == 0 && r.DonationCount == 0
	})).Return(true, nil)

	job := NewRollupJob(orgs, donationRepo, rollupRepo, discardLogger())

	require.NoError(t, job.Run(context.Background()))
	rollupRepo.AssertExpectations(t)
}

func TestRollupRerunDoesNotOverwrite(t *testing.T) {
	orgID := uuid.New()
	orgs := &MockOrgLister{}
	orgs.On("ListAll", mock.Anything).Return([]*outreachdomain.Organization{{ID: orgID}}, nil)

	donationRepo := &MockDonationRepository{}
	donationRepo.On("SumPaidForOrgDay", mock.Anything, orgID, mock.Anything, mock.Anything).
		Return(int64(999), 1, nil)

	rollupRepo := &MockRollupRepository{}
	rollupRepo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(false, nil)

	job := NewRollupJob(orgs, donationRepo, rollupRepo, discardLogger())

	// Second run of the same day: the existing row stands, no error raised.
	require.NoError(t, job.Run(context.Background()))
	rollupRepo.AssertNumberOfCalls(t, "InsertIfAbsent", 1)
}

func TestRollupOneOrgFailureDoesNotAbortOthers(t *testing.T) {
	org1 := uuid.New()
	org2 := uuid.New()
	orgs := &MockOrgLister{}
	orgs.On("ListAll", mock.Anything).Return([]*outreachdomain.Organization{
		{ID: org1}, {ID: org2},
	}, nil)

	donationRepo := &MockDonationRepository{}
	donationRepo.On("SumPaidForOrgDay", mock.Anything, org1, mock.Anything, mock.Anything).
		Return(int64(0), 0, assert.AnError)
	donationRepo.On("SumPaidForOrgDay", mock.Anything, org2, mock.Anything, mock.Anything).
		Return(int64(100), 1, nil)

	rollupRepo := &MockRollupRepository{}
	rollupRepo.On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(r *domain.DailyRollup) bool {
		return r.OrgID == org2
	})).Return(true, nil)

	job := NewRollupJob(orgs, donationRepo, rollupRepo, discardLogger())

	require.NoError(t, job.Run(context.Background()))
	rollupRepo.AssertExpectations(t)
}

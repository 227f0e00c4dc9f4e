package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/domain"
	outreachdomain "github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

// orgLister is the slice of the organization store the rollup job needs.
type orgLister interface {
	ListAll(ctx context.Context) ([]*outreachdomain.Organization, error)
}

// RollupJob materializes one write-once daily total per organization. The
// day boundary is the organization's local calendar day, so two orgs in
// different zones rolling up "yesterday" cover different UTC windows.
type RollupJob struct {
	orgs         orgLister
	donationRepo domain.DonationRepository
	rollupRepo   domain.RollupRepository
	logger       *slog.Logger
	now          func() time.Time
}

func NewRollupJob(orgs orgLister, donationRepo domain.DonationRepository, rollupRepo domain.RollupRepository, logger *slog.Logger) *RollupJob {
	return &RollupJob{
		orgs:         orgs,
		donationRepo: donationRepo,
		rollupRepo:   rollupRepo,
		logger:       logger.With("component", "rollup_job"),
		now:          time.Now,
	}
}

// Run materializes yesterday's rollup for every organization. Zero-donation
// days are recorded too. A failure on one org is logged and the rest still
// run.
func (j *RollupJob) Run(ctx context.Context) error {
	orgs, err := j.orgs.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, org := range orgs {
		if err := j.rollupOrg(ctx, org); err != nil {
			rollupsWrittenTotal.WithLabelValues("error").Inc()
			j.logger.ErrorContext(ctx, "Rollup failed for organization", "error", err, "org_id", org.ID)
		}
	}
	return nil
}

func (j *RollupJob) rollupOrg(ctx context.Context, org *outreachdomain.Organization) error {
	loc := org.Location()
	now := j.now().In(loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, loc)
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	total, count, err := j.donationRepo.SumPaidForOrgDay(ctx, org.ID, dayStart, dayEnd)
	if err != nil {
		return err
	}

	inserted, err := j.rollupRepo.InsertIfAbsent(ctx, &domain.DailyRollup{
		OrgID:         org.ID,
		Day:           dayStart,
		TotalRaised:   total,
		DonationCount: count,
	})
	if err != nil {
		return err
	}
	if !inserted {
		rollupsWrittenTotal.WithLabelValues("exists").Inc()
		j.logger.DebugContext(ctx, "Rollup already recorded", "org_id", org.ID, "day", dayStart)
		return nil
	}
	rollupsWrittenTotal.WithLabelValues("written").Inc()
	j.logger.InfoContext(ctx, "Rollup recorded",
		"org_id", org.ID, "day", dayStart, "total_raised", total, "donation_count", count)
	return nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/rendering"
	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/schedule"
)

// batchSender is the slice of the send engine the sweeper uses.
type batchSender interface {
	SendBatch(ctx context.Context, req BatchRequest) (*BatchResult, error)
}

// DripSweeper walks every auto-send athlete on a fixed interval, fires the
// due phase if any, and maintains the persisted outreach cursor. Athletes
// are processed sequentially to bound load; the fan-out happens inside the
// send engine per athlete.
type DripSweeper struct {
	orgRepo       domain.OrganizationRepository
	campaignRepo  domain.CampaignRepository
	athleteRepo   domain.AthleteRepository
	contactRepo   domain.ContactRepository
	sender        batchSender
	donateURLBase string
	logger        *slog.Logger
	now           func() time.Time
}

func NewDripSweeper(
	orgRepo domain.OrganizationRepository,
	campaignRepo domain.CampaignRepository,
	athleteRepo domain.AthleteRepository,
	contactRepo domain.ContactRepository,
	sender batchSender,
	donateURLBase string,
	logger *slog.Logger,
) *DripSweeper {
	return &DripSweeper{
		orgRepo:       orgRepo,
		campaignRepo:  campaignRepo,
		athleteRepo:   athleteRepo,
		contactRepo:   contactRepo,
		sender:        sender,
		donateURLBase: donateURLBase,
		logger:        logger.With("component", "drip_sweeper"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Sweep runs one pass over all auto-send athletes. Per-athlete failures are
// logged and skipped; only a failure to list the working set is critical.
// Organizations are fetched fresh every sweep, never cached across sweeps.
func (s *DripSweeper) Sweep(ctx context.Context) (processed int, criticalErr error) {
	timer := prometheus.NewTimer(sweepDuration)
	defer timer.ObserveDuration()

	athletes, err := s.athleteRepo.ListAutoSendEnabled(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list auto-send athletes: %w", err)
	}
	if len(athletes) == 0 {
		return 0, nil
	}

	// Org settings snapshot for this sweep only.
	orgs := make(map[uuid.UUID]*domain.Organization)

	for _, athlete := range athletes {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		processed++
		state, err := s.sweepAthlete(ctx, athlete, orgs)
		if err != nil {
			sweepAthletesTotal.WithLabelValues("error").Inc()
			s.logger.ErrorContext(ctx, "Athlete sweep failed, continuing",
				"athlete_id", athlete.ID, "error", err)
			continue
		}
		sweepAthletesTotal.WithLabelValues(string(state)).Inc()
	}
	return processed, nil
}

func (s *DripSweeper) sweepAthlete(
	ctx context.Context,
	athlete *domain.Athlete,
	orgs map[uuid.UUID]*domain.Organization,
) (domain.SweepState, error) {
	now := s.now()

	org, ok := orgs[athlete.OrgID]
	if !ok {
		var err error
		org, err = s.orgRepo.GetByID(ctx, athlete.OrgID)
		if err != nil {
			return "", fmt.Errorf("failed to load organization: %w", err)
		}
		orgs[athlete.OrgID] = org
	}
	if !org.OutreachEnabled {
		return domain.SweepNoSchedule, nil
	}

	campaign, err := s.campaignRepo.GetByID(ctx, athlete.CampaignID)
	if err != nil {
		return "", fmt.Errorf("failed to load campaign: %w", err)
	}
	if campaign.StartDate == nil || campaign.Ended(now) {
		return domain.SweepNoSchedule, nil
	}

	sched := schedule.Compute(campaign.StartDate, org.Location())
	if len(sched) == 0 {
		return domain.SweepNoSchedule, nil
	}

	last := athlete.Outreach.LastPhaseSent
	due, isDue := schedule.DuePhase(sched, last, now)
	if !isDue {
		if next, hasNext := schedule.NextPending(sched, last, now); hasNext {
			return domain.SweepWaiting, s.persistNext(ctx, athlete, &next.Key, &next.At)
		}
		return domain.SweepExhausted, s.persistNext(ctx, athlete, nil, nil)
	}

	subject, body := s.renderPhase(org, campaign, athlete, due.Key)

	contacts, err := s.contactRepo.ListByAthlete(ctx, athlete.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load contacts: %w", err)
	}
	eligible := EligibleForScheduled(contacts)

	// Cursor advance rides the batch commit: it only lands when at least
	// one recipient was delivered to.
	advanced := domain.OutreachState{
		AutoSendEnabled: athlete.Outreach.AutoSendEnabled,
		LastPhaseSent:   &due.Key,
	}
	if next, hasNext := schedule.NextPending(sched, &due.Key, now); hasNext {
		advanced.NextPhase = &next.Key
		advanced.NextSendAt = &next.At
	}

	_, err = s.sender.SendBatch(ctx, BatchRequest{
		Org:          org,
		Athlete:      athlete,
		Phase:        due.Key,
		Subject:      subject,
		Body:         body,
		Recipients:   eligible,
		Scheduled:    true,
		AdvanceState: &advanced,
	})
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "Phase fired",
			"athlete_id", athlete.ID, "phase", due.Key)
		return domain.SweepDue, nil
	case errors.Is(err, domain.ErrNoValidRecipients):
		// No eligible contacts yet (import may still be running): the
		// phase stays due and is retried on the next sweep.
		s.logger.InfoContext(ctx, "Phase due but no eligible recipients, will retry",
			"athlete_id", athlete.ID, "phase", due.Key)
		return domain.SweepDue, nil
	case errors.Is(err, domain.ErrAllSendsFailed):
		// Cursor not advanced: a provider outage delays a phase, it never
		// skips one.
		s.logger.WarnContext(ctx, "Phase due but every send failed, will retry",
			"athlete_id", athlete.ID, "phase", due.Key)
		return domain.SweepDue, nil
	default:
		return "", fmt.Errorf("send engine failed for phase %s: %w", due.Key, err)
	}
}

// persistNext updates the observability fields when they changed.
func (s *DripSweeper) persistNext(ctx context.Context, athlete *domain.Athlete, phase *domain.PhaseKey, at *time.Time) error {
	cur := athlete.Outreach
	if phaseEqual(cur.NextPhase, phase) && timeEqual(cur.NextSendAt, at) {
		return nil
	}
	state := domain.OutreachState{
		AutoSendEnabled: cur.AutoSendEnabled,
		LastPhaseSent:   cur.LastPhaseSent,
		NextPhase:       phase,
		NextSendAt:      at,
	}
	if err := s.athleteRepo.UpdateOutreachState(ctx, athlete.ID, state); err != nil {
		return fmt.Errorf("failed to persist next-phase fields: %w", err)
	}
	athlete.Outreach = state
	return nil
}

// renderPhase resolves the template chain (athlete override, org per-phase,
// org default, built-in) and renders subject and body.
func (s *DripSweeper) renderPhase(
	org *domain.Organization,
	campaign *domain.Campaign,
	athlete *domain.Athlete,
	phase domain.PhaseKey,
) (subject, body string) {
	tmpl := rendering.DefaultTemplate
	switch {
	case athlete.PhaseTemplates[phase] != "":
		tmpl = athlete.PhaseTemplates[phase]
	case org.PhaseTemplates[phase] != "":
		tmpl = org.PhaseTemplates[phase]
	case org.DefaultTemplate != "":
		tmpl = org.DefaultTemplate
	}

	subjectTmpl := rendering.DefaultSubject
	if org.PhaseSubjects[phase] != "" {
		subjectTmpl = org.PhaseSubjects[phase]
	}

	data := rendering.Data{
		AthleteName:     athlete.FullName(),
		TeamName:        athlete.TeamName,
		CampaignName:    campaign.Name,
		DonateURL:       fmt.Sprintf("%s/%s", s.donateURLBase, athlete.ID),
		PersonalMessage: athlete.PersonalMessage,
	}
	return rendering.RenderSubject(subjectTmpl, data), rendering.Render(tmpl, data)
}

func phaseEqual(a, b *domain.PhaseKey) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

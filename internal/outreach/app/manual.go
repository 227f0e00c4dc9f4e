package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/rendering"
)

// ManualSender runs caller-initiated sends from the admin/athlete UI. It
// uses the same engine as the sweep but bypasses the phase cursor: the
// phase label is "manual" and the automatic schedule is never touched.
type ManualSender struct {
	orgRepo       domain.OrganizationRepository
	campaignRepo  domain.CampaignRepository
	athleteRepo   domain.AthleteRepository
	contactRepo   domain.ContactRepository
	sender        batchSender
	donateURLBase string
	logger        *slog.Logger
}

func NewManualSender(
	orgRepo domain.OrganizationRepository,
	campaignRepo domain.CampaignRepository,
	athleteRepo domain.AthleteRepository,
	contactRepo domain.ContactRepository,
	sender batchSender,
	donateURLBase string,
	logger *slog.Logger,
) *ManualSender {
	return &ManualSender{
		orgRepo:       orgRepo,
		campaignRepo:  campaignRepo,
		athleteRepo:   athleteRepo,
		contactRepo:   contactRepo,
		sender:        sender,
		donateURLBase: donateURLBase,
		logger:        logger.With("component", "manual_sender"),
	}
}

// Send dispatches to the caller-supplied contact ids. Custom subject/body
// are optional; when empty the organization's default template chain is
// used, rendered with the athlete's tokens.
func (s *ManualSender) Send(ctx context.Context, athleteID uuid.UUID, contactIDs []uuid.UUID, subject, body string) (*BatchResult, error) {
	athlete, err := s.athleteRepo.GetByID(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load athlete: %w", err)
	}
	org, err := s.orgRepo.GetByID(ctx, athlete.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}
	campaign, err := s.campaignRepo.GetByID(ctx, athlete.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}

	contacts, err := s.contactRepo.GetByIDs(ctx, athleteID, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	if body == "" {
		body = org.DefaultTemplate
		if body == "" {
			body = rendering.DefaultTemplate
		}
	}
	if subject == "" {
		subject = rendering.DefaultSubject
	}
	data := rendering.Data{
		AthleteName:     athlete.FullName(),
		TeamName:        athlete.TeamName,
		CampaignName:    campaign.Name,
		DonateURL:       fmt.Sprintf("%s/%s", s.donateURLBase, athlete.ID),
		PersonalMessage: athlete.PersonalMessage,
	}

	return s.sender.SendBatch(ctx, BatchRequest{
		Org:        org,
		Athlete:    athlete,
		Phase:      domain.PhaseManual,
		Subject:    rendering.RenderSubject(subject, data),
		Body:       rendering.Render(body, data),
		Recipients: contacts,
		Scheduled:  false,
	})
}

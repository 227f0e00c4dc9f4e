package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

type PgAthleteRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgAthleteRepository(db *pgxpool.Pool, logger *slog.Logger) *PgAthleteRepository {
	return &PgAthleteRepository{db: db, logger: logger}
}

const athleteColumns = `
	id, org_id, campaign_id, first_name, last_name, team_name,
	personal_message, phase_templates, auto_send_enabled, last_phase_sent,
	next_phase, next_send_at, created_at, updated_at
`

func (r *PgAthleteRepository) scanAthlete(row pgx.Row) (*domain.Athlete, error) {
	a := &domain.Athlete{}
	var templatesJSON []byte
	var lastPhase, nextPhase *string
	err := row.Scan(
		&a.ID, &a.OrgID, &a.CampaignID, &a.FirstName, &a.LastName, &a.TeamName,
		&a.PersonalMessage, &templatesJSON, &a.Outreach.AutoSendEnabled,
		&lastPhase, &nextPhase, &a.Outreach.NextSendAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(templatesJSON) > 0 {
		if err := json.Unmarshal(templatesJSON, &a.PhaseTemplates); err != nil {
			return nil, fmt.Errorf("failed to unmarshal athlete phase_templates: %w", err)
		}
	}
	if lastPhase != nil {
		k := domain.PhaseKey(*lastPhase)
		a.Outreach.LastPhaseSent = &k
	}
	if nextPhase != nil {
		k := domain.PhaseKey(*nextPhase)
		a.Outreach.NextPhase = &k
	}
	return a, nil
}

func (r *PgAthleteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Athlete, error) {
	query := `SELECT ` + athleteColumns + ` FROM athletes WHERE id = $1`
	a, err := r.scanAthlete(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting athlete by ID", "error", err, "athlete_id", id)
		return nil, err
	}
	return a, nil
}

func (r *PgAthleteRepository) ListAutoSendEnabled(ctx context.Context) ([]*domain.Athlete, error) {
	query := `
		SELECT ` + athleteColumns + `
		FROM athletes
		WHERE auto_send_enabled
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing auto-send athletes", "error", err)
		return nil, err
	}
	defer rows.Close()

	var athletes []*domain.Athlete
	for rows.Next() {
		a, err := r.scanAthlete(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error scanning athlete row", "error", err)
			return nil, err
		}
		athletes = append(athletes, a)
	}
	return athletes, rows.Err()
}

const updateOutreachStateSQL = `
	UPDATE athletes
	SET auto_send_enabled = $2, last_phase_sent = $3, next_phase = $4,
	    next_send_at = $5, updated_at = $6
	WHERE id = $1
`

func outreachStateArgs(id uuid.UUID, state domain.OutreachState) []any {
	var lastPhase, nextPhase *string
	if state.LastPhaseSent != nil {
		s := string(*state.LastPhaseSent)
		lastPhase = &s
	}
	if state.NextPhase != nil {
		s := string(*state.NextPhase)
		nextPhase = &s
	}
	return []any{id, state.AutoSendEnabled, lastPhase, nextPhase, state.NextSendAt, time.Now().UTC()}
}

func (r *PgAthleteRepository) UpdateOutreachState(ctx context.Context, id uuid.UUID, state domain.OutreachState) error {
	tag, err := r.db.Exec(ctx, updateOutreachStateSQL, outreachStateArgs(id, state)...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating outreach state", "error", err, "athlete_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgAthleteRepository) UpdateOutreachStateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, state domain.OutreachState) error {
	tag, err := tx.Exec(ctx, updateOutreachStateSQL, outreachStateArgs(id, state)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

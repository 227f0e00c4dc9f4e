package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

type PgOrganizationRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgOrganizationRepository(db *pgxpool.Pool, logger *slog.Logger) *PgOrganizationRepository {
	return &PgOrganizationRepository{db: db, logger: logger}
}

func (r *PgOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	query := `
		SELECT id, name, timezone, outreach_enabled, phase_templates, phase_subjects,
		       default_template, version, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`
	org := &domain.Organization{}
	var templatesJSON, subjectsJSON []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.Timezone, &org.OutreachEnabled,
		&templatesJSON, &subjectsJSON, &org.DefaultTemplate, &org.Version,
		&org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting organization by ID", "error", err, "org_id", id)
		return nil, err
	}

	if len(templatesJSON) > 0 {
		if err := json.Unmarshal(templatesJSON, &org.PhaseTemplates); err != nil {
			r.logger.ErrorContext(ctx, "Error unmarshaling phase_templates", "error", err, "org_id", id)
			return nil, err
		}
	}
	if len(subjectsJSON) > 0 {
		if err := json.Unmarshal(subjectsJSON, &org.PhaseSubjects); err != nil {
			r.logger.ErrorContext(ctx, "Error unmarshaling phase_subjects", "error", err, "org_id", id)
			return nil, err
		}
	}
	if org.PhaseTemplates == nil {
		org.PhaseTemplates = make(map[domain.PhaseKey]string)
	}
	if org.PhaseSubjects == nil {
		org.PhaseSubjects = make(map[domain.PhaseKey]string)
	}
	return org, nil
}

// ListAll returns every organization. The rollup job iterates them to
// materialize one row per org per day.
func (r *PgOrganizationRepository) ListAll(ctx context.Context) ([]*domain.Organization, error) {
	query := `
		SELECT id, name, timezone, outreach_enabled, phase_templates, phase_subjects,
		       default_template, version, created_at, updated_at
		FROM organizations
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing organizations", "error", err)
		return nil, err
	}
	defer rows.Close()

	var orgs []*domain.Organization
	for rows.Next() {
		org := &domain.Organization{}
		var templatesJSON, subjectsJSON []byte
		if err := rows.Scan(
			&org.ID, &org.Name, &org.Timezone, &org.OutreachEnabled,
			&templatesJSON, &subjectsJSON, &org.DefaultTemplate, &org.Version,
			&org.CreatedAt, &org.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(templatesJSON) > 0 {
			if err := json.Unmarshal(templatesJSON, &org.PhaseTemplates); err != nil {
				return nil, err
			}
		}
		if len(subjectsJSON) > 0 {
			if err := json.Unmarshal(subjectsJSON, &org.PhaseSubjects); err != nil {
				return nil, err
			}
		}
		if org.PhaseTemplates == nil {
			org.PhaseTemplates = make(map[domain.PhaseKey]string)
		}
		if org.PhaseSubjects == nil {
			org.PhaseSubjects = make(map[domain.PhaseKey]string)
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

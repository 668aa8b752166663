package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/djval79/complyflow-api/internal/model"
	"github.com/djval79/complyflow-api/internal/repository"
)

func (r *templateRepository) Create(ctx context.Context, tmpl *model.RotaTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tmpl.ID = uuid.New()
	tmpl.CreatedAt = time.Now()
	tmpl.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rota_templates (id, organization_id, name, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, tmpl.ID, tmpl.OrganizationID, tmpl.Name, tmpl.CreatedBy, tmpl.CreatedAt, tmpl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	for _, s := range tmpl.Shifts {
		s.ID = uuid.New()
		s.TemplateID = tmpl.ID
		s.CreatedAt = tmpl.CreatedAt
		s.UpdatedAt = tmpl.UpdatedAt

		_, err = tx.ExecContext(ctx, `
			INSERT INTO rota_template_shifts (
				id, template_id, day_offset, start_time, end_time,
				required_role, client_name, notes, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, s.ID, s.TemplateID, s.DayOffset, s.StartTime, s.EndTime,
			s.RequiredRole, s.ClientName, s.Notes, s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create template shift: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit template: %w", err)
	}
	return nil
}

func (r *templateRepository) Get(ctx context.Context, id uuid.UUID) (*model.RotaTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var tmpl model.RotaTemplate
	err := r.db.GetContext(ctx, &tmpl, `
		SELECT id, organization_id, name, created_by, created_at, updated_at
		FROM rota_templates
		WHERE id = $1
	`, id)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	shifts, err := r.listShifts(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	tmpl.Shifts = shifts[id]
	if tmpl.Shifts == nil {
		tmpl.Shifts = []*model.TemplateShift{}
	}
	return &tmpl, nil
}

func (r *templateRepository) List(ctx context.Context, orgID uuid.UUID) ([]*model.RotaTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var templates []*model.RotaTemplate
	err := r.db.SelectContext(ctx, &templates, `
		SELECT id, organization_id, name, created_by, created_at, updated_at
		FROM rota_templates
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	if len(templates) == 0 {
		return templates, nil
	}

	ids := make([]uuid.UUID, 0, len(templates))
	for _, t := range templates {
		ids = append(ids, t.ID)
	}

	shifts, err := r.listShifts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		t.Shifts = shifts[t.ID]
		if t.Shifts == nil {
			t.Shifts = []*model.TemplateShift{}
		}
	}
	return templates, nil
}

func (r *templateRepository) listShifts(ctx context.Context, templateIDs []uuid.UUID) (map[uuid.UUID][]*model.TemplateShift, error) {
	var shifts []*model.TemplateShift
	err := r.db.SelectContext(ctx, &shifts, `
		SELECT id, template_id, day_offset, start_time, end_time,
			   required_role, client_name, notes, created_at, updated_at
		FROM rota_template_shifts
		WHERE template_id = ANY($1)
		ORDER BY day_offset ASC, start_time ASC
	`, pq.Array(templateIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list template shifts: %w", err)
	}

	byTemplate := make(map[uuid.UUID][]*model.TemplateShift, len(templateIDs))
	for _, s := range shifts {
		byTemplate[s.TemplateID] = append(byTemplate[s.TemplateID], s)
	}
	return byTemplate, nil
}

func (r *templateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM rota_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

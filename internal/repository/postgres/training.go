package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/djval79/complyflow-api/internal/model"
)

func (r *trainingRepository) ListModules(ctx context.Context) ([]*model.TrainingModule, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, name, category, validity_months, created_at, updated_at
		FROM training_modules
		ORDER BY name ASC
	`
	var modules []*model.TrainingModule
	err := r.db.SelectContext(ctx, &modules, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list training modules: %w", err)
	}
	return modules, nil
}

func (r *trainingRepository) ListCompletions(ctx context.Context, orgID uuid.UUID) ([]*model.TrainingCompletion, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, organization_id, user_id, module_id,
			   completed_at, passed, expires_at,
			   created_at, updated_at
		FROM training_completions
		WHERE organization_id = $1
		ORDER BY completed_at ASC
	`
	var completions []*model.TrainingCompletion
	err := r.db.SelectContext(ctx, &completions, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list training completions: %w", err)
	}
	return completions, nil
}

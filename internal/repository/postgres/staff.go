package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/djval79/complyflow-api/internal/model"
)

func (r *staffRepository) ListStaff(ctx context.Context, orgID uuid.UUID) ([]*model.StaffMember, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, organization_id, display_name, job_title, email
		FROM staff_members
		WHERE organization_id = $1
		ORDER BY display_name ASC, id ASC
	`
	var staff []*model.StaffMember
	err := r.db.SelectContext(ctx, &staff, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

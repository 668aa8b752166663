package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/djval79/complyflow-api/internal/model"
	"github.com/djval79/complyflow-api/internal/repository"
)

// pq error code for unique constraint violations.
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}

func (r *shiftRepository) Create(ctx context.Context, shift *model.Shift) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO shifts (
			id, organization_id, start_time, end_time,
			required_role, client_name, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	shift.ID = uuid.New()
	shift.CreatedAt = time.Now()
	shift.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		shift.ID,
		shift.OrganizationID,
		shift.StartTime,
		shift.EndTime,
		shift.RequiredRole,
		shift.ClientName,
		shift.Notes,
		shift.CreatedAt,
		shift.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create shift: %w", err)
	}
	return nil
}

func (r *shiftRepository) Get(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, organization_id, start_time, end_time,
			   required_role, client_name, notes,
			   created_at, updated_at
		FROM shifts
		WHERE id = $1
	`
	var shift model.Shift
	err := r.db.GetContext(ctx, &shift, query, id)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}

	assignments, err := r.listAssignments(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	shift.Assignments = assignments[id]
	if shift.Assignments == nil {
		shift.Assignments = []*model.ShiftAssignment{}
	}
	return &shift, nil
}

func (r *shiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
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

func (r *shiftRepository) List(ctx context.Context, filters *model.ShiftFilters) ([]*model.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, organization_id, start_time, end_time,
			   required_role, client_name, notes,
			   created_at, updated_at
		FROM shifts
		WHERE organization_id = $1
		AND start_time >= $2
		AND start_time <= $3
		ORDER BY start_time ASC
	`
	var shifts []*model.Shift
	err := r.db.SelectContext(ctx, &shifts, query,
		filters.OrganizationID, filters.StartDate, filters.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	if len(shifts) == 0 {
		return shifts, nil
	}

	ids := make([]uuid.UUID, 0, len(shifts))
	for _, s := range shifts {
		ids = append(ids, s.ID)
	}

	assignments, err := r.listAssignments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range shifts {
		s.Assignments = assignments[s.ID]
		if s.Assignments == nil {
			s.Assignments = []*model.ShiftAssignment{}
		}
	}
	return shifts, nil
}

// listAssignments fetches assignments for a set of shifts with the
// assignee's display fields joined from the staff directory.
func (r *shiftRepository) listAssignments(ctx context.Context, shiftIDs []uuid.UUID) (map[uuid.UUID][]*model.ShiftAssignment, error) {
	query := `
		SELECT a.id, a.shift_id, a.user_id, a.status, a.assigned_by,
			   a.created_at, a.updated_at,
			   s.display_name AS staff_name, s.job_title AS staff_role
		FROM shift_assignments a
		JOIN staff_members s ON s.id = a.user_id
		WHERE a.shift_id = ANY($1)
		ORDER BY a.created_at ASC
	`
	var assignments []*model.ShiftAssignment
	err := r.db.SelectContext(ctx, &assignments, query, pq.Array(shiftIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	byShift := make(map[uuid.UUID][]*model.ShiftAssignment, len(shiftIDs))
	for _, a := range assignments {
		byShift[a.ShiftID] = append(byShift[a.ShiftID], a)
	}
	return byShift, nil
}

func (r *shiftRepository) InsertAssignment(ctx context.Context, assignment *model.ShiftAssignment) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO shift_assignments (
			id, shift_id, user_id, status, assigned_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	assignment.ID = uuid.New()
	assignment.Status = model.AssignmentStatusAssigned
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		assignment.ID,
		assignment.ShiftID,
		assignment.UserID,
		assignment.Status,
		assignment.AssignedBy,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicateAssignment
	}
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}
	return nil
}

func (r *shiftRepository) RemoveAssignment(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM shift_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to remove assignment: %w", err)
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

func (r *shiftRepository) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status model.AssignmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE shift_assignments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
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

func (r *shiftRepository) GetAssignment(ctx context.Context, id uuid.UUID) (*model.ShiftAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, shift_id, user_id, status, assigned_by, created_at, updated_at
		FROM shift_assignments
		WHERE id = $1
	`
	var assignment model.ShiftAssignment
	err := r.db.GetContext(ctx, &assignment, query, id)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &assignment, nil
}

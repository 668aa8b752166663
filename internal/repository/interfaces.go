package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/djval79/complyflow-api/internal/model"
)

// ErrDuplicateAssignment is returned when the (shift, staff) uniqueness
// constraint rejects an insert. Callers distinguish it with errors.Is.
var ErrDuplicateAssignment = errors.New("staff member already assigned to shift")

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// All repository interfaces in one file
type (
	// StaffRepository reads the staff directory. The scheduling core never
	// writes staff profiles.
	StaffRepository interface {
		ListStaff(ctx context.Context, orgID uuid.UUID) ([]*model.StaffMember, error)
	}

	// TrainingRepository reads the training catalogue and the append-only
	// completion ledger.
	TrainingRepository interface {
		ListModules(ctx context.Context) ([]*model.TrainingModule, error)
		ListCompletions(ctx context.Context, orgID uuid.UUID) ([]*model.TrainingCompletion, error)
	}

	ShiftRepository interface {
		Create(ctx context.Context, shift *model.Shift) error
		Get(ctx context.Context, id uuid.UUID) (*model.Shift, error)
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.ShiftFilters) ([]*model.Shift, error)
		InsertAssignment(ctx context.Context, assignment *model.ShiftAssignment) error
		RemoveAssignment(ctx context.Context, id uuid.UUID) error
		UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status model.AssignmentStatus) error
		GetAssignment(ctx context.Context, id uuid.UUID) (*model.ShiftAssignment, error)
	}

	TemplateRepository interface {
		Create(ctx context.Context, tmpl *model.RotaTemplate) error
		Get(ctx context.Context, id uuid.UUID) (*model.RotaTemplate, error)
		List(ctx context.Context, orgID uuid.UUID) ([]*model.RotaTemplate, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)

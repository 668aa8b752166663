package model

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	AssignmentStatusAssigned  AssignmentStatus = "assigned"
	AssignmentStatusConfirmed AssignmentStatus = "confirmed"
	AssignmentStatusDeclined  AssignmentStatus = "declined"
	AssignmentStatusCompleted AssignmentStatus = "completed"
	AssignmentStatusNoShow    AssignmentStatus = "no_show"
)

// Shift is a scheduled time window needing a staff member of a given role.
// EndTime may land on the next calendar day for overnight shifts.
type Shift struct {
	Base
	OrganizationID uuid.UUID          `db:"organization_id" json:"organization_id"`
	StartTime      time.Time          `db:"start_time" json:"start_time"`
	EndTime        time.Time          `db:"end_time" json:"end_time"`
	RequiredRole   string             `db:"required_role" json:"required_role"`
	ClientName     string             `db:"client_name" json:"client_name,omitempty"`
	Notes          string             `db:"notes" json:"notes,omitempty"`
	Assignments    []*ShiftAssignment `db:"-" json:"assignments"`
}

// ShiftAssignment links one staff member to one shift. The (shift, staff)
// pair is unique; the constraint lives in the database, not here.
type ShiftAssignment struct {
	Base
	ShiftID    uuid.UUID        `db:"shift_id" json:"shift_id"`
	UserID     uuid.UUID        `db:"user_id" json:"user_id"`
	Status     AssignmentStatus `db:"status" json:"status"`
	AssignedBy uuid.UUID        `db:"assigned_by" json:"assigned_by"`

	// Display fields joined from the staff directory on reads.
	StaffName string `db:"staff_name" json:"staff_name,omitempty"`
	StaffRole string `db:"staff_role" json:"staff_role,omitempty"`
}

// CanTransitionTo reports whether an assignment status change is legal.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	switch s {
	case AssignmentStatusAssigned:
		return next == AssignmentStatusConfirmed || next == AssignmentStatusDeclined
	case AssignmentStatusConfirmed:
		return next == AssignmentStatusCompleted || next == AssignmentStatusNoShow
	default:
		return false
	}
}

type CreateShiftRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	StartTime      time.Time `json:"start_time" binding:"required"`
	EndTime        time.Time `json:"end_time" binding:"required"`
	RequiredRole   string    `json:"required_role" binding:"required,max=100"`
	ClientName     string    `json:"client_name" binding:"max=200"`
	Notes          string    `json:"notes" binding:"max=1000"`
}

type AssignStaffRequest struct {
	UserID             uuid.UUID `json:"user_id" binding:"required"`
	AssignedBy         uuid.UUID `json:"assigned_by" binding:"required"`
	OrganizationID     uuid.UUID `json:"organization_id" binding:"required"`
	OverrideCompliance bool      `json:"override_compliance"`
}

type UpdateAssignmentStatusRequest struct {
	Status AssignmentStatus `json:"status" binding:"required,oneof=assigned confirmed declined completed no_show"`
}

type ShiftFilters struct {
	OrganizationID uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
}

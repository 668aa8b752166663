package model

import (
	"github.com/google/uuid"
)

// RotaTemplate is a reusable snapshot of a week's shift pattern. Applying it
// stamps new shifts for a target week, offset from that week's Monday.
type RotaTemplate struct {
	Base
	OrganizationID uuid.UUID        `db:"organization_id" json:"organization_id"`
	Name           string           `db:"name" json:"name"`
	CreatedBy      uuid.UUID        `db:"created_by" json:"created_by"`
	Shifts         []*TemplateShift `db:"-" json:"shifts"`
}

// TemplateShift is one entry of a template: a weekday offset from Monday
// plus clock times. An EndTime before StartTime marks an overnight shift.
type TemplateShift struct {
	Base
	TemplateID   uuid.UUID `db:"template_id" json:"template_id"`
	DayOffset    int       `db:"day_offset" json:"day_offset"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	RequiredRole string    `db:"required_role" json:"required_role"`
	ClientName   string    `db:"client_name" json:"client_name,omitempty"`
	Notes        string    `db:"notes" json:"notes,omitempty"`
}

type CreateTemplateRequest struct {
	OrganizationID uuid.UUID                    `json:"organization_id" binding:"required"`
	Name           string                       `json:"name" binding:"required,max=200"`
	CreatedBy      uuid.UUID                    `json:"created_by" binding:"required"`
	Shifts         []CreateTemplateShiftRequest `json:"shifts" binding:"required,min=1,dive"`
}

type CreateTemplateShiftRequest struct {
	DayOffset    int    `json:"day_offset" binding:"min=0,max=6"`
	StartTime    string `json:"start_time" binding:"required,timeofday"`
	EndTime      string `json:"end_time" binding:"required,timeofday"`
	RequiredRole string `json:"required_role" binding:"required,max=100"`
	ClientName   string `json:"client_name" binding:"max=200"`
	Notes        string `json:"notes" binding:"max=1000"`
}

type ApplyTemplateRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	WeekStart      string    `json:"week_start" binding:"required,datetime=2006-01-02"`
}

package model

import (
	"github.com/google/uuid"
)

// StaffMember is the read-only view of a staff profile exposed by the staff
// directory. The scheduling core never writes to it.
type StaffMember struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	DisplayName    string    `db:"display_name" json:"display_name"`
	JobTitle       string    `db:"job_title" json:"job_title"`
	Email          string    `db:"email" json:"email,omitempty"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type ModuleCategory string

const (
	ModuleCategoryMandatory  ModuleCategory = "mandatory"
	ModuleCategoryClinical   ModuleCategory = "clinical"
	ModuleCategorySpecialist ModuleCategory = "specialist"
	ModuleCategoryOther      ModuleCategory = "other"
)

// TrainingModule is global reference data: a certifiable course with a
// validity period after which re-certification is required. ValidityMonths
// of zero means the certification never expires.
type TrainingModule struct {
	Base
	Name           string         `db:"name" json:"name"`
	Category       ModuleCategory `db:"category" json:"category"`
	ValidityMonths int            `db:"validity_months" json:"validity_months"`
}

// TrainingCompletion records that a staff member sat a module at a point in
// time. Rows are append-only; the latest by CompletedAt wins.
type TrainingCompletion struct {
	Base
	OrganizationID uuid.UUID  `db:"organization_id" json:"organization_id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	ModuleID       uuid.UUID  `db:"module_id" json:"module_id"`
	CompletedAt    time.Time  `db:"completed_at" json:"completed_at"`
	Passed         bool       `db:"passed" json:"passed"`
	ExpiresAt      *time.Time `db:"expires_at" json:"expires_at,omitempty"`
}

type CompetencyStatus string

const (
	CompetencyStatusValid    CompetencyStatus = "valid"
	CompetencyStatusExpiring CompetencyStatus = "expiring"
	CompetencyStatusExpired  CompetencyStatus = "expired"
	CompetencyStatusMissing  CompetencyStatus = "missing"
)

// ExpiringWindowDays is the threshold below which a still-valid competency
// is reported as expiring.
const ExpiringWindowDays = 30

// StaffCompetency is the derived per-staff view: one status and optional
// expiry per training module. It is rebuilt on every query, never persisted.
type StaffCompetency struct {
	StaffID     uuid.UUID                      `json:"staff_id"`
	DisplayName string                         `json:"display_name"`
	JobTitle    string                         `json:"job_title"`
	Statuses    map[uuid.UUID]CompetencyStatus `json:"statuses"`
	Expiries    map[uuid.UUID]*time.Time       `json:"expiries"`
}

// HasExpired reports whether any module for this staff member is expired.
func (s *StaffCompetency) HasExpired() bool {
	for _, st := range s.Statuses {
		if st == CompetencyStatusExpired {
			return true
		}
	}
	return false
}

// CompetencyMatrix is the full derived view for an organization.
type CompetencyMatrix struct {
	Modules []*TrainingModule  `json:"modules"`
	Staff   []*StaffCompetency `json:"staff"`
}

// Lookup returns the competency row for a staff member, or nil.
func (m *CompetencyMatrix) Lookup(staffID uuid.UUID) *StaffCompetency {
	for _, s := range m.Staff {
		if s.StaffID == staffID {
			return s
		}
	}
	return nil
}

// ComplianceResult is the Compliance Guard verdict for one staff member.
type ComplianceResult struct {
	Compliant bool     `json:"compliant"`
	Issues    []string `json:"issues"`
}

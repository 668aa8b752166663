package competency

import (
	"time"

	"github.com/google/uuid"

	"github.com/djval79/complyflow-api/internal/model"
)

// SampleDataProvider is the demo-deployment degraded-mode dataset: a small,
// recognisably fake care-home roster covering every competency state.
type SampleDataProvider struct{}

func NewSampleDataProvider() *SampleDataProvider {
	return &SampleDataProvider{}
}

var (
	sampleFireSafetyID   = uuid.MustParse("d1000000-0000-0000-0000-000000000001")
	sampleMovingID       = uuid.MustParse("d1000000-0000-0000-0000-000000000002")
	sampleSafeguardingID = uuid.MustParse("d1000000-0000-0000-0000-000000000003")
	sampleMedicationID   = uuid.MustParse("d1000000-0000-0000-0000-000000000004")

	sampleStaffAliceID = uuid.MustParse("d2000000-0000-0000-0000-000000000001")
	sampleStaffBenID   = uuid.MustParse("d2000000-0000-0000-0000-000000000002")
	sampleStaffCaraID  = uuid.MustParse("d2000000-0000-0000-0000-000000000003")
)

func (p *SampleDataProvider) Matrix(orgID uuid.UUID) *model.CompetencyMatrix {
	now := time.Now()
	expired := now.AddDate(0, 0, -14)
	expiring := now.AddDate(0, 0, 10)
	valid := now.AddDate(0, 11, 0)

	modules := []*model.TrainingModule{
		sampleModule(sampleFireSafetyID, "Fire Safety", model.ModuleCategoryMandatory, 12),
		sampleModule(sampleMovingID, "Moving & Handling", model.ModuleCategoryMandatory, 12),
		sampleModule(sampleSafeguardingID, "Safeguarding Adults", model.ModuleCategoryMandatory, 36),
		sampleModule(sampleMedicationID, "Medication Administration", model.ModuleCategoryClinical, 12),
	}

	staff := []*model.StaffCompetency{
		{
			StaffID:     sampleStaffAliceID,
			DisplayName: "Alice Demo",
			JobTitle:    "Care Assistant",
			Statuses: map[uuid.UUID]model.CompetencyStatus{
				sampleFireSafetyID:   model.CompetencyStatusValid,
				sampleMovingID:       model.CompetencyStatusValid,
				sampleSafeguardingID: model.CompetencyStatusValid,
				sampleMedicationID:   model.CompetencyStatusMissing,
			},
			Expiries: map[uuid.UUID]*time.Time{
				sampleFireSafetyID: &valid,
				sampleMovingID:     &valid,
			},
		},
		{
			StaffID:     sampleStaffBenID,
			DisplayName: "Ben Demo",
			JobTitle:    "Care Assistant",
			Statuses: map[uuid.UUID]model.CompetencyStatus{
				sampleFireSafetyID:   model.CompetencyStatusExpired,
				sampleMovingID:       model.CompetencyStatusValid,
				sampleSafeguardingID: model.CompetencyStatusValid,
				sampleMedicationID:   model.CompetencyStatusMissing,
			},
			Expiries: map[uuid.UUID]*time.Time{
				sampleFireSafetyID: &expired,
				sampleMovingID:     &valid,
			},
		},
		{
			StaffID:     sampleStaffCaraID,
			DisplayName: "Cara Demo",
			JobTitle:    "Senior Carer",
			Statuses: map[uuid.UUID]model.CompetencyStatus{
				sampleFireSafetyID:   model.CompetencyStatusExpiring,
				sampleMovingID:       model.CompetencyStatusValid,
				sampleSafeguardingID: model.CompetencyStatusValid,
				sampleMedicationID:   model.CompetencyStatusValid,
			},
			Expiries: map[uuid.UUID]*time.Time{
				sampleFireSafetyID: &expiring,
				sampleMedicationID: &valid,
			},
		},
	}

	return &model.CompetencyMatrix{Modules: modules, Staff: staff}
}

func sampleModule(id uuid.UUID, name string, category model.ModuleCategory, months int) *model.TrainingModule {
	m := &model.TrainingModule{
		Name:           name,
		Category:       category,
		ValidityMonths: months,
	}
	m.ID = id
	return m
}

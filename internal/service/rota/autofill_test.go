package rota

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djval79/complyflow-api/internal/model"
)

func competentStaff(name, role string, statuses map[uuid.UUID]model.CompetencyStatus) *model.StaffCompetency {
	return &model.StaffCompetency{
		StaffID:     uuid.New(),
		DisplayName: name,
		JobTitle:    role,
		Statuses:    statuses,
		Expiries:    map[uuid.UUID]*time.Time{},
	}
}

func TestAutoFillSkipsExpiredStaff(t *testing.T) {
	orgID := uuid.New()
	fireID := uuid.New()

	// Staff order is stable: A sorts first but carries an expired module, so
	// the planner must pick B.
	staffA := competentStaff("Alice", "Care Assistant",
		map[uuid.UUID]model.CompetencyStatus{fireID: model.CompetencyStatusExpired})
	staffB := competentStaff("Ben", "Care Assistant",
		map[uuid.UUID]model.CompetencyStatus{fireID: model.CompetencyStatusValid})

	shift := testShift(orgID, time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC), "Care Assistant")

	deps := defaultDeps()
	deps.shifts = newFakeShiftRepo(shift)
	deps.matrix.matrix = &model.CompetencyMatrix{Staff: []*model.StaffCompetency{staffA, staffB}}
	svc := newTestService(deps)

	result, err := svc.AutoFill(context.Background(), &model.ShiftFilters{OrganizationID: orgID}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Filled)
	assert.Empty(t, result.UnfilledShifts)
	require.Len(t, shift.Assignments, 1)
	assert.Equal(t, staffB.StaffID, shift.Assignments[0].UserID)
}

func TestAutoFillFirstEligibleWins(t *testing.T) {
	orgID := uuid.New()
	staffA := competentStaff("Alice", "Care Assistant", map[uuid.UUID]model.CompetencyStatus{})
	staffB := competentStaff("Ben", "Care Assistant", map[uuid.UUID]model.CompetencyStatus{})

	shift := testShift(orgID, time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC), "Care Assistant")

	deps := defaultDeps()
	deps.shifts = newFakeShiftRepo(shift)
	deps.matrix.matrix = &model.CompetencyMatrix{Staff: []*model.StaffCompetency{staffA, staffB}}
	svc := newTestService(deps)

	result, err := svc.AutoFill(context.Background(), &model.ShiftFilters{OrganizationID: orgID}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Filled)
	require.Len(t, shift.Assignments, 1)
	assert.Equal(t, staffA.StaffID, shift.Assignments[0].UserID)
}

func TestAutoFillRoleMismatchLeavesShiftUnfilled(t *testing.T) {
	orgID := uuid.New()
	nurse := competentStaff("Alice", "Registered Nurse", map[uuid.UUID]model.CompetencyStatus{})
	shift := testShift(orgID, time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC), "Care Assistant")

	deps := defaultDeps()
	deps.shifts = newFakeShiftRepo(shift)
	deps.matrix.matrix = &model.CompetencyMatrix{Staff: []*model.StaffCompetency{nurse}}
	svc := newTestService(deps)

	result, err := svc.AutoFill(context.Background(), &model.ShiftFilters{OrganizationID: orgID}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Filled)
	assert.Equal(t, []uuid.UUID{shift.ID}, result.UnfilledShifts)
	assert.Empty(t, shift.Assignments)
}

func TestAutoFillNoDoubleBookingSameDay(t *testing.T) {
	orgID := uuid.New()
	staffA := competentStaff("Alice", "Care Assistant", map[uuid.UUID]model.CompetencyStatus{})

	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	morning := testShift(orgID, day.Add(8*time.Hour), "Care Assistant")
	evening := testShift(orgID, day.Add(14*time.Hour), "Care Assistant")
	nextDay := testShift(orgID, day.AddDate(0, 0, 1).Add(8*time.Hour), "Care Assistant")

	deps := defaultDeps()
	deps.shifts = newFakeShiftRepo(morning, evening, nextDay)
	deps.matrix.matrix = &model.CompetencyMatrix{Staff: []*model.StaffCompetency{staffA}}
	svc := newTestService(deps)

	result, err := svc.AutoFill(context.Background(), &model.ShiftFilters{OrganizationID: orgID}, uuid.New())
	require.NoError(t, err)

	// One shift per calendar day per person: morning and next-day fill, the
	// second shift on the same day does not.
	assert.Equal(t, 2, result.Filled)
	assert.Equal(t, []uuid.UUID{evening.ID}, result.UnfilledShifts)
	require.Len(t, morning.Assignments, 1)
	assert.Empty(t, evening.Assignments)
	require.Len(t, nextDay.Assignments, 1)
}

func TestAutoFillRespectsExistingAssignments(t *testing.T) {
	orgID := uuid.New()
	staffA := competentStaff("Alice", "Care Assistant", map[uuid.UUID]model.CompetencyStatus{})

	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	booked := testShift(orgID, day.Add(8*time.Hour), "Care Assistant")
	booked.Assignments = []*model.ShiftAssignment{{UserID: staffA.StaffID, ShiftID: booked.ID}}
	empty := testShift(orgID, day.Add(14*time.Hour), "Care Assistant")

	deps := defaultDeps()
	deps.shifts = newFakeShiftRepo(booked, empty)
	deps.matrix.matrix = &model.CompetencyMatrix{Staff: []*model.StaffCompetency{staffA}}
	svc := newTestService(deps)

	result, err := svc.AutoFill(context.Background(), &model.ShiftFilters{OrganizationID: orgID}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Filled)
	assert.Equal(t, []uuid.UUID{empty.ID}, result.UnfilledShifts)
}

func TestAutoFillGuardStillGates(t *testing.T) {
	orgID := uuid.New()
	staffA := competentStaff("Alice", "Care Assistant", map[uuid.UUID]model.CompetencyStatus{})
	shift := testShift(orgID, time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC), "Care Assistant")

	deps := defaultDeps()
	deps.shifts = newFakeShiftRepo(shift)
	deps.matrix.matrix = &model.CompetencyMatrix{Staff: []*model.StaffCompetency{staffA}}
	// The guard sees fresher data than the planner's matrix snapshot.
	deps.guard.results[staffA.StaffID] = &model.ComplianceResult{
		Compliant: false,
		Issues:    []string{"Fire Safety expired on 2025-03-01"},
	}
	svc := newTestService(deps)

	result, err := svc.AutoFill(context.Background(), &model.ShiftFilters{OrganizationID: orgID}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Filled)
	assert.Equal(t, []uuid.UUID{shift.ID}, result.UnfilledShifts)
	assert.Empty(t, shift.Assignments)
}

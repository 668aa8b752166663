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

func newTemplate(orgID uuid.UUID, shifts ...*model.TemplateShift) *model.RotaTemplate {
	t := &model.RotaTemplate{
		OrganizationID: orgID,
		Name:           "Standard Week",
		Shifts:         shifts,
	}
	t.ID = uuid.New()
	return t
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday stays", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"wednesday rolls back", time.Date(2025, 3, 5, 15, 30, 0, 0, time.UTC), time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"sunday rolls back six days", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, startOfWeek(tt.in).Equal(tt.want))
		})
	}
}

func TestApplyTemplateStampsWeek(t *testing.T) {
	orgID := uuid.New()
	tmpl := newTemplate(orgID,
		&model.TemplateShift{DayOffset: 0, StartTime: "08:00", EndTime: "20:00", RequiredRole: "Care Assistant"},
		&model.TemplateShift{DayOffset: 4, StartTime: "09:00", EndTime: "17:00", RequiredRole: "Registered Nurse", ClientName: "Oak Lodge"},
	)

	deps := defaultDeps()
	deps.templates = newFakeTemplateRepo(tmpl)
	svc := newTestService(deps)

	weekStart := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	created, err := svc.ApplyTemplate(context.Background(), orgID, tmpl.ID, weekStart)
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.True(t, created[0].StartTime.Equal(time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)))
	assert.True(t, created[0].EndTime.Equal(time.Date(2025, 3, 3, 20, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Care Assistant", created[0].RequiredRole)

	assert.True(t, created[1].StartTime.Equal(time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Oak Lodge", created[1].ClientName)

	assert.Len(t, deps.shifts.shifts, 2)
	assert.Len(t, deps.outbox.events, 2)
}

func TestApplyTemplateOvernightShift(t *testing.T) {
	orgID := uuid.New()
	tmpl := newTemplate(orgID,
		&model.TemplateShift{DayOffset: 2, StartTime: "20:00", EndTime: "08:00", RequiredRole: "Senior Carer"},
	)

	deps := defaultDeps()
	deps.templates = newFakeTemplateRepo(tmpl)
	svc := newTestService(deps)

	created, err := svc.ApplyTemplate(context.Background(), orgID, tmpl.ID, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, created, 1)

	assert.True(t, created[0].StartTime.Equal(time.Date(2025, 3, 5, 20, 0, 0, 0, time.UTC)))
	assert.True(t, created[0].EndTime.Equal(time.Date(2025, 3, 6, 8, 0, 0, 0, time.UTC)))
}

func TestApplyTemplateNormalizesMidweekStart(t *testing.T) {
	orgID := uuid.New()
	tmpl := newTemplate(orgID,
		&model.TemplateShift{DayOffset: 0, StartTime: "08:00", EndTime: "16:00", RequiredRole: "Care Assistant"},
	)

	deps := defaultDeps()
	deps.templates = newFakeTemplateRepo(tmpl)
	svc := newTestService(deps)

	// A Thursday week-start still anchors the pattern to that week's Monday.
	created, err := svc.ApplyTemplate(context.Background(), orgID, tmpl.ID, time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.True(t, created[0].StartTime.Equal(time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)))
}

func TestApplyTemplateWrongOrganization(t *testing.T) {
	tmpl := newTemplate(uuid.New(),
		&model.TemplateShift{DayOffset: 0, StartTime: "08:00", EndTime: "16:00", RequiredRole: "Care Assistant"},
	)

	deps := defaultDeps()
	deps.templates = newFakeTemplateRepo(tmpl)
	svc := newTestService(deps)

	_, err := svc.ApplyTemplate(context.Background(), uuid.New(), tmpl.ID, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
	assert.Empty(t, deps.shifts.shifts)
}

func TestApplyTemplateUnknownTemplate(t *testing.T) {
	svc := newTestService(defaultDeps())

	_, err := svc.ApplyTemplate(context.Background(), uuid.New(), uuid.New(), time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestCreateTemplateCopiesShifts(t *testing.T) {
	deps := defaultDeps()
	svc := newTestService(deps)

	tmpl, err := svc.CreateTemplate(context.Background(), &model.CreateTemplateRequest{
		OrganizationID: uuid.New(),
		Name:           "Weekend Cover",
		CreatedBy:      uuid.New(),
		Shifts: []model.CreateTemplateShiftRequest{
			{DayOffset: 5, StartTime: "08:00", EndTime: "20:00", RequiredRole: "Care Assistant"},
			{DayOffset: 6, StartTime: "08:00", EndTime: "20:00", RequiredRole: "Care Assistant"},
		},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tmpl.ID)
	require.Len(t, tmpl.Shifts, 2)
	assert.Equal(t, 5, tmpl.Shifts[0].DayOffset)
	assert.Equal(t, "20:00", tmpl.Shifts[1].EndTime)
}

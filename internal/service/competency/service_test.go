package competency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djval79/complyflow-api/internal/model"
	"github.com/djval79/complyflow-api/pkg/logger"
	"github.com/djval79/complyflow-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("competency_test")

type fakeStaffRepo struct {
	staff []*model.StaffMember
	err   error
}

func (f *fakeStaffRepo) ListStaff(ctx context.Context, orgID uuid.UUID) ([]*model.StaffMember, error) {
	return f.staff, f.err
}

type fakeTrainingRepo struct {
	modules     []*model.TrainingModule
	completions []*model.TrainingCompletion
	err         error
}

func (f *fakeTrainingRepo) ListModules(ctx context.Context) ([]*model.TrainingModule, error) {
	return f.modules, f.err
}

func (f *fakeTrainingRepo) ListCompletions(ctx context.Context, orgID uuid.UUID) ([]*model.TrainingCompletion, error) {
	return f.completions, f.err
}

func newModule(name string, months int) *model.TrainingModule {
	m := &model.TrainingModule{Name: name, Category: model.ModuleCategoryMandatory, ValidityMonths: months}
	m.ID = uuid.New()
	return m
}

func newStaff(name, title string) *model.StaffMember {
	return &model.StaffMember{ID: uuid.New(), DisplayName: name, JobTitle: title}
}

func completion(userID, moduleID uuid.UUID, completedAt time.Time, passed bool, expiresAt *time.Time) *model.TrainingCompletion {
	c := &model.TrainingCompletion{
		UserID:      userID,
		ModuleID:    moduleID,
		CompletedAt: completedAt,
		Passed:      passed,
		ExpiresAt:   expiresAt,
	}
	c.ID = uuid.New()
	return c
}

func TestStatusAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in10 := now.AddDate(0, 0, 10)
	in45 := now.AddDate(0, 0, 45)
	ago21 := now.AddDate(0, 0, -21)

	tests := []struct {
		name       string
		completion *model.TrainingCompletion
		want       model.CompetencyStatus
	}{
		{"no completion", nil, model.CompetencyStatusMissing},
		{"failed completion", completion(uuid.New(), uuid.New(), now, false, &in45), model.CompetencyStatusMissing},
		{"no expiry never degrades", completion(uuid.New(), uuid.New(), now.AddDate(-10, 0, 0), true, nil), model.CompetencyStatusValid},
		{"expires in 10 days", completion(uuid.New(), uuid.New(), now, true, &in10), model.CompetencyStatusExpiring},
		{"expires in 45 days", completion(uuid.New(), uuid.New(), now, true, &in45), model.CompetencyStatusValid},
		{"expired 21 days ago", completion(uuid.New(), uuid.New(), now, true, &ago21), model.CompetencyStatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusAt(tt.completion, now))
		})
	}
}

func TestStatusAtWindowBoundaries(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	exactly30 := now.AddDate(0, 0, 30)
	assert.Equal(t, model.CompetencyStatusValid, statusAt(completion(uuid.New(), uuid.New(), now, true, &exactly30), now))

	justUnder30 := now.Add(30*24*time.Hour - time.Hour)
	assert.Equal(t, model.CompetencyStatusExpiring, statusAt(completion(uuid.New(), uuid.New(), now, true, &justUnder30), now))

	today := now.Add(2 * time.Hour)
	assert.Equal(t, model.CompetencyStatusExpiring, statusAt(completion(uuid.New(), uuid.New(), now, true, &today), now))

	justPast := now.Add(-time.Hour)
	assert.Equal(t, model.CompetencyStatusExpired, statusAt(completion(uuid.New(), uuid.New(), now, true, &justPast), now))
}

func TestGetCompetencyMatrixLatestCompletionWins(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mod := newModule("Fire Safety", 12)
	alice := newStaff("Alice", "Care Assistant")

	expired := now.AddDate(0, 0, -5)
	future := now.AddDate(0, 6, 0)

	svc := NewService(
		&fakeStaffRepo{staff: []*model.StaffMember{alice}},
		&fakeTrainingRepo{
			modules: []*model.TrainingModule{mod},
			completions: []*model.TrainingCompletion{
				completion(alice.ID, mod.ID, now.AddDate(-1, 0, 0), true, &expired),
				completion(alice.ID, mod.ID, now.AddDate(0, -1, 0), true, &future),
			},
		},
		nil, logger.NewLogger(nil), testMetrics,
	)
	svc.now = func() time.Time { return now }

	matrix, err := svc.GetCompetencyMatrix(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, matrix.Staff, 1)

	assert.Equal(t, model.CompetencyStatusValid, matrix.Staff[0].Statuses[mod.ID])
	require.NotNil(t, matrix.Staff[0].Expiries[mod.ID])
	assert.True(t, matrix.Staff[0].Expiries[mod.ID].Equal(future))
}

func TestGetCompetencyMatrixLatestFailedResitIsMissing(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mod := newModule("Medication Administration", 12)
	alice := newStaff("Alice", "Care Assistant")
	future := now.AddDate(0, 6, 0)

	svc := NewService(
		&fakeStaffRepo{staff: []*model.StaffMember{alice}},
		&fakeTrainingRepo{
			modules: []*model.TrainingModule{mod},
			completions: []*model.TrainingCompletion{
				completion(alice.ID, mod.ID, now.AddDate(0, -2, 0), true, &future),
				completion(alice.ID, mod.ID, now.AddDate(0, -1, 0), false, nil),
			},
		},
		nil, logger.NewLogger(nil), testMetrics,
	)
	svc.now = func() time.Time { return now }

	matrix, err := svc.GetCompetencyMatrix(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.CompetencyStatusMissing, matrix.Staff[0].Statuses[mod.ID])
}

func TestGetCompetencyMatrixNoCompletionIsMissing(t *testing.T) {
	mod := newModule("Safeguarding Adults", 36)
	alice := newStaff("Alice", "Care Assistant")

	svc := NewService(
		&fakeStaffRepo{staff: []*model.StaffMember{alice}},
		&fakeTrainingRepo{modules: []*model.TrainingModule{mod}},
		nil, logger.NewLogger(nil), testMetrics,
	)

	matrix, err := svc.GetCompetencyMatrix(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.CompetencyStatusMissing, matrix.Staff[0].Statuses[mod.ID])
}

func TestGetCompetencyMatrixDegradedFallback(t *testing.T) {
	svc := NewService(
		&fakeStaffRepo{err: errors.New("connection refused")},
		&fakeTrainingRepo{},
		NewSampleDataProvider(),
		logger.NewLogger(nil), testMetrics,
	)

	matrix, err := svc.GetCompetencyMatrix(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotEmpty(t, matrix.Modules)
	assert.NotEmpty(t, matrix.Staff)
}

func TestGetCompetencyMatrixFailsWithoutFallback(t *testing.T) {
	svc := NewService(
		&fakeStaffRepo{err: errors.New("connection refused")},
		&fakeTrainingRepo{},
		nil,
		logger.NewLogger(nil), testMetrics,
	)

	_, err := svc.GetCompetencyMatrix(context.Background(), uuid.New())
	assert.Error(t, err)
}

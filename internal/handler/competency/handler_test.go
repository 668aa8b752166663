package competency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djval79/complyflow-api/internal/model"
	"github.com/djval79/complyflow-api/internal/service/compliance"
	"github.com/djval79/complyflow-api/internal/service/competency"
	"github.com/djval79/complyflow-api/pkg/logger"
	"github.com/djval79/complyflow-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("competency_handler_test")

type stubStaffRepo struct {
	staff []*model.StaffMember
	err   error
}

func (s *stubStaffRepo) ListStaff(ctx context.Context, orgID uuid.UUID) ([]*model.StaffMember, error) {
	return s.staff, s.err
}

type stubTrainingRepo struct {
	modules     []*model.TrainingModule
	completions []*model.TrainingCompletion
}

func (s *stubTrainingRepo) ListModules(ctx context.Context) ([]*model.TrainingModule, error) {
	return s.modules, nil
}

func (s *stubTrainingRepo) ListCompletions(ctx context.Context, orgID uuid.UUID) ([]*model.TrainingCompletion, error) {
	return s.completions, nil
}

func setupRouter(t *testing.T, staff *stubStaffRepo, training *stubTrainingRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	matrixSvc := competency.NewService(staff, training, nil, logger.NewLogger(nil), testMetrics)
	guard := compliance.NewService(matrixSvc)

	r := gin.New()
	group := r.Group("/api/v1")
	NewHandler(matrixSvc, guard).RegisterRoutes(group)
	return r
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func get(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestGetMatrixSuccessEnvelope(t *testing.T) {
	mod := &model.TrainingModule{Name: "Fire Safety", Category: model.ModuleCategoryMandatory}
	mod.ID = uuid.New()
	member := &model.StaffMember{ID: uuid.New(), DisplayName: "Alice", JobTitle: "Care Assistant"}

	r := setupRouter(t,
		&stubStaffRepo{staff: []*model.StaffMember{member}},
		&stubTrainingRepo{modules: []*model.TrainingModule{mod}},
	)

	w, resp := get(t, r, fmt.Sprintf("/api/v1/competency/matrix?organization_id=%s", uuid.New()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Empty(t, resp.Message)

	var matrix model.CompetencyMatrix
	require.NoError(t, json.Unmarshal(resp.Data, &matrix))
	require.Len(t, matrix.Staff, 1)
	assert.Equal(t, model.CompetencyStatusMissing, matrix.Staff[0].Statuses[mod.ID])
}

func TestGetMatrixStoreFailureEnvelope(t *testing.T) {
	r := setupRouter(t, &stubStaffRepo{err: errors.New("connection refused")}, &stubTrainingRepo{})

	w, resp := get(t, r, fmt.Sprintf("/api/v1/competency/matrix?organization_id=%s", uuid.New()))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.Message)
	assert.Nil(t, resp.Data)
}

func TestGetMatrixInvalidOrganizationID(t *testing.T) {
	r := setupRouter(t, &stubStaffRepo{}, &stubTrainingRepo{})

	w, resp := get(t, r, "/api/v1/competency/matrix?organization_id=nope")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", resp.Status)
}

func TestCheckComplianceExpiredStaff(t *testing.T) {
	mod := &model.TrainingModule{Name: "Fire Safety", Category: model.ModuleCategoryMandatory}
	mod.ID = uuid.New()
	member := &model.StaffMember{ID: uuid.New(), DisplayName: "Alice", JobTitle: "Care Assistant"}

	expired := time.Now().AddDate(0, 0, -14)
	c := &model.TrainingCompletion{
		UserID:      member.ID,
		ModuleID:    mod.ID,
		CompletedAt: time.Now().AddDate(-1, 0, 0),
		Passed:      true,
		ExpiresAt:   &expired,
	}
	c.ID = uuid.New()

	r := setupRouter(t,
		&stubStaffRepo{staff: []*model.StaffMember{member}},
		&stubTrainingRepo{
			modules:     []*model.TrainingModule{mod},
			completions: []*model.TrainingCompletion{c},
		},
	)

	w, resp := get(t, r, fmt.Sprintf("/api/v1/competency/staff/%s/compliance?organization_id=%s", member.ID, uuid.New()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp.Status)

	var result model.ComplianceResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.False(t, result.Compliant)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "Fire Safety expired on")
}

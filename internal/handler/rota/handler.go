package rota

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/djval79/complyflow-api/internal/model"
	"github.com/djval79/complyflow-api/internal/service/rota"
	apperrors "github.com/djval79/complyflow-api/pkg/errors"
)

type Handler struct {
	service *rota.Service
}

func NewHandler(service *rota.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/shifts", h.GetShifts)
	r.POST("/shifts", h.CreateShift)
	r.DELETE("/shifts/:id", h.DeleteShift)
	r.POST("/shifts/:id/assignments", h.AssignStaff)
	r.POST("/shifts/autofill", h.AutoFill)
	r.DELETE("/assignments/:id", h.RemoveAssignment)
	r.PATCH("/assignments/:id/status", h.UpdateAssignmentStatus)
	r.GET("/rota-templates", h.ListTemplates)
	r.POST("/rota-templates", h.CreateTemplate)
	r.DELETE("/rota-templates/:id", h.DeleteTemplate)
	r.POST("/rota-templates/:id/apply", h.ApplyTemplate)
}

func (h *Handler) GetShifts(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid organization ID"})
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid start date"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid end date"})
		return
	}

	shifts, err := h.service.GetShifts(c.Request.Context(), &model.ShiftFilters{
		OrganizationID: orgID,
		StartDate:      start,
		EndDate:        end,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": shifts})
}

func (h *Handler) CreateShift(c *gin.Context) {
	var req model.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	shift, err := h.service.CreateShift(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": shift})
}

func (h *Handler) DeleteShift(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid shift ID"})
		return
	}

	if err := h.service.DeleteShift(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// AssignStaff is the guarded write: compliance check first, then the
// insert. The response shape distinguishes compliance rejection from a
// duplicate conflict and from plain store failure.
func (h *Handler) AssignStaff(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid shift ID"})
		return
	}

	var req model.AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	result := h.service.AssignStaffToShift(c.Request.Context(), shiftID, &req)
	switch result.Outcome {
	case rota.OutcomeAssigned:
		c.JSON(http.StatusCreated, gin.H{"success": true})
	case rota.OutcomeComplianceRejected:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":           false,
			"error":             result.ErrorMessage(),
			"compliance_issues": result.ComplianceIssues,
		})
	case rota.OutcomeDuplicate:
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   result.ErrorMessage(),
		})
	default:
		c.JSON(statusFor(result.Err), gin.H{
			"success": false,
			"error":   result.ErrorMessage(),
		})
	}
}

func (h *Handler) AutoFill(c *gin.Context) {
	var req struct {
		OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
		StartDate      time.Time `json:"start_date" binding:"required"`
		EndDate        time.Time `json:"end_date" binding:"required"`
		RequestedBy    uuid.UUID `json:"requested_by" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	result, err := h.service.AutoFill(c.Request.Context(), &model.ShiftFilters{
		OrganizationID: req.OrganizationID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}, req.RequestedBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": result})
}

func (h *Handler) RemoveAssignment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid assignment ID"})
		return
	}

	if err := h.service.RemoveAssignment(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) UpdateAssignmentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid assignment ID"})
		return
	}

	var req model.UpdateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if err := h.service.UpdateAssignmentStatus(c.Request.Context(), id, req.Status); err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) ListTemplates(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid organization ID"})
		return
	}

	templates, err := h.service.ListTemplates(c.Request.Context(), orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": templates})
}

func (h *Handler) CreateTemplate(c *gin.Context) {
	var req model.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	tmpl, err := h.service.CreateTemplate(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": tmpl})
}

func (h *Handler) DeleteTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid template ID"})
		return
	}

	if err := h.service.DeleteTemplate(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) ApplyTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid template ID"})
		return
	}

	var req model.ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	weekStart, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid week start date"})
		return
	}

	shifts, err := h.service.ApplyTemplate(c.Request.Context(), req.OrganizationID, id, weekStart)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": shifts})
}

func statusFor(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

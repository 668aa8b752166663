package competency

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/djval79/complyflow-api/internal/handler"
	"github.com/djval79/complyflow-api/internal/service/compliance"
	"github.com/djval79/complyflow-api/internal/service/competency"
)

type Handler struct {
	matrix *competency.Service
	guard  *compliance.Service
}

func NewHandler(matrix *competency.Service, guard *compliance.Service) *Handler {
	return &Handler{matrix: matrix, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/competency/matrix", h.GetMatrix)
	r.GET("/competency/staff/:id/compliance", h.CheckCompliance)
}

func (h *Handler) GetMatrix(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}

	matrix, err := h.matrix.GetCompetencyMatrix(c.Request.Context(), orgID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(matrix))
}

func (h *Handler) CheckCompliance(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid staff ID"))
		return
	}
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}

	result, err := h.guard.CheckCompliance(c.Request.Context(), orgID, staffID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

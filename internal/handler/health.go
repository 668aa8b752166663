package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type HealthHandler struct {
	db      *sqlx.DB
	started time.Time
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

func (h *HealthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	overall := "ok"
	dbStatus := "up"
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		overall = "degraded"
		dbStatus = "down"
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"uptime":   time.Since(h.started).String(),
		"database": dbStatus,
	})
}

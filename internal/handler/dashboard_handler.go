package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vinealms/vinea-backend/internal/response"
	"github.com/vinealms/vinea-backend/internal/service"
)

// DashboardHandler serves the admin overview statistics.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats godoc
// GET /api/v1/admin/dashboard
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

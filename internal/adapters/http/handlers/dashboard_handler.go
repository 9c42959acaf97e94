package handlers

import (
	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetMyDashboard returns the dashboard for the caller's role
// @Summary Get my dashboard
// @Description Navigation modules plus the figures the role may see
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetMyDashboard(c *fiber.Ctx) error {
	role, ok := middleware.CurrentRole(c)
	if !ok {
		return response.Forbidden(c, "Access Denied")
	}

	data, err := h.dashboardService.Get(c.Context(), role)
	if err != nil {
		return handleServiceError(c, err, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

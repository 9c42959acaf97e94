package handlers

import (
	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccessHandler serves the role access table
type AccessHandler struct {
	access *domain.AccessTable
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(access *domain.AccessTable) *AccessHandler {
	return &AccessHandler{access: access}
}

// Current returns what the caller's role may see
// @Summary Current access
// @Description Access configuration and navigation modules for the caller's role
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /access [get]
func (h *AccessHandler) Current(c *fiber.Ctx) error {
	role, ok := middleware.CurrentRole(c)
	if !ok {
		return response.Forbidden(c, "Access Denied")
	}

	cfg, err := h.access.For(role)
	if err != nil {
		return response.Forbidden(c, "Access Denied")
	}

	return response.Success(c, "Access retrieved successfully", fiber.Map{
		"access":  cfg,
		"modules": h.access.AvailableModules(role),
	})
}

// Roles returns every role configuration
// @Summary Role configurations
// @Description Access configuration of every role
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /access/roles [get]
func (h *AccessHandler) Roles(c *fiber.Ctx) error {
	return response.Success(c, "Roles retrieved successfully", h.access.All())
}

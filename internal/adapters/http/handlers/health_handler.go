package handlers

import (
	"vpcs-backend/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	// optional dependency checks keyed by name, e.g. redis
	checks map[string]func() error
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checks map[string]func() error) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	mode := ""
	if config.AppConfig != nil {
		mode = config.AppConfig.AppMode
	}
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 VPCS API v1.0 is running",
		"mode":    mode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API, database and optional dependency health
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	checks := fiber.Map{"api": "healthy"}
	status := "ok"

	dbStatus := "healthy"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "unhealthy"
		status = "degraded"
	}
	checks["database"] = dbStatus

	for name, check := range h.checks {
		if err := check(); err != nil {
			checks[name] = "unhealthy"
			status = "degraded"
			continue
		}
		checks[name] = "healthy"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}

// APIInfo handles API v1 info
// @Summary API v1 Info
// @Description Returns API v1 information
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1 [get]
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "VPCS API v1.0",
		"version": "1.0.0",
	})
}

package handlers

import (
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CalculatorHandler handles the material price calculator
type CalculatorHandler struct {
	calculatorService *services.CalculatorService
}

// NewCalculatorHandler creates a new calculator handler
func NewCalculatorHandler(calculatorService *services.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{calculatorService: calculatorService}
}

// Rates returns the configured rate sheet
// @Summary Rate sheet
// @Description Vendors, materials and their rates
// @Tags Calculator
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /calculator/rates [get]
func (h *CalculatorHandler) Rates(c *fiber.Ctx) error {
	return response.Success(c, "Rates retrieved successfully", h.calculatorService.Rates())
}

// Calculate runs the pricing chain
// @Summary Calculate material price
// @Description Every intermediate figure of the two-tier chain. Unknown pairs yield zeros with known=false.
// @Tags Calculator
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CalculateInput true "Vendor, material and weight"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /calculator/calculate [post]
func (h *CalculatorHandler) Calculate(c *fiber.Ctx) error {
	var req services.CalculateInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.calculatorService.Calculate(&req)
	if err != nil {
		return handleServiceError(c, err, "Failed to calculate")
	}

	return response.Success(c, "Calculated successfully", result)
}

package handlers

import (
	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/pagination"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TankerHandler handles tanker endpoints
type TankerHandler struct {
	tankerService *services.TankerService
}

// NewTankerHandler creates a new tanker handler
func NewTankerHandler(tankerService *services.TankerService) *TankerHandler {
	return &TankerHandler{tankerService: tankerService}
}

// List lists tankers
// @Summary List tankers
// @Tags Tankers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Tanker number or transporter"
// @Param status query string false "Active, Inactive or all"
// @Param transporter query string false "Exact transporter name"
// @Success 200 {object} response.Response
// @Router /tankers [get]
func (h *TankerHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	tankers, total, err := h.tankerService.List(c.Context(), &services.ListTankersInput{
		Params:      params,
		Transporter: c.Query("transporter"),
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to list tankers")
	}

	return response.Paginated(c, "Tankers retrieved successfully", tankers, pagination.GetMeta(params, total))
}

// Transporters lists the distinct transporter names
// @Summary Transporter names
// @Description Unique transporter names for the autocomplete, optionally narrowed by q
// @Tags Tankers
// @Produce json
// @Security BearerAuth
// @Param q query string false "Substring filter"
// @Success 200 {object} response.Response
// @Router /tankers/transporters [get]
func (h *TankerHandler) Transporters(c *fiber.Ctx) error {
	names, err := h.tankerService.Transporters(c.Context(), c.Query("q"))
	if err != nil {
		return handleServiceError(c, err, "Failed to list transporters")
	}

	return response.Success(c, "Transporters retrieved successfully", names)
}

// Get gets a tanker by ID
// @Summary Get tanker
// @Tags Tankers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tanker ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /tankers/{id} [get]
func (h *TankerHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid tanker ID")
	}

	tanker, err := h.tankerService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get tanker")
	}

	return response.Success(c, "Tanker retrieved successfully", tanker)
}

// Create registers a tanker
// @Summary Create tanker
// @Description Tanker numbers are unique per transporter
// @Tags Tankers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.TankerInput true "Tanker"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /tankers [post]
func (h *TankerHandler) Create(c *fiber.Ctx) error {
	var req services.TankerInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tanker, err := h.tankerService.Create(c.Context(), &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to create tanker")
	}

	return response.Created(c, "Tanker created successfully", tanker)
}

// Update updates a tanker
// @Summary Update tanker
// @Tags Tankers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tanker ID"
// @Param body body services.TankerInput true "Tanker"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /tankers/{id} [put]
func (h *TankerHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid tanker ID")
	}

	var req services.TankerInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tanker, err := h.tankerService.Update(c.Context(), id, &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update tanker")
	}

	return response.Success(c, "Tanker updated successfully", tanker)
}

// ToggleStatus flips a tanker between Active and Inactive
// @Summary Toggle tanker status
// @Tags Tankers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tanker ID"
// @Success 200 {object} response.Response
// @Router /tankers/{id}/toggle-status [patch]
func (h *TankerHandler) ToggleStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid tanker ID")
	}

	tanker, err := h.tankerService.ToggleStatus(c.Context(), id, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update tanker status")
	}

	return response.Success(c, "Tanker is now "+tanker.Status, tanker)
}

package handlers

import (
	"strconv"

	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/pagination"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BaseCompanyHandler handles base company endpoints
type BaseCompanyHandler struct {
	baseCompanyService *services.BaseCompanyService
}

// NewBaseCompanyHandler creates a new base company handler
func NewBaseCompanyHandler(baseCompanyService *services.BaseCompanyService) *BaseCompanyHandler {
	return &BaseCompanyHandler{baseCompanyService: baseCompanyService}
}

// List lists base companies
// @Summary List base companies
// @Tags BaseCompanies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Name, nickname or GST number"
// @Param status query string false "Active, Inactive or all"
// @Success 200 {object} response.Response
// @Router /base-companies [get]
func (h *BaseCompanyHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	companies, total, err := h.baseCompanyService.List(c.Context(), params)
	if err != nil {
		return handleServiceError(c, err, "Failed to list base companies")
	}

	return response.Paginated(c, "Base companies retrieved successfully", companies, pagination.GetMeta(params, total))
}

// Get gets a base company by ID
// @Summary Get base company
// @Tags BaseCompanies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Base company ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /base-companies/{id} [get]
func (h *BaseCompanyHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid base company ID")
	}

	company, err := h.baseCompanyService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get base company")
	}

	return response.Success(c, "Base company retrieved successfully", company)
}

// NicknameAvailability checks a nickname before saving
// @Summary Nickname availability
// @Description Format check and lookup. The database constraint still decides on save.
// @Tags BaseCompanies
// @Produce json
// @Security BearerAuth
// @Param nickname query string true "Nickname"
// @Param exclude_id query int false "Base company being edited"
// @Success 200 {object} response.Response
// @Router /base-companies/nickname-availability [get]
func (h *BaseCompanyHandler) NicknameAvailability(c *fiber.Ctx) error {
	var excludeID uint
	if raw := c.Query("exclude_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid exclude_id")
		}
		excludeID = uint(id)
	}

	check, err := h.baseCompanyService.CheckNickname(c.Context(), c.Query("nickname"), excludeID)
	if err != nil {
		return handleServiceError(c, err, "Failed to check nickname")
	}

	return response.Success(c, check.Message, check)
}

// Create creates a base company
// @Summary Create base company
// @Tags BaseCompanies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.BaseCompanyInput true "Base company"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /base-companies [post]
func (h *BaseCompanyHandler) Create(c *fiber.Ctx) error {
	var req services.BaseCompanyInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	company, err := h.baseCompanyService.Create(c.Context(), &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to create base company")
	}

	return response.Created(c, "Base company created successfully", company)
}

// Update updates a base company
// @Summary Update base company
// @Tags BaseCompanies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Base company ID"
// @Param body body services.BaseCompanyInput true "Base company"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /base-companies/{id} [put]
func (h *BaseCompanyHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid base company ID")
	}

	var req services.BaseCompanyInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	company, err := h.baseCompanyService.Update(c.Context(), id, &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update base company")
	}

	return response.Success(c, "Base company updated successfully", company)
}

// ToggleStatus flips a base company between Active and Inactive
// @Summary Toggle base company status
// @Tags BaseCompanies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Base company ID"
// @Success 200 {object} response.Response
// @Router /base-companies/{id}/toggle-status [patch]
func (h *BaseCompanyHandler) ToggleStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid base company ID")
	}

	company, err := h.baseCompanyService.ToggleStatus(c.Context(), id, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update base company status")
	}

	return response.Success(c, "Base company is now "+company.Status, company)
}

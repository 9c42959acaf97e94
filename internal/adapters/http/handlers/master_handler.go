package handlers

import (
	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/pagination"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MasterHandler handles party and material master data endpoints
type MasterHandler struct {
	partyService    *services.PartyService
	materialService *services.MaterialService
}

// NewMasterHandler creates a new master handler
func NewMasterHandler(partyService *services.PartyService, materialService *services.MaterialService) *MasterHandler {
	return &MasterHandler{
		partyService:    partyService,
		materialService: materialService,
	}
}

// ============================================================
// Parties
// ============================================================

// ListParties lists parties
// @Summary List parties
// @Tags Parties
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Name, nickname, city or contact"
// @Param status query string false "Active, Inactive or all"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /parties [get]
func (h *MasterHandler) ListParties(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	parties, total, err := h.partyService.List(c.Context(), params)
	if err != nil {
		return handleServiceError(c, err, "Failed to list parties")
	}

	return response.Paginated(c, "Parties retrieved successfully", parties, pagination.GetMeta(params, total))
}

// GetParty gets a party by ID
// @Summary Get party
// @Tags Parties
// @Produce json
// @Security BearerAuth
// @Param id path int true "Party ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /parties/{id} [get]
func (h *MasterHandler) GetParty(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid party ID")
	}

	party, err := h.partyService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get party")
	}

	return response.Success(c, "Party retrieved successfully", party)
}

// CreateParty creates a party
// @Summary Create party
// @Tags Parties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PartyInput true "Party"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /parties [post]
func (h *MasterHandler) CreateParty(c *fiber.Ctx) error {
	var req services.PartyInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	party, err := h.partyService.Create(c.Context(), &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to create party")
	}

	return response.Created(c, "Party created successfully", party)
}

// UpdateParty updates a party
// @Summary Update party
// @Tags Parties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Party ID"
// @Param body body services.PartyInput true "Party"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /parties/{id} [put]
func (h *MasterHandler) UpdateParty(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid party ID")
	}

	var req services.PartyInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	party, err := h.partyService.Update(c.Context(), id, &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update party")
	}

	return response.Success(c, "Party updated successfully", party)
}

// ToggleParty flips a party between Active and Inactive
// @Summary Toggle party status
// @Tags Parties
// @Produce json
// @Security BearerAuth
// @Param id path int true "Party ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /parties/{id}/toggle-status [patch]
func (h *MasterHandler) ToggleParty(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid party ID")
	}

	party, err := h.partyService.ToggleStatus(c.Context(), id, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update party status")
	}

	return response.Success(c, "Party is now "+party.Status, party)
}

// ============================================================
// Materials
// ============================================================

// ListMaterials lists materials
// @Summary List materials
// @Tags Materials
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Name, category or description"
// @Param status query string false "Active, Inactive or all"
// @Success 200 {object} response.Response
// @Router /materials [get]
func (h *MasterHandler) ListMaterials(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	materials, total, err := h.materialService.List(c.Context(), params)
	if err != nil {
		return handleServiceError(c, err, "Failed to list materials")
	}

	return response.Paginated(c, "Materials retrieved successfully", materials, pagination.GetMeta(params, total))
}

// GetMaterial gets a material by ID
// @Summary Get material
// @Tags Materials
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /materials/{id} [get]
func (h *MasterHandler) GetMaterial(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid material ID")
	}

	material, err := h.materialService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get material")
	}

	return response.Success(c, "Material retrieved successfully", material)
}

// CreateMaterial creates a material
// @Summary Create material
// @Tags Materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.MaterialInput true "Material"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /materials [post]
func (h *MasterHandler) CreateMaterial(c *fiber.Ctx) error {
	var req services.MaterialInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	material, err := h.materialService.Create(c.Context(), &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to create material")
	}

	return response.Created(c, "Material created successfully", material)
}

// UpdateMaterial updates a material
// @Summary Update material
// @Tags Materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Param body body services.MaterialInput true "Material"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /materials/{id} [put]
func (h *MasterHandler) UpdateMaterial(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid material ID")
	}

	var req services.MaterialInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	material, err := h.materialService.Update(c.Context(), id, &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update material")
	}

	return response.Success(c, "Material updated successfully", material)
}

// ToggleMaterial flips a material between Active and Inactive
// @Summary Toggle material status
// @Tags Materials
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Success 200 {object} response.Response
// @Router /materials/{id}/toggle-status [patch]
func (h *MasterHandler) ToggleMaterial(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid material ID")
	}

	material, err := h.materialService.ToggleStatus(c.Context(), id, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update material status")
	}

	return response.Success(c, "Material is now "+material.Status, material)
}

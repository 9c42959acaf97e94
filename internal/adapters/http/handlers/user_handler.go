package handlers

import (
	"strings"

	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/pagination"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles approved-user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers handles listing approved users
// @Summary List approved users
// @Description Paginated list with role, status and search filters
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Email or name"
// @Param role query string false "Administrator, Supervisor or Management"
// @Param status query string false "Active, Inactive, Suspended, Decommissioned or all"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	if strings.EqualFold(params.Status, "all") {
		params.Status = ""
	}
	role := c.Query("role")
	if strings.EqualFold(role, "all") {
		role = ""
	}

	users, total, err := h.userService.List(c.Context(), &services.ListUsersInput{Params: params, Role: role})
	if err != nil {
		return handleServiceError(c, err, "Failed to list users")
	}

	return response.Paginated(c, "Users retrieved successfully", users, pagination.GetMeta(params, total))
}

// GetUser handles getting an approved user by ID
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", user.ToResponse())
}

// CreateUser approves a new account
// @Summary Approve user
// @Description Adds an email to the approved-user list with a role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateUserInput true "User"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req services.CreateUserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.Create(c.Context(), &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to create user")
	}

	return response.Created(c, "User approved successfully", user.ToResponse())
}

// UpdateUserStatus changes an approved user's status
// @Summary Update user status
// @Description Leaving Active ends every session of the user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateStatusInput true "Status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/status [patch]
func (h *UserHandler) UpdateUserStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req services.UpdateStatusInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateStatus(c.Context(), id, &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update user status")
	}

	return response.Success(c, "User status updated successfully", user.ToResponse())
}

// UserStats counts approved users
// @Summary User statistics
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/stats [get]
func (h *UserHandler) UserStats(c *fiber.Ctx) error {
	stats, err := h.userService.Stats(c.Context())
	if err != nil {
		return handleServiceError(c, err, "Failed to load user statistics")
	}

	return response.Success(c, "User statistics retrieved successfully", stats)
}

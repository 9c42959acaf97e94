package handlers

import (
	"errors"
	"strconv"

	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// handleServiceError maps a service error onto the response envelope.
// fallback is the message sent for unexpected failures.
func handleServiceError(c *fiber.Ctx, err error, fallback string) error {
	var verr *domain.ValidationError
	var conflict *domain.ConflictError
	var denied *services.AccessDeniedError

	switch {
	case errors.As(err, &verr):
		return response.ValidationFailed(c, verr.Message, verr.Fields)
	case errors.As(err, &conflict):
		return response.Conflict(c, conflict.Message)
	case errors.Is(err, domain.ErrDuplicateEntry):
		return response.Conflict(c, "Record already exists")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Record not found")
	case errors.As(err, &denied):
		return response.Forbidden(c, "Access Denied")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to access this resource")
	case errors.Is(err, domain.ErrLockNotHeld):
		return response.Conflict(c, "Another change to this record is in progress, please try again")
	case errors.Is(err, domain.ErrNotConfigured):
		return response.ServiceUnavailable(c, "This feature is not configured on the server")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		config.GetLogger().WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"error":  err.Error(),
		}).Error("❌ " + fallback)
		return response.InternalServerError(c, fallback)
	}
}

// parseID reads the :id route parameter
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

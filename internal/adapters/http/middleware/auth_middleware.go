package middleware

import (
	"context"
	"errors"
	"strings"

	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/pkg/jwt"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the auth middlewares
const (
	LocalUserID = "userID"
	LocalEmail  = "email"
	LocalRole   = "role"
	LocalKind   = "kind"
)

// AccessToken returns the access token from the cookie or the Authorization header
func AccessToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// SessionChecker looks up the stored role of a signed-in user. It fails with
// domain.ErrUserInactive once the account may no longer hold a session.
type SessionChecker interface {
	CurrentUserRole(ctx context.Context, userID uint) (domain.Role, error)
}

// AuthMiddleware creates authentication middleware. User tokens are checked
// against the stored account on every request, so a status change ends the
// session without waiting for the token to expire. A nil checker trusts the
// token claims.
func AuthMiddleware(cfg *config.Config, sessions SessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := AccessToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		setClaims(c, claims)

		if claims.Kind == jwt.KindUser && sessions != nil {
			role, err := sessions.CurrentUserRole(c.UserContext(), claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUserInactive) {
					return response.Unauthorized(c, "Session is no longer valid")
				}
				return response.InternalServerError(c, "Failed to verify session")
			}
			c.Locals(LocalRole, string(role))
		}
		return c.Next()
	}
}

// OptionalAuth doesn't require auth but sets user info if a valid token is present
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if accessToken := AccessToken(c); accessToken != "" {
			if claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret); err == nil {
				setClaims(c, claims)
			}
		}
		return c.Next()
	}
}

func setClaims(c *fiber.Ctx, claims *jwt.Claims) {
	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalEmail, claims.Email)
	c.Locals(LocalRole, claims.Role)
	c.Locals(LocalKind, claims.Kind)
}

// RequireModule lets the request through only when the caller's role has
// access to at least one of the modules
func RequireModule(access *domain.AccessTable, modules ...domain.Module) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := CurrentRole(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, m := range modules {
			if access.HasModuleAccess(role, m) {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := CurrentRole(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the Administrator role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdministrator)
}

// UserSessionOnly rejects role-code sessions, which have no user row
func UserSessionOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if kind, _ := c.Locals(LocalKind).(string); kind != jwt.KindUser {
			return response.Forbidden(c, "This action requires a signed-in user account")
		}
		return c.Next()
	}
}

// CurrentRole returns the role set by the auth middleware
func CurrentRole(c *fiber.Ctx) (domain.Role, bool) {
	raw, ok := c.Locals(LocalRole).(string)
	if !ok {
		return "", false
	}
	return domain.ParseRole(raw)
}

// Actor builds the audit actor for the current request
func Actor(c *fiber.Ctx) domain.Actor {
	userID, _ := c.Locals(LocalUserID).(uint)
	email, _ := c.Locals(LocalEmail).(string)
	role, _ := CurrentRole(c)
	return domain.Actor{UserID: userID, Email: email, Role: role}
}

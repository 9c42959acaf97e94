package handlers

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const oauthNonceCookie = "oauth_nonce"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// GoogleURL starts the Google sign-in round trip
// @Summary Google sign-in URL
// @Description Returns the provider URL and binds the round trip to this browser with a nonce cookie
// @Tags Auth
// @Produce json
// @Param redirect query string false "SPA path to land on after sign-in"
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /auth/google/url [get]
func (h *AuthHandler) GoogleURL(c *fiber.Ctx) error {
	start, err := h.authService.BeginOAuth(c.Query("redirect"))
	if err != nil {
		return handleServiceError(c, err, "Failed to start sign-in")
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthNonceCookie,
		Value:    start.Nonce,
		Path:     "/",
		MaxAge:   h.cfg.OAuth.StateTTLMinutes * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Domain:   h.cfg.Cookie.Domain,
	})

	return response.Success(c, "Redirect to Google to sign in", fiber.Map{
		"url":   start.URL,
		"state": domain.SessionState{Phase: domain.PhaseAuthenticatingOAuth},
	})
}

// GoogleCallback completes the Google sign-in round trip
// @Summary Google sign-in callback
// @Description Exchanges the code, checks the approved-user list and issues a session
// @Tags Auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "Signed state"
// @Success 200 {object} response.Response
// @Success 302 "Redirect to the SPA"
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if providerErr := c.Query("error"); providerErr != "" {
		return h.finishDenied(c, "Sign-in was cancelled")
	}

	nonce := c.Cookies(oauthNonceCookie)
	h.clearCookie(c, oauthNonceCookie)

	result, err := h.authService.CompleteOAuth(c.Context(), c.Query("code"), c.Query("state"), nonce)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccessDenied):
			return h.finishDenied(c, "Access Denied")
		case errors.Is(err, domain.ErrInvalidState):
			return response.BadRequest(c, "Sign-in session expired, please try again")
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Unauthorized(c, "Google sign-in failed")
		default:
			return handleServiceError(c, err, "Failed to complete sign-in")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	if target := h.postLoginURL(result.Redirect, ""); target != "" {
		return c.Redirect(target, fiber.StatusFound)
	}
	return response.Success(c, "Login successful", result)
}

// finishDenied ends a rejected round trip. No session cookie is set.
func (h *AuthHandler) finishDenied(c *fiber.Ctx, message string) error {
	if target := h.postLoginURL("", "access_denied"); target != "" {
		return c.Redirect(target, fiber.StatusFound)
	}
	return response.Error(c, fiber.StatusForbidden, message)
}

// postLoginURL joins the SPA base with a site-relative path and an optional error code
func (h *AuthHandler) postLoginURL(path, errCode string) string {
	base := h.cfg.OAuth.PostLoginRedirect
	if base == "" {
		return ""
	}

	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	if path != "" {
		u.Path = strings.TrimSuffix(u.Path, "/") + path
	}
	if errCode != "" {
		q := u.Query()
		q.Set("error", errCode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// LoginWithCode handles the legacy role-code login
// @Summary Role code login
// @Description Sign in with a six-digit role code. No refresh token is issued.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.CodeLoginInput true "Role code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login/code [post]
func (h *AuthHandler) LoginWithCode(c *fiber.Ctx) error {
	var req services.CodeLoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.LoginWithCode(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid code")
		default:
			return handleServiceError(c, err, "Failed to login")
		}
	}

	h.setAuthCookies(c, result.AccessToken, "")

	return response.Success(c, "Login successful", result)
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Refresh access token using refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	result, err := h.authService.RefreshToken(c.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token expired, please login again")
		case errors.Is(err, domain.ErrTokenRevoked):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token revoked, please login again")
		case errors.Is(err, domain.ErrTokenInvalid):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Invalid refresh token")
		case errors.Is(err, domain.ErrUserInactive), errors.Is(err, domain.ErrAccessDenied):
			h.clearAuthCookies(c)
			return response.Forbidden(c, "User account is inactive")
		default:
			return handleServiceError(c, err, "Failed to refresh token")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Token refreshed successfully", result)
}

// Logout handles user logout
// @Summary Logout user
// @Description Logout user and revoke refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if refreshToken := c.Cookies("refresh_token"); refreshToken != "" {
		_ = h.authService.Logout(c.Context(), refreshToken)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", fiber.Map{
		"state": domain.SessionState{Phase: domain.PhaseUnauthenticated},
	})
}

// LogoutAll handles logout from all devices
// @Summary Logout from all devices
// @Description Revoke all refresh tokens for the user
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	if err := h.authService.LogoutAll(c.Context(), middleware.Actor(c)); err != nil {
		return response.InternalServerError(c, "Failed to logout from all devices")
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out from all devices", nil)
}

// Me returns the current user and what the role may see
// @Summary Get current user
// @Description Get the signed-in user's information and access configuration
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	view, err := h.authService.ResolveSession(c.Context(), middleware.AccessToken(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to load session")
	}
	if !view.State.IsAuthenticated() {
		h.clearAuthCookies(c)
		return response.Unauthorized(c, "Session is no longer valid")
	}

	return response.Success(c, "User retrieved successfully", view)
}

// Session resolves the session state of the caller without requiring one
// @Summary Session check
// @Description Resolves the caller's session. A missing or invalid token yields Unauthenticated.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	view, err := h.authService.ResolveSession(c.Context(), middleware.AccessToken(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to check session")
	}

	return response.Success(c, "Session resolved", view)
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})

	// role-code sessions have no refresh token
	if refreshToken == "" {
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	h.clearCookie(c, "access_token")
	h.clearCookie(c, "refresh_token")
}

func (h *AuthHandler) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

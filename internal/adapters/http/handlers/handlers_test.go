package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/core/pricing"
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/jwt"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-secret"

func testConfig() *config.Config {
	return &config.Config{
		JWT:    config.JWTConfig{Secret: testSecret, RefreshSecret: "handler-refresh", AccessTokenMins: 15, RefreshTokenDays: 7},
		OAuth:  config.OAuthConfig{StateTTLMinutes: 10},
		Cookie: config.CookieConfig{SameSite: "lax"},
	}
}

func do(t *testing.T, app *fiber.App, method, path, body, token string) (int, response.Response) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out response.Response
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", &domain.ValidationError{Message: "Amount must be greater than 0", Fields: map[string]string{"amount": "Amount must be greater than 0"}}, fiber.StatusBadRequest, "Amount must be greater than 0"},
		{"conflict", domain.NewConflictError("Nickname %q is already taken", "ACME"), fiber.StatusConflict, `Nickname "ACME" is already taken`},
		{"duplicate", fmt.Errorf("create: %w", domain.ErrDuplicateEntry), fiber.StatusConflict, "Record already exists"},
		{"not found", domain.ErrNotFound, fiber.StatusNotFound, "Record not found"},
		{"access denied", &services.AccessDeniedError{Reason: "not approved"}, fiber.StatusForbidden, "Access Denied"},
		{"forbidden", domain.ErrForbidden, fiber.StatusForbidden, "You don't have permission to access this resource"},
		{"lock", domain.ErrLockNotHeld, fiber.StatusConflict, "Another change to this record is in progress, please try again"},
		{"not configured", domain.ErrNotConfigured, fiber.StatusServiceUnavailable, "This feature is not configured on the server"},
		{"invalid input", domain.ErrInvalidInput, fiber.StatusBadRequest, "invalid input"},
		{"unexpected", errors.New("connection reset"), fiber.StatusInternalServerError, "Failed to do the thing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return handleServiceError(c, tt.err, "Failed to do the thing")
			})

			status, body := do(t, app, fiber.MethodGet, "/", "", "")
			assert.Equal(t, tt.status, status)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestHandleServiceError_ValidationFields(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return handleServiceError(c, &domain.ValidationError{
			Message: "Validation failed",
			Fields:  map[string]string{"party": "Party is required"},
		}, "unused")
	})

	_, body := do(t, app, fiber.MethodGet, "/", "", "")
	assert.Equal(t, map[string]string{"party": "Party is required"}, body.Fields)
}

func TestParseID(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return response.BadRequest(c, "Invalid ID")
		}
		return response.Success(c, "ok", id)
	})

	status, body := do(t, app, fiber.MethodGet, "/42", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 42, body.Data)

	for _, bad := range []string{"0", "abc", "-3", "1.5"} {
		status, _ := do(t, app, fiber.MethodGet, "/"+bad, "", "")
		assert.Equal(t, fiber.StatusBadRequest, status, bad)
	}
}

func TestCalculatorHandler(t *testing.T) {
	h := NewCalculatorHandler(services.NewCalculatorService(pricing.Default()))
	app := fiber.New()
	app.Get("/rates", h.Rates)
	app.Post("/calculate", h.Calculate)

	t.Run("rates", func(t *testing.T) {
		status, body := do(t, app, fiber.MethodGet, "/rates", "", "")
		require.Equal(t, fiber.StatusOK, status)

		data, ok := body.Data.(map[string]interface{})
		require.True(t, ok)
		vendors, ok := data["vendors"].([]interface{})
		require.True(t, ok)
		assert.NotEmpty(t, vendors)
	})

	t.Run("known pair", func(t *testing.T) {
		status, body := do(t, app, fiber.MethodPost, "/calculate", `{"vendor":"genetique","material":"etp","weight":"10"}`, "")
		require.Equal(t, fiber.StatusOK, status)

		data := body.Data.(map[string]interface{})
		assert.Equal(t, true, data["known"])
	})

	t.Run("unknown pair", func(t *testing.T) {
		status, body := do(t, app, fiber.MethodPost, "/calculate", `{"vendor":"nobody","material":"etp","weight":"10"}`, "")
		require.Equal(t, fiber.StatusOK, status)

		data := body.Data.(map[string]interface{})
		assert.Equal(t, false, data["known"])
	})

	t.Run("missing vendor", func(t *testing.T) {
		status, body := do(t, app, fiber.MethodPost, "/calculate", `{"material":"etp","weight":"10"}`, "")
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.False(t, body.Success)
	})

	t.Run("malformed body", func(t *testing.T) {
		status, _ := do(t, app, fiber.MethodPost, "/calculate", `{"vendor":`, "")
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestAccessHandler(t *testing.T) {
	cfg := testConfig()
	h := NewAccessHandler(domain.DefaultAccessTable())
	app := fiber.New()
	app.Get("/access", middleware.AuthMiddleware(cfg, nil), h.Current)
	app.Get("/access/roles", middleware.AuthMiddleware(cfg, nil), h.Roles)

	token, err := jwt.GenerateCodeToken(string(domain.RoleSupervisor), testSecret, 15)
	require.NoError(t, err)

	t.Run("current role", func(t *testing.T) {
		status, body := do(t, app, fiber.MethodGet, "/access", "", token)
		require.Equal(t, fiber.StatusOK, status)

		data := body.Data.(map[string]interface{})
		access := data["access"].(map[string]interface{})
		assert.Equal(t, "Supervisor", access["role"])
		assert.ElementsMatch(t, []interface{}{"calculator", "tanker-management"}, access["modules"])
		assert.Len(t, data["modules"], 2)
	})

	t.Run("all roles", func(t *testing.T) {
		status, body := do(t, app, fiber.MethodGet, "/access/roles", "", token)
		require.Equal(t, fiber.StatusOK, status)
		assert.Len(t, body.Data, len(domain.Roles()))
	})

	t.Run("no token", func(t *testing.T) {
		status, _ := do(t, app, fiber.MethodGet, "/access", "", "")
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})
}

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := testConfig()
	authService := services.NewAuthService(nil, nil, nil, nil, domain.DefaultAccessTable(), nil, cfg)
	h := NewAuthHandler(authService, cfg)

	app := fiber.New()
	app.Get("/session", middleware.OptionalAuth(cfg), h.Session)
	app.Post("/login/code", h.LoginWithCode)
	return app
}

func sessionPhase(t *testing.T, body response.Response) string {
	t.Helper()
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	state, ok := data["state"].(map[string]interface{})
	require.True(t, ok)
	return state["phase"].(string)
}

func TestAuthHandler_Session(t *testing.T) {
	app := newAuthApp(t)

	t.Run("no token", func(t *testing.T) {
		status, body := do(t, app, fiber.MethodGet, "/session", "", "")
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, string(domain.PhaseUnauthenticated), sessionPhase(t, body))
	})

	t.Run("invalid token", func(t *testing.T) {
		status, body := do(t, app, fiber.MethodGet, "/session", "", "tampered.token.value")
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, string(domain.PhaseUnauthenticated), sessionPhase(t, body))
	})

	t.Run("role code session", func(t *testing.T) {
		token, err := jwt.GenerateCodeToken(string(domain.RoleManagement), testSecret, 15)
		require.NoError(t, err)

		status, body := do(t, app, fiber.MethodGet, "/session", "", token)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, string(domain.PhaseAuthenticated), sessionPhase(t, body))

		data := body.Data.(map[string]interface{})
		assert.Equal(t, jwt.KindCode, data["kind"])
		assert.Len(t, data["modules"], 3)
	})
}

func TestAuthHandler_LoginWithCode_Validation(t *testing.T) {
	app := newAuthApp(t)

	for _, body := range []string{`{"code":"12ab56"}`, `{"code":"12345"}`, `{"code":""}`} {
		status, resp := do(t, app, fiber.MethodPost, "/login/code", body, "")
		assert.Equal(t, fiber.StatusBadRequest, status, body)
		assert.False(t, resp.Success)
	}
}

package middleware

import (
	"testing"

	"vpcs-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func limitedApp(h fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/", h, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuthRateLimiter(t *testing.T) {
	app := limitedApp(AuthRateLimiter(config.RateLimitConfig{AuthPerMinute: 2}))

	assert.Equal(t, fiber.StatusOK, get(t, app, ""))
	assert.Equal(t, fiber.StatusOK, get(t, app, ""))
	assert.Equal(t, fiber.StatusTooManyRequests, get(t, app, ""))
}

func TestStrictRateLimiter_ZeroDisables(t *testing.T) {
	app := limitedApp(StrictRateLimiter(config.RateLimitConfig{}))

	for i := 0; i < 10; i++ {
		assert.Equal(t, fiber.StatusOK, get(t, app, ""))
	}
}

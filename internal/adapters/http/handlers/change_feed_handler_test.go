package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSubscriber replays a fixed list of events and then closes
type scriptedSubscriber struct {
	events []domain.ChangeEvent
	topics []string
}

func (s *scriptedSubscriber) Subscribe(_ context.Context, topics ...string) (<-chan domain.ChangeEvent, func(), error) {
	s.topics = topics
	ch := make(chan domain.ChangeEvent, len(s.events))
	for _, ev := range s.events {
		ch <- ev
	}
	close(ch)
	return ch, func() {}, nil
}

func newStreamApp(t *testing.T, sub services.Subscriber) *fiber.App {
	t.Helper()

	h := NewChangeFeedHandler(services.NewChangeFeedService(sub, domain.DefaultAccessTable()))
	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	app.Get("/changes/stream", middleware.AuthMiddleware(testConfig(), nil), h.Stream)
	return app
}

func stream(t *testing.T, app *fiber.App, query, token string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, "/changes/stream"+query, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestChangeFeedHandler_Stream(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	sub := &scriptedSubscriber{events: []domain.ChangeEvent{
		{Topic: domain.TopicTankers, Action: domain.ActionCreated, ID: 3, At: at},
		{Topic: domain.TopicSessions, Action: domain.ActionRevoked, ID: 8, At: at},
		{Topic: domain.TopicSessions, Action: domain.ActionRevoked, ID: 7, At: at},
		{Topic: domain.TopicTankers, Action: domain.ActionUpdated, ID: 4, At: at},
	}}
	app := newStreamApp(t, sub)

	token, err := jwt.GenerateAccessToken(7, "sup@vpcs.test", string(domain.RoleSupervisor), testSecret, 15)
	require.NoError(t, err)

	t.Run("own revoke ends the stream", func(t *testing.T) {
		status, body := stream(t, app, "?topics=tankers,sessions", token)
		require.Equal(t, fiber.StatusOK, status)

		assert.True(t, strings.HasPrefix(body, "event: connected\n"), body)
		assert.Contains(t, body, `"topics":["tankers","sessions"]`)
		assert.Equal(t, []string{domain.TopicTankers, domain.TopicSessions}, sub.topics)

		assert.Equal(t, 1, strings.Count(body, "event: tankers\n"), body)
		assert.Contains(t, body, `"id":3`)
		assert.NotContains(t, body, `"id":4`, "nothing after the revoke")

		assert.Equal(t, 1, strings.Count(body, "event: sessions\n"), body)
		assert.Contains(t, body, `"id":7`)
		assert.NotContains(t, body, `"id":8`, "other users' sessions stay private")
	})

	t.Run("topic outside the role", func(t *testing.T) {
		status, _ := do(t, app, fiber.MethodGet, "/changes/stream?topics=cashflow", "", token)
		assert.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("unknown topic", func(t *testing.T) {
		status, _ := do(t, app, fiber.MethodGet, "/changes/stream?topics=weather", "", token)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("no subscriber", func(t *testing.T) {
		status, _ := do(t, newStreamApp(t, nil), fiber.MethodGet, "/changes/stream", "", token)
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
	})
}

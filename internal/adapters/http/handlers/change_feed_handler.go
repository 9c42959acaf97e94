package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const heartbeatInterval = 30 * time.Second

// ChangeFeedHandler streams change notifications to the browser
type ChangeFeedHandler struct {
	feed *services.ChangeFeedService
}

// NewChangeFeedHandler creates a new change feed handler
func NewChangeFeedHandler(feed *services.ChangeFeedService) *ChangeFeedHandler {
	return &ChangeFeedHandler{feed: feed}
}

// Stream sends change events for the requested topics
// @Summary Change notifications
// @Description Server-sent events for the tables the caller's role may see. Clients refetch on each event.
// @Tags Realtime
// @Produce text/event-stream
// @Security BearerAuth
// @Param topics query string false "Comma separated topics, default every allowed topic"
// @Success 200 {string} string "event stream"
// @Failure 403 {object} response.Response
// @Router /changes/stream [get]
func (h *ChangeFeedHandler) Stream(c *fiber.Ctx) error {
	var topics []string
	for _, t := range strings.Split(c.Query("topics"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return streamChanges(c, h.feed, topics...)
}

// streamChanges subscribes for the caller's role and writes events until the
// client goes away or the caller's session is revoked
func streamChanges(c *fiber.Ctx, feed *services.ChangeFeedService, topics ...string) error {
	actor := middleware.Actor(c)
	role := actor.Role
	if role == "" {
		return response.Forbidden(c, "Access Denied")
	}

	// The stream writer runs after the handler returns, so the subscription
	// cannot hang off the request context.
	ctx, stop := context.WithCancel(context.Background())
	events, cancel, allowed, err := feed.Subscribe(ctx, actor, topics...)
	if err != nil {
		stop()
		return handleServiceError(c, err, "Failed to open change stream")
	}

	clientID := uuid.NewString()
	logger := config.GetLogger().WithFields(logrus.Fields{"client_id": clientID, "role": role})

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	var writer fasthttp.StreamWriter = func(w *bufio.Writer) {
		defer stop()
		defer cancel()
		logger.Info("📡 Change stream opened")

		hello, _ := json.Marshal(fiber.Map{"client_id": clientID, "topics": allowed})
		fmt.Fprintf(w, "event: connected\ndata: %s\n\n", hello)
		if err := w.Flush(); err != nil {
			return
		}

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := writeChangeEvent(w, ev); err != nil {
					logger.Info("📡 Change stream client disconnected")
					return
				}
				if services.EndsSession(ev) {
					logger.Info("📡 Change stream closed, session revoked")
					return
				}

			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					logger.Info("📡 Change stream client disconnected")
					return
				}
			}
		}
	}
	c.Context().SetBodyStreamWriter(writer)

	return nil
}

// writeChangeEvent writes one SSE frame and flushes it
func writeChangeEvent(w *bufio.Writer, ev domain.ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Topic, data)
	return w.Flush()
}

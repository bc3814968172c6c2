package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sanad-app/sanad-go-api/internal/dto"
	"github.com/sanad-app/sanad-go-api/internal/repository"
	"github.com/sanad-app/sanad-go-api/internal/service"
	"github.com/sanad-app/sanad-go-api/internal/utils"
)

// AlertHandler handles alert endpoints, including the live SSE stream.
type AlertHandler struct {
	alerts    service.AlertService
	logger    zerolog.Logger
	keepAlive time.Duration
}

// NewAlertHandler constructs the handler.
func NewAlertHandler(alerts service.AlertService, keepAlive time.Duration, logger zerolog.Logger) *AlertHandler {
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}
	return &AlertHandler{
		alerts:    alerts,
		logger:    logger.With().Str("component", "alert_handler").Logger(),
		keepAlive: keepAlive,
	}
}

// Register wires the alert routes.
func (h *AlertHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/stream", h.stream)
	router.Post("/evaluate", h.evaluate)
	router.Patch("/:id/read", h.markRead)
}

func (h *AlertHandler) list(c *fiber.Ctx) error {
	filter := repository.AlertFilter{
		UnreadOnly: strings.EqualFold(c.Query("unread"), "true"),
	}
	if raw := strings.TrimSpace(c.Query("student_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
		}
		id := uint(parsed)
		filter.StudentID = &id
	}

	alerts, err := h.alerts.List(c.UserContext(), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list alerts")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list alerts")
	}

	return utils.SendSuccess(c, "alerts retrieved", alerts)
}

func (h *AlertHandler) evaluate(c *fiber.Ctx) error {
	result, err := h.alerts.Evaluate(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("alert evaluation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "alert evaluation failed")
	}

	return utils.SendSuccess(c, "alerts evaluated", result)
}

func (h *AlertHandler) markRead(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid alert id")
	}

	alert, err := h.alerts.MarkRead(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "alert not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to mark alert read")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to mark alert read")
	}

	return utils.SendSuccess(c, "alert updated", alert)
}

func (h *AlertHandler) stream(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	stream, cleanup := h.alerts.Subscribe()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			cleanup()
			cancel()
		}()

		ticker := time.NewTicker(h.keepAlive / 2)
		defer ticker.Stop()

		for {
			select {
			case alert, ok := <-stream:
				if !ok {
					return
				}
				if err := writeAlertEvent(w, alert); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write alert event")
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write alert keepalive")
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}

func writeAlertEvent(w *bufio.Writer, alert dto.AlertResponse) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: alert\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, ": keep-alive %s\n\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return w.Flush()
}

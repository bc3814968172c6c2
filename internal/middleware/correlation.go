package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	correlationHeader = "X-Correlation-ID"
	requestIDHeader   = "X-Request-ID"
	correlationLocal  = "correlation_id"
)

type correlationIDKey struct{}

// CorrelationID stamps every request with a correlation identifier, taking
// the caller's header when present and minting one otherwise. The id is
// echoed back on the response and threaded through the user context so
// service-layer logs can carry it.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(correlationHeader))
		if id == "" {
			id = strings.TrimSpace(c.Get(requestIDHeader))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(correlationLocal, id)
		c.Set(correlationHeader, id)
		c.SetUserContext(context.WithValue(c.UserContext(), correlationIDKey{}, id))

		return c.Next()
	}
}

// CorrelationIDFromContext reads the correlation identifier off a context.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// GetCorrelationID returns the correlation identifier bound to the request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals(correlationLocal).(string); ok && id != "" {
		return id
	}
	return CorrelationIDFromContext(c.UserContext())
}

package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sanad-app/sanad-go-api/internal/config"
	"github.com/sanad-app/sanad-go-api/internal/utils"
)

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Uptime      string    `json:"uptime"`
}

// HealthCheck reports process liveness and basic identity. Uptime is
// measured from handler construction, which coincides with process start.
func HealthCheck(cfg config.Config) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Uptime:      time.Since(startedAt).Round(time.Second).String(),
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}

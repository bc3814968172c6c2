package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sanad-app/sanad-go-api/internal/service"
	"github.com/sanad-app/sanad-go-api/internal/utils"
)

// SeedHandler exposes tooling endpoints for seeding demo data.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/demo", h.demo)
}

func (h *SeedHandler) demo(c *fiber.Ctx) error {
	token := c.Get("X-Seed-Token")

	result, err := h.service.SeedDemoRoster(c.UserContext(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSeedDisabled):
			return utils.SendError(c, fiber.StatusForbidden, "seeding disabled")
		case errors.Is(err, service.ErrSeedUnauthorized):
			return utils.SendError(c, fiber.StatusForbidden, "invalid token")
		default:
			h.logger.Error().Err(err).Msg("seed operation failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "seed operation failed")
		}
	}

	return utils.SendSuccess(c, "demo roster seeded", result)
}

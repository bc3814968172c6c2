package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sanad-app/sanad-go-api/internal/service"
	"github.com/sanad-app/sanad-go-api/internal/utils"
)

// AnalysisHandler exposes the risk analysis pipeline over HTTP.
type AnalysisHandler struct {
	analysis service.AnalysisService
	logger   zerolog.Logger
}

// NewAnalysisHandler constructs the handler.
func NewAnalysisHandler(analysis service.AnalysisService, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysis: analysis,
		logger:   logger.With().Str("component", "analysis_handler").Logger(),
	}
}

// Register wires the dashboard routes.
func (h *AnalysisHandler) Register(router fiber.Router) {
	router.Get("/overview", h.overview)
}

// RegisterStudentRoutes wires the per-student analysis route.
func (h *AnalysisHandler) RegisterStudentRoutes(router fiber.Router) {
	router.Get("/:id/analysis", h.studentAnalysis)
}

func (h *AnalysisHandler) studentAnalysis(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	result, err := h.analysis.AnalyzeStudent(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("student analysis failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "student analysis failed")
	}

	return utils.SendSuccess(c, "analysis computed", result)
}

func (h *AnalysisHandler) overview(c *fiber.Ctx) error {
	result, err := h.analysis.GetOverview(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("overview failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "overview failed")
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	return utils.SendSuccess(c, "overview computed", result)
}

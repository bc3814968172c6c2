package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sanad-app/sanad-go-api/internal/dto"
	"github.com/sanad-app/sanad-go-api/internal/repository"
	"github.com/sanad-app/sanad-go-api/internal/service"
	"github.com/sanad-app/sanad-go-api/internal/utils"
)

// PlanHandler handles treatment plan endpoints.
type PlanHandler struct {
	plans  service.PlanService
	logger zerolog.Logger
}

// NewPlanHandler constructs the handler.
func NewPlanHandler(plans service.PlanService, logger zerolog.Logger) *PlanHandler {
	return &PlanHandler{
		plans:  plans,
		logger: logger.With().Str("component", "plan_handler").Logger(),
	}
}

// Register wires the treatment plan routes.
func (h *PlanHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/suggest-at-risk", h.suggestAtRisk)
	router.Post("/generate/:studentID", h.generate)
	router.Post("/generate-group", h.generateGroup)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *PlanHandler) list(c *fiber.Ctx) error {
	filter := repository.PlanFilter{
		Status: strings.TrimSpace(c.Query("status")),
	}

	plans, err := h.plans.List(c.UserContext(), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list plans")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list plans")
	}

	return utils.SendSuccess(c, "plans retrieved", plans)
}

func (h *PlanHandler) create(c *fiber.Ctx) error {
	var payload dto.PlanCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	plan, err := h.plans.CreateManual(c.UserContext(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.planError(c, err, "failed to create plan")
	}

	return utils.SendCreated(c, "plan created", plan)
}

func (h *PlanHandler) generate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "studentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	plan, err := h.plans.GenerateForStudent(c.UserContext(), id)
	if err != nil {
		return h.planError(c, err, "failed to generate plan")
	}

	return utils.SendCreated(c, "plan generated", plan)
}

func (h *PlanHandler) generateGroup(c *fiber.Ctx) error {
	var payload dto.PlanGenerateGroupRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	plan, err := h.plans.GenerateForGroup(c.UserContext(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.planError(c, err, "failed to generate group plan")
	}

	return utils.SendCreated(c, "group plan generated", plan)
}

func (h *PlanHandler) suggestAtRisk(c *fiber.Ctx) error {
	ids, err := h.plans.SuggestAtRisk(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("at-risk suggestion failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "at-risk suggestion failed")
	}

	return utils.SendSuccess(c, "at-risk students", fiber.Map{"student_ids": ids})
}

func (h *PlanHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid plan id")
	}

	plan, err := h.plans.Get(c.UserContext(), id)
	if err != nil {
		return h.planError(c, err, "failed to get plan")
	}

	return utils.SendSuccess(c, "plan retrieved", plan)
}

func (h *PlanHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid plan id")
	}

	var payload dto.PlanUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	plan, err := h.plans.Update(c.UserContext(), id, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.planError(c, err, "failed to update plan")
	}

	return utils.SendSuccess(c, "plan updated", plan)
}

func (h *PlanHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid plan id")
	}

	if err := h.plans.Delete(c.UserContext(), id); err != nil {
		return h.planError(c, err, "failed to delete plan")
	}

	return utils.SendSuccess(c, "plan deleted", nil)
}

func (h *PlanHandler) planError(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "not found")
	}
	requestLogger(h.logger, c).Error().Err(err).Msg(message)
	return utils.SendError(c, fiber.StatusInternalServerError, message)
}

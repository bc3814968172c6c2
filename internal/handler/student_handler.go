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

// StudentHandler handles roster endpoints: students and their grade and
// behavior rows.
type StudentHandler struct {
	roster service.RosterService
	logger zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(roster service.RosterService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		roster: roster,
		logger: logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires the student-scoped routes.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Get("/:id/grades", h.listGrades)
	router.Post("/:id/grades", h.addGrade)
	router.Get("/:id/behaviors", h.listBehaviors)
	router.Post("/:id/behaviors", h.addBehavior)
}

// RegisterGrades wires the roster-wide grade routes.
func (h *StudentHandler) RegisterGrades(router fiber.Router) {
	router.Post("/bulk", h.bulkGrades)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	filter := repository.StudentFilter{
		Status:  strings.TrimSpace(c.Query("status")),
		Section: strings.TrimSpace(c.Query("section")),
	}

	students, err := h.roster.ListStudents(c.UserContext(), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.roster.CreateStudent(c.UserContext(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create student")
	}

	return utils.SendCreated(c, "student enrolled", student)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	student, err := h.roster.GetStudent(c.UserContext(), id)
	if err != nil {
		return h.rosterError(c, err, "failed to get student")
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.roster.UpdateStudent(c.UserContext(), id, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.rosterError(c, err, "failed to update student")
	}

	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	if err := h.roster.DeleteStudent(c.UserContext(), id); err != nil {
		return h.rosterError(c, err, "failed to delete student")
	}

	return utils.SendSuccess(c, "student deleted", nil)
}

func (h *StudentHandler) listGrades(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	grades, err := h.roster.ListGrades(c.UserContext(), id)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list grades")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list grades")
	}

	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *StudentHandler) addGrade(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var payload dto.GradeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	grade, err := h.roster.AddGrade(c.UserContext(), id, payload)
	if err != nil {
		if isValidationError(err) || errors.Is(err, service.ErrScoreOutOfRange) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.rosterError(c, err, "failed to record grade")
	}

	return utils.SendCreated(c, "grade recorded", grade)
}

func (h *StudentHandler) bulkGrades(c *fiber.Ctx) error {
	var payload dto.BulkGradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.roster.BulkAddGrades(c.UserContext(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("bulk grade import failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "bulk grade import failed")
	}

	return utils.SendSuccess(c, "grades imported", result)
}

func (h *StudentHandler) listBehaviors(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	behaviors, err := h.roster.ListBehaviors(c.UserContext(), id)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list behaviors")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list behaviors")
	}

	return utils.SendSuccess(c, "behaviors retrieved", behaviors)
}

func (h *StudentHandler) addBehavior(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var payload dto.BehaviorCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	behavior, err := h.roster.AddBehavior(c.UserContext(), id, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.rosterError(c, err, "failed to record behavior")
	}

	return utils.SendCreated(c, "behavior recorded", behavior)
}

func (h *StudentHandler) rosterError(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	}
	requestLogger(h.logger, c).Error().Err(err).Msg(message)
	return utils.SendError(c, fiber.StatusInternalServerError, message)
}

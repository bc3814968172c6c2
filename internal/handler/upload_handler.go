package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sanad-app/sanad-go-api/internal/service"
	"github.com/sanad-app/sanad-go-api/internal/utils"
)

// UploadHandler handles student photo uploads.
type UploadHandler struct {
	uploads service.UploadService
	logger  zerolog.Logger
}

// NewUploadHandler constructs an upload handler.
func NewUploadHandler(uploads service.UploadService, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
		logger:  logger.With().Str("component", "upload_handler").Logger(),
	}
}

// Register wires the photo route under the student group.
func (h *UploadHandler) Register(router fiber.Router) {
	router.Post("/:id/photo", h.uploadPhoto)
}

func (h *UploadHandler) uploadPhoto(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "photo file is required")
	}

	result, err := h.uploads.UploadPhoto(c.UserContext(), id, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, service.ErrPhotoTypeNotAllowed):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("photo upload failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "photo upload failed")
		}
	}

	return utils.SendSuccess(c, "photo stored", result)
}

package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every endpoint returns. Data is omitted for
// responses that carry only a message (deletes, errors).
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

func send(c *fiber.Ctx, status int, success bool, message string, data interface{}) error {
	return c.Status(status).JSON(APIResponse{
		Success: success,
		Data:    data,
		Message: message,
	})
}

// SendSuccess writes a 200 envelope.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	return send(c, fiber.StatusOK, true, message, data)
}

// SendCreated writes a 201 envelope for newly persisted resources.
func SendCreated(c *fiber.Ctx, message string, data interface{}) error {
	if message == "" {
		message = "created"
	}
	return send(c, fiber.StatusCreated, true, message, data)
}

// SendError writes a failure envelope with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}
	return send(c, status, false, message, nil)
}

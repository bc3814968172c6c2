package dto

import (
	"time"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

// BehaviorCreateRequest describes the payload for recording an incident.
type BehaviorCreateRequest struct {
	Type        string `json:"type" validate:"required,oneof=positive negative"`
	Description string `json:"description" validate:"required,min=3,max=2000"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
}

// BehaviorResponse is the serialized representation returned to API clients.
type BehaviorResponse struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewBehaviorResponse converts a model into a DTO.
func NewBehaviorResponse(model models.Behavior) BehaviorResponse {
	return BehaviorResponse{
		ID:          model.ID,
		StudentID:   model.StudentID,
		Type:        model.Type,
		Description: model.Description,
		Date:        model.Date,
		CreatedAt:   model.CreatedAt,
	}
}

// NewBehaviorResponseSlice converts a slice of models into DTOs.
func NewBehaviorResponseSlice(behaviors []models.Behavior) []BehaviorResponse {
	responses := make([]BehaviorResponse, 0, len(behaviors))
	for _, behavior := range behaviors {
		responses = append(responses, NewBehaviorResponse(behavior))
	}
	return responses
}

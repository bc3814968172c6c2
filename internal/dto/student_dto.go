package dto

import (
	"time"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

// StudentCreateRequest describes the payload for enrolling a student.
type StudentCreateRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	GradeLevel string `json:"grade_level" validate:"required"`
	Section    string `json:"section" validate:"required"`
	Notes      string `json:"notes" validate:"omitempty,max=2000"`
}

// StudentUpdateRequest describes the payload for updating a student.
type StudentUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2"`
	GradeLevel *string `json:"grade_level" validate:"omitempty"`
	Section    *string `json:"section" validate:"omitempty"`
	Status     *string `json:"status" validate:"omitempty,oneof=active monitored archived"`
	Notes      *string `json:"notes" validate:"omitempty,max=2000"`
}

// StudentResponse is the serialized representation returned to API clients.
type StudentResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	GradeLevel string    `json:"grade_level"`
	Section    string    `json:"section"`
	Status     string    `json:"status"`
	PhotoURL   string    `json:"photo_url"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:         model.ID,
		Name:       model.Name,
		GradeLevel: model.GradeLevel,
		Section:    model.Section,
		Status:     model.Status,
		PhotoURL:   model.PhotoURL,
		Notes:      model.Notes,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}

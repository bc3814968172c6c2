package dto

import (
	"time"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

// AlertResponse is the serialized representation returned to API clients.
type AlertResponse struct {
	ID        uint      `json:"id"`
	StudentID uint      `json:"student_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Read      bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAlertResponse converts a model into a DTO.
func NewAlertResponse(model models.Alert) AlertResponse {
	return AlertResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		Type:      model.Type,
		Message:   model.Message,
		Severity:  model.Severity,
		Read:      model.Read,
		CreatedAt: model.CreatedAt,
	}
}

// NewAlertResponseSlice converts a slice of models into DTOs.
func NewAlertResponseSlice(alerts []models.Alert) []AlertResponse {
	responses := make([]AlertResponse, 0, len(alerts))
	for _, alert := range alerts {
		responses = append(responses, NewAlertResponse(alert))
	}
	return responses
}

// AlertEvaluationResult reports the outcome of one alert rule engine pass.
type AlertEvaluationResult struct {
	Evaluated int             `json:"evaluated_students"`
	Created   []AlertResponse `json:"created_alerts"`
	Skipped   bool            `json:"skipped"`
}

// UploadResponse reports a stored student photo.
type UploadResponse struct {
	StudentID uint   `json:"student_id"`
	PhotoURL  string `json:"photo_url"`
}

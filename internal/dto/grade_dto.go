package dto

import (
	"time"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

// GradeCreateRequest describes one weekly grade entry. Component scores are
// optional; missing components are stored as null and scored as 0.
type GradeCreateRequest struct {
	WeekNumber            int      `json:"week_number" validate:"required,min=1"`
	ExamScore             *float64 `json:"exam_score" validate:"omitempty,min=0"`
	HomeworkScore         *float64 `json:"homework_score" validate:"omitempty,min=0"`
	ParticipationScore    *float64 `json:"participation_score" validate:"omitempty,min=0"`
	ClassInteractionScore *float64 `json:"class_interaction_score" validate:"omitempty,min=0"`
	ProjectScore          *float64 `json:"project_score" validate:"omitempty,min=0"`
	PracticalScore        *float64 `json:"practical_score" validate:"omitempty,min=0"`
	Notes                 string   `json:"notes" validate:"omitempty,max=2000"`
}

// BulkGradeRow is one row of a bulk grade import, addressed by student id.
type BulkGradeRow struct {
	StudentID uint `json:"student_id" validate:"required"`
	GradeCreateRequest
}

// BulkGradeRequest describes a bulk grade import payload.
type BulkGradeRequest struct {
	Rows []BulkGradeRow `json:"rows" validate:"required,min=1,dive"`
}

// BulkGradeResult reports the outcome of a bulk import.
type BulkGradeResult struct {
	Inserted int      `json:"inserted"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// GradeResponse is the serialized representation returned to API clients.
type GradeResponse struct {
	ID                    uint      `json:"id"`
	StudentID             uint      `json:"student_id"`
	WeekNumber            int       `json:"week_number"`
	ExamScore             *float64  `json:"exam_score"`
	HomeworkScore         *float64  `json:"homework_score"`
	ParticipationScore    *float64  `json:"participation_score"`
	ClassInteractionScore *float64  `json:"class_interaction_score"`
	ProjectScore          *float64  `json:"project_score"`
	PracticalScore        *float64  `json:"practical_score"`
	Notes                 string    `json:"notes"`
	CreatedAt             time.Time `json:"created_at"`
}

// NewGradeResponse converts a model into a DTO.
func NewGradeResponse(model models.Grade) GradeResponse {
	return GradeResponse{
		ID:                    model.ID,
		StudentID:             model.StudentID,
		WeekNumber:            model.WeekNumber,
		ExamScore:             model.ExamScore,
		HomeworkScore:         model.HomeworkScore,
		ParticipationScore:    model.ParticipationScore,
		ClassInteractionScore: model.ClassInteractionScore,
		ProjectScore:          model.ProjectScore,
		PracticalScore:        model.PracticalScore,
		Notes:                 model.Notes,
		CreatedAt:             model.CreatedAt,
	}
}

// NewGradeResponseSlice converts a slice of models into DTOs.
func NewGradeResponseSlice(grades []models.Grade) []GradeResponse {
	responses := make([]GradeResponse, 0, len(grades))
	for _, grade := range grades {
		responses = append(responses, NewGradeResponse(grade))
	}
	return responses
}

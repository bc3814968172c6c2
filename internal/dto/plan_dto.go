package dto

import (
	"encoding/json"
	"time"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

// PlanGenerateGroupRequest selects the students a shared group plan targets.
type PlanGenerateGroupRequest struct {
	StudentIDs []uint `json:"student_ids" validate:"required,min=1,dive,required"`
}

// PlanCreateRequest describes a manually authored treatment plan.
type PlanCreateRequest struct {
	StudentID         uint              `json:"student_id" validate:"required"`
	PlanType          string            `json:"plan_type" validate:"omitempty,oneof=individual group"`
	TargetStudentIDs  []uint            `json:"target_student_ids" validate:"omitempty,dive,required"`
	CaseAnalysis      string            `json:"case_analysis" validate:"required,min=10"`
	AcademicPlan      map[string]string `json:"academic_plan" validate:"omitempty"`
	BehavioralPlan    map[string]string `json:"behavioral_plan" validate:"omitempty"`
	CounselorRole     string            `json:"counselor_role" validate:"omitempty,max=4000"`
	ParentRole        string            `json:"parent_role" validate:"omitempty,max=4000"`
	TargetImprovement int               `json:"target_improvement" validate:"omitempty,min=0,max=100"`
	DurationWeeks     int               `json:"duration_weeks" validate:"omitempty,min=1,max=52"`
}

// PlanUpdateRequest describes the editable fields of an existing plan.
type PlanUpdateRequest struct {
	CaseAnalysis      *string           `json:"case_analysis" validate:"omitempty,min=10"`
	AcademicPlan      map[string]string `json:"academic_plan" validate:"omitempty"`
	BehavioralPlan    map[string]string `json:"behavioral_plan" validate:"omitempty"`
	CounselorRole     *string           `json:"counselor_role" validate:"omitempty,max=4000"`
	ParentRole        *string           `json:"parent_role" validate:"omitempty,max=4000"`
	TargetImprovement *int              `json:"target_improvement" validate:"omitempty,min=0,max=100"`
	DurationWeeks     *int              `json:"duration_weeks" validate:"omitempty,min=1,max=52"`
	Status            *string           `json:"status" validate:"omitempty,oneof=active completed"`
}

// PlanResponse is the serialized representation returned to API clients.
type PlanResponse struct {
	ID                uint                   `json:"id"`
	StudentID         uint                   `json:"student_id"`
	PlanType          string                 `json:"plan_type"`
	TargetStudentIDs  []uint                 `json:"target_student_ids,omitempty"`
	CaseAnalysis      string                 `json:"case_analysis"`
	AcademicPlan      map[string]interface{} `json:"academic_plan"`
	BehavioralPlan    map[string]interface{} `json:"behavioral_plan"`
	CounselorRole     string                 `json:"counselor_role"`
	ParentRole        string                 `json:"parent_role"`
	SuccessIndicators map[string]interface{} `json:"success_indicators"`
	TargetImprovement int                    `json:"target_improvement"`
	DurationWeeks     int                    `json:"duration_weeks"`
	Status            string                 `json:"status"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// NewPlanResponse converts a model into a DTO.
func NewPlanResponse(model models.TreatmentPlan) PlanResponse {
	var targets []uint
	if len(model.TargetStudentIDs) > 0 {
		// Malformed target lists deserialize as empty rather than failing the read.
		_ = json.Unmarshal(model.TargetStudentIDs, &targets)
	}

	return PlanResponse{
		ID:                model.ID,
		StudentID:         model.StudentID,
		PlanType:          model.PlanType,
		TargetStudentIDs:  targets,
		CaseAnalysis:      model.CaseAnalysis,
		AcademicPlan:      model.AcademicPlan,
		BehavioralPlan:    model.BehavioralPlan,
		CounselorRole:     model.CounselorRole,
		ParentRole:        model.ParentRole,
		SuccessIndicators: model.SuccessIndicators,
		TargetImprovement: model.TargetImprovement,
		DurationWeeks:     model.DurationWeeks,
		Status:            model.Status,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

// NewPlanResponseSlice converts a slice of models into DTOs.
func NewPlanResponseSlice(plans []models.TreatmentPlan) []PlanResponse {
	responses := make([]PlanResponse, 0, len(plans))
	for _, plan := range plans {
		responses = append(responses, NewPlanResponse(plan))
	}
	return responses
}

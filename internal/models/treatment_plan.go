package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// PlanTypeIndividual targets a single student.
	PlanTypeIndividual = "individual"
	// PlanTypeGroup targets several students with one shared plan body.
	PlanTypeGroup = "group"

	// PlanStatusActive marks a plan currently in effect.
	PlanStatusActive = "active"
	// PlanStatusCompleted marks a plan whose review period has finished.
	PlanStatusCompleted = "completed"
)

// TreatmentPlan is a structured remediation program generated from a risk
// analysis or authored manually by a counselor. Group plans keep one shared
// body and list the targeted students in TargetStudentIDs.
type TreatmentPlan struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	StudentID         uint              `gorm:"not null;index" json:"student_id"`
	PlanType          string            `gorm:"size:16;not null;default:individual" json:"plan_type"`
	TargetStudentIDs  datatypes.JSON    `gorm:"type:json" json:"target_student_ids"`
	CaseAnalysis      string            `gorm:"type:text" json:"case_analysis"`
	AcademicPlan      datatypes.JSONMap `gorm:"type:json" json:"academic_plan"`
	BehavioralPlan    datatypes.JSONMap `gorm:"type:json" json:"behavioral_plan"`
	CounselorRole     string            `gorm:"type:text" json:"counselor_role"`
	ParentRole        string            `gorm:"type:text" json:"parent_role"`
	SuccessIndicators datatypes.JSONMap `gorm:"type:json" json:"success_indicators"`
	TargetImprovement int               `json:"target_improvement"`
	DurationWeeks     int               `json:"duration_weeks"`
	Status            string            `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Student           Student           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

package models

import "time"

// Grade records one week of component scores for a student. Multiple rows may
// share a week number; the engine performs no deduplication.
type Grade struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	StudentID             uint      `gorm:"not null;index" json:"student_id"`
	WeekNumber            int       `gorm:"not null" json:"week_number"`
	ExamScore             *float64  `json:"exam_score"`
	HomeworkScore         *float64  `json:"homework_score"`
	ParticipationScore    *float64  `json:"participation_score"`
	ClassInteractionScore *float64  `json:"class_interaction_score"`
	ProjectScore          *float64  `json:"project_score"`
	PracticalScore        *float64  `json:"practical_score"`
	Notes                 string    `gorm:"type:text" json:"notes"`
	CreatedAt             time.Time `json:"created_at"`
	Student               Student   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// Exam returns the exam score, treating a missing value as 0.
func (g Grade) Exam() float64 { return deref(g.ExamScore) }

// Homework returns the homework score, treating a missing value as 0.
func (g Grade) Homework() float64 { return deref(g.HomeworkScore) }

// Participation returns the participation score, treating a missing value as 0.
func (g Grade) Participation() float64 { return deref(g.ParticipationScore) }

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

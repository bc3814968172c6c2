package models

import "time"

const (
	// BehaviorTypePositive tags a commendable incident.
	BehaviorTypePositive = "positive"
	// BehaviorTypeNegative tags a disciplinary incident.
	BehaviorTypeNegative = "negative"
)

// Behavior records a single behavioral incident for a student. Incidents carry
// no severity; all incidents of a polarity weigh equally in the risk score.
type Behavior struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"not null;index" json:"student_id"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Date        time.Time `gorm:"not null" json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	Student     Student   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsNegative reports whether the incident counts against the behavioral risk index.
func (b Behavior) IsNegative() bool {
	return b.Type == BehaviorTypeNegative
}

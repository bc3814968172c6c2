package models

import "time"

const (
	// StudentStatusActive marks a student who is enrolled and evaluated by the risk engine.
	StudentStatusActive = "active"
	// StudentStatusMonitored marks a student under observation after an intervention.
	StudentStatusMonitored = "monitored"
	// StudentStatusArchived marks a student no longer enrolled.
	StudentStatusArchived = "archived"
)

// Student represents a learner tracked by the counseling dashboard.
type Student struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	GradeLevel string    `gorm:"size:32;not null" json:"grade_level"`
	Section    string    `gorm:"size:32;not null" json:"section"`
	Status     string    `gorm:"size:32;not null;default:active" json:"status"`
	PhotoURL   string    `gorm:"size:512" json:"photo_url"`
	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsActive reports whether the student participates in alert evaluation.
func (s Student) IsActive() bool {
	return s.Status == StudentStatusActive
}

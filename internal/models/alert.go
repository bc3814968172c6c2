package models

import (
	"fmt"
	"time"
)

const (
	// AlertTypeAcademicIntervention flags students whose academic risk crossed the intervention threshold.
	AlertTypeAcademicIntervention = "academic_intervention"
	// AlertTypeBehavioralIntervention flags students whose behavioral risk crossed the intervention threshold.
	AlertTypeBehavioralIntervention = "behavioral_intervention"
	// AlertTypeDecliningPerformance flags students with a sharp downward grade trend.
	AlertTypeDecliningPerformance = "declining_performance"
	// AlertTypeCriticalRisk flags students classified at the critical risk level.
	AlertTypeCriticalRisk = "critical_risk"

	// AlertSeverityWarning marks an alert that should be reviewed soon.
	AlertSeverityWarning = "warning"
	// AlertSeverityCritical marks an alert that requires immediate attention.
	AlertSeverityCritical = "critical"
)

// Alert is a notification raised when a student crosses a risk threshold.
// At most one alert per (student, type) pair is created within a rolling
// seven-day window.
type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Type      string    `gorm:"size:64;not null;index" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Severity  string    `gorm:"size:16;not null;default:warning" json:"severity"`
	Read      bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	Student   Student   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// DedupKey identifies the alert within the rolling dedup window.
func (a Alert) DedupKey() string {
	return AlertDedupKey(a.StudentID, a.Type)
}

// AlertDedupKey builds the (student, type) key the dedup window is keyed by.
func AlertDedupKey(studentID uint, alertType string) string {
	return fmt.Sprintf("%d-%s", studentID, alertType)
}

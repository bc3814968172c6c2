package dto

import "github.com/sanad-app/sanad-go-api/internal/engine"

// StudentAnalysisResponse wraps the derived analysis for one student.
type StudentAnalysisResponse struct {
	StudentID   uint            `json:"student_id"`
	StudentName string          `json:"student_name"`
	Status      string          `json:"status"`
	Analysis    engine.Analysis `json:"analysis"`
}

// RiskDistribution counts students per risk level for the dashboard chart.
type RiskDistribution struct {
	Excellent         int `json:"excellent"`
	Stable            int `json:"stable"`
	NeedsIntervention int `json:"needs_intervention"`
	Critical          int `json:"critical"`
}

// OverviewResponse aggregates the dashboard view: per-student analyses for
// every active student, the class average they are compared against, and the
// risk level distribution.
type OverviewResponse struct {
	ClassAverage     float64                   `json:"class_average"`
	TotalStudents    int                       `json:"total_students"`
	Distribution     RiskDistribution          `json:"distribution"`
	Students         []StudentAnalysisResponse `json:"students"`
	TopAtRisk        []StudentAnalysisResponse `json:"top_at_risk"`
	CacheHit         bool                      `json:"cache_hit"`
	EvaluatedAtEpoch int64                     `json:"evaluated_at"`
}

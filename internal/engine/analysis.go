// Package engine implements the student risk analysis pipeline: weighted
// averages, trend detection, academic/behavioral risk indices, stability
// scoring, risk classification and treatment plan generation. Every function
// is pure and total over its inputs; missing data falls back to documented
// defaults rather than errors, and callers own any caching policy.
package engine

import (
	"math"
	"sort"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

// Trend describes the direction of a student's recent grade movement.
type Trend string

const (
	// TrendUp indicates the recent window rose by more than 5 percent.
	TrendUp Trend = "up"
	// TrendDown indicates the recent window fell by more than 5 percent.
	TrendDown Trend = "down"
	// TrendStable indicates movement within the ±5 percent band, inclusive.
	TrendStable Trend = "stable"
)

// RiskLevel is the four-way classification assigned to a student.
type RiskLevel string

const (
	// RiskExcellent marks a high average with minimal combined risk.
	RiskExcellent RiskLevel = "excellent"
	// RiskStable marks a passing average with moderate combined risk.
	RiskStable RiskLevel = "stable"
	// RiskNeedsIntervention marks a student who requires a remediation plan.
	RiskNeedsIntervention RiskLevel = "needs_intervention"
	// RiskCritical marks the highest combined risk band.
	RiskCritical RiskLevel = "critical"
)

// Analysis is the derived per-student risk record. It is recomputed from raw
// rows on every call and never persisted. The risk indices and stability
// score hold whole numbers; the remaining numeric fields are rounded to one
// decimal place. Averaged pseudo-analyses built for group plans may carry
// fractional values in any field.
type Analysis struct {
	StudentID           uint      `json:"student_id"`
	WeightedAverage     float64   `json:"weighted_average"`
	Trend               Trend     `json:"trend"`
	TrendPercentage     float64   `json:"trend_percentage"`
	AcademicRiskIndex   float64   `json:"academic_risk_index"`
	BehavioralRiskIndex float64   `json:"behavioral_risk_index"`
	StabilityScore      float64   `json:"stability_score"`
	RiskLevel           RiskLevel `json:"risk_level"`
	ClassComparison     float64   `json:"class_comparison"`
}

// Component weights for the legacy weighted-average formula. The class
// interaction, project and practical scores are stored and validated but
// deliberately excluded from every formula.
const (
	examWeight          = 0.5
	homeworkWeight      = 0.3
	participationWeight = 0.2
)

// CalculateWeightedAverage blends each grade row's exam, homework and
// participation scores at fixed 0.5/0.3/0.2 weights and averages the
// per-row results. Missing components count as 0. Returns 0 for an empty
// sequence.
func CalculateWeightedAverage(grades []models.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}

	total := 0.0
	for _, g := range grades {
		total += g.Exam()*examWeight + g.Homework()*homeworkWeight + g.Participation()*participationWeight
	}

	return total / float64(len(grades))
}

// AnalyzeTrend compares the first and last rows of the recent window (the
// last three rows ordered by week number) and classifies the percentage
// change. Fewer than two rows yields (stable, 0). Changes of exactly ±5
// percent are stable.
func AnalyzeTrend(grades []models.Grade) (Trend, float64) {
	if len(grades) < 2 {
		return TrendStable, 0
	}

	sorted := make([]models.Grade, len(grades))
	copy(sorted, grades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeekNumber < sorted[j].WeekNumber
	})

	recent := sorted
	if len(sorted) > 3 {
		recent = sorted[len(sorted)-3:]
	}
	if len(recent) < 2 {
		return TrendStable, 0
	}

	first := rowAverage(recent[0])
	last := rowAverage(recent[len(recent)-1])

	percentage := 0.0
	if first > 0 {
		percentage = (last - first) / first * 100
	}

	switch {
	case percentage > 5:
		return TrendUp, percentage
	case percentage < -5:
		return TrendDown, percentage
	default:
		return TrendStable, percentage
	}
}

// CalculateAcademicRisk maps the weighted average and trend onto a 0-100
// risk index: a penalty per average band, plus a trend penalty. A downward
// trend and the low-band stable penalty are mutually exclusive; an upward
// trend contributes nothing.
func CalculateAcademicRisk(average float64, trend Trend) float64 {
	risk := 0.0
	switch {
	case average < 50:
		risk += 40
	case average < 60:
		risk += 25
	case average < 70:
		risk += 10
	}

	if trend == TrendDown {
		risk += 20
	} else if trend == TrendStable && average < 60 {
		risk += 10
	}

	return math.Min(100, risk)
}

// CalculateBehavioralRisk is the rounded percentage of negative incidents in
// the student's behavior history. Returns 0 for an empty history. The upper
// clamp is redundant given the ratio is at most 1, but kept as a safety
// invariant.
func CalculateBehavioralRisk(behaviors []models.Behavior) float64 {
	if len(behaviors) == 0 {
		return 0
	}

	negative := 0
	for _, b := range behaviors {
		if b.IsNegative() {
			negative++
		}
	}

	ratio := float64(negative) / float64(len(behaviors))
	return math.Min(100, math.Round(ratio*100))
}

// CalculateStabilityScore maps the population standard deviation of the
// per-row unweighted averages onto a 0-100 score, two points of stability
// per point of deviation. Fewer than two rows is insufficient data and
// yields the neutral 50 rather than a penalty.
func CalculateStabilityScore(grades []models.Grade) float64 {
	if len(grades) < 2 {
		return 50
	}

	scores := make([]float64, len(grades))
	mean := 0.0
	for i, g := range grades {
		scores[i] = rowAverage(g)
		mean += scores[i]
	}
	mean /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(scores))
	stdDev := math.Sqrt(variance)

	return clamp(100-stdDev*2, 0, 100)
}

// ClassifyRiskLevel blends the academic and behavioral indices 60/40 and
// assigns one of the four risk levels. The rules are order-sensitive and
// total: every input triple maps to exactly one level.
func ClassifyRiskLevel(academicRisk, behavioralRisk, average float64) RiskLevel {
	combined := academicRisk*0.6 + behavioralRisk*0.4

	switch {
	case average >= 85 && combined < 15:
		return RiskExcellent
	case average >= 60 && combined < 40:
		return RiskStable
	case combined < 65:
		return RiskNeedsIntervention
	default:
		return RiskCritical
	}
}

// AnalyzeStudent composes the scorers into one analysis record. classAverage
// is the weighted average of every grade row across all students, computed by
// the caller through CalculateWeightedAverage. The call is side-effect free
// and safe to repeat; identical inputs produce identical output.
func AnalyzeStudent(student models.Student, grades []models.Grade, behaviors []models.Behavior, classAverage float64) Analysis {
	average := CalculateWeightedAverage(grades)
	trend, percentage := AnalyzeTrend(grades)
	academicRisk := CalculateAcademicRisk(average, trend)
	behavioralRisk := CalculateBehavioralRisk(behaviors)
	stability := CalculateStabilityScore(grades)
	level := ClassifyRiskLevel(academicRisk, behavioralRisk, average)

	return Analysis{
		StudentID:           student.ID,
		WeightedAverage:     round1(average),
		Trend:               trend,
		TrendPercentage:     round1(percentage),
		AcademicRiskIndex:   academicRisk,
		BehavioralRiskIndex: behavioralRisk,
		StabilityScore:      math.Round(stability),
		RiskLevel:           level,
		ClassComparison:     round1(average - classAverage),
	}
}

// AverageAnalyses builds the pseudo-analysis a group treatment plan is
// generated from: the five numeric fields are arithmetic means across the
// members, while the categorical fields are carried from the first member.
// The plan generator itself stays unaware of grouping. Returns the zero
// Analysis for an empty slice.
func AverageAnalyses(analyses []Analysis) Analysis {
	if len(analyses) == 0 {
		return Analysis{}
	}

	avg := analyses[0]
	n := float64(len(analyses))

	var weighted, academic, behavioral, stability, comparison float64
	for _, a := range analyses {
		weighted += a.WeightedAverage
		academic += a.AcademicRiskIndex
		behavioral += a.BehavioralRiskIndex
		stability += a.StabilityScore
		comparison += a.ClassComparison
	}

	avg.WeightedAverage = weighted / n
	avg.AcademicRiskIndex = academic / n
	avg.BehavioralRiskIndex = behavioral / n
	avg.StabilityScore = stability / n
	avg.ClassComparison = comparison / n

	return avg
}

// rowAverage is the unweighted mean of the three legacy components.
func rowAverage(g models.Grade) float64 {
	return (g.Exam() + g.Homework() + g.Participation()) / 3
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Milestone is a weekly checkpoint within a treatment plan.
type Milestone struct {
	Week   int    `json:"week"`
	Target string `json:"target"`
}

// SuccessIndicators are the measurable targets attached to a treatment plan.
type SuccessIndicators struct {
	TargetAverage             int         `json:"target_average"`
	TargetBehaviorImprovement int         `json:"target_behavior_improvement"`
	ReviewPeriodWeeks         int         `json:"review_period_weeks"`
	Milestones                []Milestone `json:"milestones"`
}

// PlanBody is a generated treatment plan prior to persistence. The caller is
// responsible for storing it.
type PlanBody struct {
	CaseAnalysis      string            `json:"case_analysis"`
	AcademicPlan      map[string]string `json:"academic_plan"`
	BehavioralPlan    map[string]string `json:"behavioral_plan"`
	CounselorRole     string            `json:"counselor_role"`
	ParentRole        string            `json:"parent_role"`
	SuccessIndicators SuccessIndicators `json:"success_indicators"`
	TargetImprovement int               `json:"target_improvement"`
	DurationWeeks     int               `json:"duration_weeks"`
}

const counselorRoleText = "• Weekly individual counseling sessions (30 minutes) to analyze problems and agree on solutions\n" +
	"• Initial psychological assessment of the student and identification of contributing factors\n" +
	"• Weekly check-in with the teacher to follow up on progress\n" +
	"• Coordination with the family through periodic reports\n" +
	"• Administration of the academic motivation and adjustment scale\n" +
	"• Referral to specialized services when needed"

const parentRoleText = "• Daily home follow-up of homework and revision (at least 30 minutes)\n" +
	"• Weekly signature on the monitoring card every Thursday\n" +
	"• Attendance at a monthly meeting with the teacher and counselor\n" +
	"• A quiet, organized study environment at home\n" +
	"• Limited use of electronic devices on school days\n" +
	"• Positive reinforcement at home for every noticeable improvement\n" +
	"• A written monthly report on progress at home"

// WeakAreas lists the human-readable flags fired by the analysis. Each flag
// is gated by an independent threshold, so any subset may fire.
func WeakAreas(analysis Analysis) []string {
	areas := make([]string, 0, 5)
	if analysis.AcademicRiskIndex > 30 {
		areas = append(areas, "low academic performance")
	}
	if analysis.BehavioralRiskIndex > 30 {
		areas = append(areas, "recurring behavioral issues")
	}
	if analysis.Trend == TrendDown {
		areas = append(areas, "declining performance trend")
	}
	if analysis.StabilityScore < 40 {
		areas = append(areas, "unstable performance")
	}
	if analysis.ClassComparison < -15 {
		areas = append(areas, "large gap below the class average")
	}
	return areas
}

// GenerateTreatmentPlan builds a remediation plan from an analysis. The
// output is fully deterministic: the same analysis and display name always
// produce the same plan. The tutoring-intensity wording is the only branch
// point in the plan text (three sessions per week below a 50 average, two
// otherwise); the remaining catalog entries are invariant.
func GenerateTreatmentPlan(analysis Analysis, displayName string) PlanBody {
	weakAreas := WeakAreas(analysis)

	var caseAnalysis strings.Builder
	fmt.Fprintf(&caseAnalysis, "Student %s:\n", displayName)
	fmt.Fprintf(&caseAnalysis, "• Weighted average: %s%% (%s)\n", formatNumber(analysis.WeightedAverage), averageBand(analysis.WeightedAverage))
	fmt.Fprintf(&caseAnalysis, "• Academic risk index: %s%%\n", formatNumber(analysis.AcademicRiskIndex))
	fmt.Fprintf(&caseAnalysis, "• Behavioral risk index: %s%%\n", formatNumber(analysis.BehavioralRiskIndex))
	fmt.Fprintf(&caseAnalysis, "• Performance stability: %s%%\n", formatNumber(analysis.StabilityScore))
	fmt.Fprintf(&caseAnalysis, "• Performance trend: %s\n", trendLabel(analysis.Trend))
	fmt.Fprintf(&caseAnalysis, "• Class comparison: %s%%", formatSigned(analysis.ClassComparison))
	if len(weakAreas) > 0 {
		fmt.Fprintf(&caseAnalysis, "\n\nContributing factors: %s", strings.Join(weakAreas, " | "))
	}

	tutoring := "Two tutoring sessions per week in the weakest subjects"
	if analysis.WeightedAverage < 50 {
		tutoring = "Three tutoring sessions per week (Saturday, Monday, Wednesday) in the core subjects"
	}

	academicPlan := map[string]string{
		"tutoring_sessions": tutoring,
		"remedial_tasks":    "Daily remedial tasks tailored to the identified weaknesses, with close follow-up and immediate correction",
		"weekly_quizzes":    "A short quiz every Thursday to measure progress and locate remaining gaps",
		"review_schedule":   "A daily 30-minute revision schedule covering the core concepts",
		"study_groups":      "Placement in a study group with high-performing students to share learning strategies",
		"practical_labs":    "Additional hands-on sessions linking theory to practice",
	}

	behavioralPlan := map[string]string{
		"behavior_modification":  "A gradual behavior modification program, starting with identifying and analyzing the targeted behaviors",
		"behavioral_contract":    "A three-party behavioral contract (student, teacher, guardian) defining expectations and consequences",
		"positive_reinforcement": "A points-based reinforcement system: each positive behavior earns a point, ten points earn a reward",
		"daily_monitoring":       "A daily monitoring card signed by every teacher, recording behavior in each lesson",
		"peer_support":           "An assigned positive peer (buddy system) to support social behavior",
		"self_regulation":        "Training in self-regulation skills and impulse control",
	}

	improvement := 15
	if analysis.WeightedAverage < 50 {
		improvement = 20
	}
	targetAverage := math.Min(100, analysis.WeightedAverage+float64(improvement))

	behaviorImprovement := 25
	if analysis.BehavioralRiskIndex > 50 {
		behaviorImprovement = 40
	}

	duration := 4
	if analysis.RiskLevel == RiskCritical {
		duration = 6
	}

	milestones := []Milestone{
		{Week: 1, Target: "Full commitment to tutoring attendance and completion of the remedial tasks"},
		{Week: 2, Target: fmt.Sprintf("A 10%% improvement on the weekly quiz (target: %s%%)", formatNumber(math.Min(100, analysis.WeightedAverage+10)))},
		{Week: 3, Target: "Fewer negative behaviors and increased classroom participation"},
		{Week: 4, Target: fmt.Sprintf("Reaching an average of %d%% on the weekly quiz, followed by a full evaluation", int(math.Round(targetAverage)))},
	}
	if analysis.RiskLevel == RiskCritical {
		milestones = append(milestones,
			Milestone{Week: 5, Target: "Sustained improvement and consolidation of the new level"},
			Milestone{Week: 6, Target: "Final evaluation and reclassification of the risk level"},
		)
	}

	return PlanBody{
		CaseAnalysis:   caseAnalysis.String(),
		AcademicPlan:   academicPlan,
		BehavioralPlan: behavioralPlan,
		CounselorRole:  counselorRoleText,
		ParentRole:     parentRoleText,
		SuccessIndicators: SuccessIndicators{
			TargetAverage:             int(math.Round(targetAverage)),
			TargetBehaviorImprovement: behaviorImprovement,
			ReviewPeriodWeeks:         duration,
			Milestones:                milestones,
		},
		TargetImprovement: improvement,
		DurationWeeks:     duration,
	}
}

func averageBand(average float64) string {
	switch {
	case average < 50:
		return "very weak"
	case average < 60:
		return "weak"
	case average < 70:
		return "fair"
	default:
		return "average"
	}
}

func trendLabel(trend Trend) string {
	switch trend {
	case TrendDown:
		return "declining ↓"
	case TrendUp:
		return "improving ↑"
	default:
		return "steady →"
	}
}

// formatNumber renders a score without trailing zeros (40 rather than 40.0).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatSigned(v float64) string {
	if v > 0 {
		return "+" + formatNumber(v)
	}
	return formatNumber(v)
}

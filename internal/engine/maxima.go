package engine

// ScoreMaxima holds the per-component maximum scores. Collaborators (grade
// entry, bulk import) validate rows against these bounds before data reaches
// the scoring pipeline; the engine itself never re-validates.
type ScoreMaxima struct {
	Exam             float64 `json:"exam"`
	Homework         float64 `json:"homework"`
	Participation    float64 `json:"participation"`
	ClassInteraction float64 `json:"class_interaction"`
	Project          float64 `json:"project"`
	Practical        float64 `json:"practical"`
}

// DefaultScoreMaxima returns the standard 100-point scale for every component.
func DefaultScoreMaxima() ScoreMaxima {
	return ScoreMaxima{
		Exam:             100,
		Homework:         100,
		Participation:    100,
		ClassInteraction: 100,
		Project:          100,
		Practical:        100,
	}
}

// Total is the combined maximum across all six components.
func (m ScoreMaxima) Total() float64 {
	return m.Exam + m.Homework + m.Participation + m.ClassInteraction + m.Project + m.Practical
}

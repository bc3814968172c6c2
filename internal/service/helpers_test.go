package service

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sanad-app/sanad-go-api/internal/models"
	"github.com/sanad-app/sanad-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func score(v float64) *float64 {
	return &v
}

type studentRepoStub struct {
	students []models.Student
	nextID   uint
	listErr  error
}

func (s *studentRepoStub) List(ctx context.Context, filter repository.StudentFilter) ([]models.Student, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Student, 0, len(s.students))
	for _, student := range s.students {
		if filter.Status != "" && student.Status != filter.Status {
			continue
		}
		if filter.Section != "" && student.Section != filter.Section {
			continue
		}
		out = append(out, student)
	}
	return out, nil
}

func (s *studentRepoStub) GetByID(ctx context.Context, id uint) (models.Student, error) {
	for _, student := range s.students {
		if student.ID == id {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (s *studentRepoStub) Create(ctx context.Context, student *models.Student) error {
	s.nextID++
	student.ID = s.nextID
	s.students = append(s.students, *student)
	return nil
}

func (s *studentRepoStub) Update(ctx context.Context, student *models.Student) error {
	for i := range s.students {
		if s.students[i].ID == student.ID {
			s.students[i] = *student
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *studentRepoStub) Delete(ctx context.Context, id uint) error {
	for i := range s.students {
		if s.students[i].ID == id {
			s.students = append(s.students[:i], s.students[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *studentRepoStub) SetPhotoURL(ctx context.Context, id uint, url string) error {
	for i := range s.students {
		if s.students[i].ID == id {
			s.students[i].PhotoURL = url
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *studentRepoStub) Count(ctx context.Context) (int64, error) {
	return int64(len(s.students)), nil
}

type gradeRepoStub struct {
	grades []models.Grade
	nextID uint
}

func (g *gradeRepoStub) ListAll(ctx context.Context) ([]models.Grade, error) {
	return append([]models.Grade(nil), g.grades...), nil
}

func (g *gradeRepoStub) ListByStudent(ctx context.Context, studentID uint) ([]models.Grade, error) {
	out := make([]models.Grade, 0)
	for _, grade := range g.grades {
		if grade.StudentID == studentID {
			out = append(out, grade)
		}
	}
	return out, nil
}

func (g *gradeRepoStub) Create(ctx context.Context, grade *models.Grade) error {
	g.nextID++
	grade.ID = g.nextID
	g.grades = append(g.grades, *grade)
	return nil
}

func (g *gradeRepoStub) CreateBatch(ctx context.Context, grades []models.Grade) error {
	for i := range grades {
		g.nextID++
		grades[i].ID = g.nextID
		g.grades = append(g.grades, grades[i])
	}
	return nil
}

func (g *gradeRepoStub) Delete(ctx context.Context, id uint) error {
	for i := range g.grades {
		if g.grades[i].ID == id {
			g.grades = append(g.grades[:i], g.grades[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (g *gradeRepoStub) Count(ctx context.Context) (int64, error) {
	return int64(len(g.grades)), nil
}

type behaviorRepoStub struct {
	behaviors []models.Behavior
	nextID    uint
}

func (b *behaviorRepoStub) ListAll(ctx context.Context) ([]models.Behavior, error) {
	return append([]models.Behavior(nil), b.behaviors...), nil
}

func (b *behaviorRepoStub) ListByStudent(ctx context.Context, studentID uint) ([]models.Behavior, error) {
	out := make([]models.Behavior, 0)
	for _, behavior := range b.behaviors {
		if behavior.StudentID == studentID {
			out = append(out, behavior)
		}
	}
	return out, nil
}

func (b *behaviorRepoStub) Create(ctx context.Context, behavior *models.Behavior) error {
	b.nextID++
	behavior.ID = b.nextID
	b.behaviors = append(b.behaviors, *behavior)
	return nil
}

func (b *behaviorRepoStub) Delete(ctx context.Context, id uint) error {
	for i := range b.behaviors {
		if b.behaviors[i].ID == id {
			b.behaviors = append(b.behaviors[:i], b.behaviors[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (b *behaviorRepoStub) Count(ctx context.Context) (int64, error) {
	return int64(len(b.behaviors)), nil
}

type alertRepoStub struct {
	alerts    []models.Alert
	nextID    uint
	insertErr error
}

func (a *alertRepoStub) List(ctx context.Context, filter repository.AlertFilter) ([]models.Alert, error) {
	out := make([]models.Alert, 0, len(a.alerts))
	for _, alert := range a.alerts {
		if filter.StudentID != nil && alert.StudentID != *filter.StudentID {
			continue
		}
		if filter.UnreadOnly && alert.Read {
			continue
		}
		out = append(out, alert)
	}
	return out, nil
}

func (a *alertRepoStub) ListCreatedAfter(ctx context.Context, since time.Time) ([]models.Alert, error) {
	out := make([]models.Alert, 0)
	for _, alert := range a.alerts {
		if alert.CreatedAt.After(since) {
			out = append(out, alert)
		}
	}
	return out, nil
}

func (a *alertRepoStub) CreateBatch(ctx context.Context, alerts []models.Alert) error {
	if a.insertErr != nil {
		return a.insertErr
	}
	for i := range alerts {
		a.nextID++
		alerts[i].ID = a.nextID
		if alerts[i].CreatedAt.IsZero() {
			alerts[i].CreatedAt = time.Now()
		}
		a.alerts = append(a.alerts, alerts[i])
	}
	return nil
}

func (a *alertRepoStub) MarkRead(ctx context.Context, id uint) (models.Alert, error) {
	for i := range a.alerts {
		if a.alerts[i].ID == id {
			a.alerts[i].Read = true
			return a.alerts[i], nil
		}
	}
	return models.Alert{}, gorm.ErrRecordNotFound
}

type planRepoStub struct {
	plans  []models.TreatmentPlan
	nextID uint
}

func (p *planRepoStub) List(ctx context.Context, filter repository.PlanFilter) ([]models.TreatmentPlan, error) {
	out := make([]models.TreatmentPlan, 0, len(p.plans))
	for _, plan := range p.plans {
		if filter.Status != "" && plan.Status != filter.Status {
			continue
		}
		out = append(out, plan)
	}
	return out, nil
}

func (p *planRepoStub) GetByID(ctx context.Context, id uint) (models.TreatmentPlan, error) {
	for _, plan := range p.plans {
		if plan.ID == id {
			return plan, nil
		}
	}
	return models.TreatmentPlan{}, gorm.ErrRecordNotFound
}

func (p *planRepoStub) Create(ctx context.Context, plan *models.TreatmentPlan) error {
	p.nextID++
	plan.ID = p.nextID
	p.plans = append(p.plans, *plan)
	return nil
}

func (p *planRepoStub) Update(ctx context.Context, plan *models.TreatmentPlan) error {
	for i := range p.plans {
		if p.plans[i].ID == plan.ID {
			p.plans[i] = *plan
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (p *planRepoStub) Delete(ctx context.Context, id uint) error {
	for i := range p.plans {
		if p.plans[i].ID == id {
			p.plans = append(p.plans[:i], p.plans[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

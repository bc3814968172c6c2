package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/sanad-app/sanad-go-api/internal/dto"
	"github.com/sanad-app/sanad-go-api/internal/engine"
	"github.com/sanad-app/sanad-go-api/internal/models"
	"github.com/sanad-app/sanad-go-api/internal/repository"
)

// ErrScoreOutOfRange indicates a component score above its configured maximum.
var ErrScoreOutOfRange = errors.New("score exceeds configured maximum")

const behaviorDateLayout = "2006-01-02"

// RosterService maintains the student roster and its raw grade and behavior
// rows. Rows are validated against the configured score maxima here, before
// they ever reach the scoring pipeline; the engine never re-validates.
type RosterService interface {
	ListStudents(ctx context.Context, filter repository.StudentFilter) ([]dto.StudentResponse, error)
	GetStudent(ctx context.Context, id uint) (dto.StudentResponse, error)
	CreateStudent(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	UpdateStudent(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	DeleteStudent(ctx context.Context, id uint) error
	ListGrades(ctx context.Context, studentID uint) ([]dto.GradeResponse, error)
	AddGrade(ctx context.Context, studentID uint, payload dto.GradeCreateRequest) (dto.GradeResponse, error)
	BulkAddGrades(ctx context.Context, payload dto.BulkGradeRequest) (dto.BulkGradeResult, error)
	ListBehaviors(ctx context.Context, studentID uint) ([]dto.BehaviorResponse, error)
	AddBehavior(ctx context.Context, studentID uint, payload dto.BehaviorCreateRequest) (dto.BehaviorResponse, error)
}

type rosterService struct {
	students  repository.StudentRepository
	grades    repository.GradeRepository
	behaviors repository.BehaviorRepository
	maxima    engine.ScoreMaxima
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(students repository.StudentRepository, grades repository.GradeRepository, behaviors repository.BehaviorRepository, maxima engine.ScoreMaxima, validate *validator.Validate, logger zerolog.Logger) RosterService {
	return &rosterService{
		students:  students,
		grades:    grades,
		behaviors: behaviors,
		maxima:    maxima,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "roster_service").Logger(),
	}
}

func (s *rosterService) ListStudents(ctx context.Context, filter repository.StudentFilter) ([]dto.StudentResponse, error) {
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponseSlice(students), nil
}

func (s *rosterService) GetStudent(ctx context.Context, id uint) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *rosterService) CreateStudent(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		Name:       strings.TrimSpace(payload.Name),
		GradeLevel: strings.TrimSpace(payload.GradeLevel),
		Section:    strings.TrimSpace(payload.Section),
		Status:     models.StudentStatusActive,
		Notes:      s.clean(payload.Notes),
	}

	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student enrolled")
	return dto.NewStudentResponse(student), nil
}

func (s *rosterService) UpdateStudent(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	if payload.Name != nil {
		student.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.GradeLevel != nil {
		student.GradeLevel = strings.TrimSpace(*payload.GradeLevel)
	}
	if payload.Section != nil {
		student.Section = strings.TrimSpace(*payload.Section)
	}
	if payload.Status != nil {
		student.Status = *payload.Status
	}
	if payload.Notes != nil {
		student.Notes = s.clean(*payload.Notes)
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *rosterService) DeleteStudent(ctx context.Context, id uint) error {
	if _, err := s.students.GetByID(ctx, id); err != nil {
		return err
	}
	return s.students.Delete(ctx, id)
}

func (s *rosterService) ListGrades(ctx context.Context, studentID uint) ([]dto.GradeResponse, error) {
	grades, err := s.grades.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewGradeResponseSlice(grades), nil
}

func (s *rosterService) AddGrade(ctx context.Context, studentID uint, payload dto.GradeCreateRequest) (dto.GradeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GradeResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return dto.GradeResponse{}, err
	}

	if err := s.checkMaxima(payload); err != nil {
		return dto.GradeResponse{}, err
	}

	grade := gradeFromRequest(studentID, payload)
	grade.Notes = s.clean(payload.Notes)

	if err := s.grades.Create(ctx, &grade); err != nil {
		return dto.GradeResponse{}, err
	}

	return dto.NewGradeResponse(grade), nil
}

// BulkAddGrades validates every row, inserts the valid ones in one batch and
// reports per-row errors for the rest. A batch with no valid rows is a no-op
// rather than a failure.
func (s *rosterService) BulkAddGrades(ctx context.Context, payload dto.BulkGradeRequest) (dto.BulkGradeResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BulkGradeResult{}, err
	}

	students, err := s.students.List(ctx, repository.StudentFilter{})
	if err != nil {
		return dto.BulkGradeResult{}, err
	}
	known := make(map[uint]struct{}, len(students))
	for _, student := range students {
		known[student.ID] = struct{}{}
	}

	result := dto.BulkGradeResult{}
	batch := make([]models.Grade, 0, len(payload.Rows))

	for i, row := range payload.Rows {
		if _, ok := known[row.StudentID]; !ok {
			result.Rejected++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: unknown student %d", i+1, row.StudentID))
			continue
		}
		if err := s.checkMaxima(row.GradeCreateRequest); err != nil {
			result.Rejected++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		grade := gradeFromRequest(row.StudentID, row.GradeCreateRequest)
		grade.Notes = s.clean(row.Notes)
		batch = append(batch, grade)
	}

	if err := s.grades.CreateBatch(ctx, batch); err != nil {
		return dto.BulkGradeResult{}, err
	}

	result.Inserted = len(batch)
	s.logger.Info().Int("inserted", result.Inserted).Int("rejected", result.Rejected).Msg("bulk grade import finished")
	return result, nil
}

func (s *rosterService) ListBehaviors(ctx context.Context, studentID uint) ([]dto.BehaviorResponse, error) {
	behaviors, err := s.behaviors.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewBehaviorResponseSlice(behaviors), nil
}

func (s *rosterService) AddBehavior(ctx context.Context, studentID uint, payload dto.BehaviorCreateRequest) (dto.BehaviorResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BehaviorResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return dto.BehaviorResponse{}, err
	}

	date, err := time.Parse(behaviorDateLayout, payload.Date)
	if err != nil {
		return dto.BehaviorResponse{}, fmt.Errorf("invalid behavior date: %w", err)
	}

	behavior := models.Behavior{
		StudentID:   studentID,
		Type:        payload.Type,
		Description: s.clean(payload.Description),
		Date:        date,
	}

	if err := s.behaviors.Create(ctx, &behavior); err != nil {
		return dto.BehaviorResponse{}, err
	}

	return dto.NewBehaviorResponse(behavior), nil
}

// checkMaxima enforces the configured per-component bounds. All six
// components are validated even though only the first three feed the
// weighted-average formula.
func (s *rosterService) checkMaxima(payload dto.GradeCreateRequest) error {
	checks := []struct {
		name  string
		value *float64
		max   float64
	}{
		{"exam", payload.ExamScore, s.maxima.Exam},
		{"homework", payload.HomeworkScore, s.maxima.Homework},
		{"participation", payload.ParticipationScore, s.maxima.Participation},
		{"class_interaction", payload.ClassInteractionScore, s.maxima.ClassInteraction},
		{"project", payload.ProjectScore, s.maxima.Project},
		{"practical", payload.PracticalScore, s.maxima.Practical},
	}

	for _, check := range checks {
		if check.value == nil {
			continue
		}
		if *check.value < 0 || *check.value > check.max {
			return fmt.Errorf("%w: %s score %.1f outside 0-%.0f", ErrScoreOutOfRange, check.name, *check.value, check.max)
		}
	}

	return nil
}

func (s *rosterService) clean(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

func gradeFromRequest(studentID uint, payload dto.GradeCreateRequest) models.Grade {
	return models.Grade{
		StudentID:             studentID,
		WeekNumber:            payload.WeekNumber,
		ExamScore:             payload.ExamScore,
		HomeworkScore:         payload.HomeworkScore,
		ParticipationScore:    payload.ParticipationScore,
		ClassInteractionScore: payload.ClassInteractionScore,
		ProjectScore:          payload.ProjectScore,
		PracticalScore:        payload.PracticalScore,
	}
}

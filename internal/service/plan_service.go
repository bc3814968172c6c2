package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/sanad-app/sanad-go-api/internal/dto"
	"github.com/sanad-app/sanad-go-api/internal/engine"
	"github.com/sanad-app/sanad-go-api/internal/models"
	"github.com/sanad-app/sanad-go-api/internal/repository"
)

// PlanService generates, stores and maintains treatment plans.
type PlanService interface {
	GenerateForStudent(ctx context.Context, studentID uint) (dto.PlanResponse, error)
	GenerateForGroup(ctx context.Context, payload dto.PlanGenerateGroupRequest) (dto.PlanResponse, error)
	CreateManual(ctx context.Context, payload dto.PlanCreateRequest) (dto.PlanResponse, error)
	Update(ctx context.Context, id uint, payload dto.PlanUpdateRequest) (dto.PlanResponse, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter repository.PlanFilter) ([]dto.PlanResponse, error)
	Get(ctx context.Context, id uint) (dto.PlanResponse, error)
	SuggestAtRisk(ctx context.Context) ([]uint, error)
}

type planService struct {
	students  repository.StudentRepository
	grades    repository.GradeRepository
	behaviors repository.BehaviorRepository
	plans     repository.PlanRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewPlanService constructs a treatment plan service.
func NewPlanService(students repository.StudentRepository, grades repository.GradeRepository, behaviors repository.BehaviorRepository, plans repository.PlanRepository, validate *validator.Validate, logger zerolog.Logger) PlanService {
	return &planService{
		students:  students,
		grades:    grades,
		behaviors: behaviors,
		plans:     plans,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "plan_service").Logger(),
		tracer:    otel.Tracer("github.com/sanad-app/sanad-go-api/internal/service/plan"),
	}
}

func (s *planService) GenerateForStudent(ctx context.Context, studentID uint) (dto.PlanResponse, error) {
	ctx, span := s.tracer.Start(ctx, "plan.generate")
	span.SetAttributes(attribute.Int64("plan.student_id", int64(studentID)))
	defer span.End()

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get_student_failed")
		return dto.PlanResponse{}, err
	}

	analysis, err := s.analyze(ctx, student)
	if err != nil {
		span.RecordError(err)
		return dto.PlanResponse{}, err
	}

	body := engine.GenerateTreatmentPlan(analysis, student.Name)
	plan := planFromBody(student.ID, models.PlanTypeIndividual, nil, body)

	if err := s.plans.Create(ctx, &plan); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create_plan_failed")
		return dto.PlanResponse{}, err
	}

	s.logger.Info().Uint("plan_id", plan.ID).Uint("student_id", student.ID).Msg("treatment plan generated")
	return dto.NewPlanResponse(plan), nil
}

// GenerateForGroup averages the members' analyses into one pseudo-analysis
// and runs the generator once; the generator itself is unaware of grouping.
func (s *planService) GenerateForGroup(ctx context.Context, payload dto.PlanGenerateGroupRequest) (dto.PlanResponse, error) {
	ctx, span := s.tracer.Start(ctx, "plan.generate_group")
	span.SetAttributes(attribute.Int("plan.group_size", len(payload.StudentIDs)))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		return dto.PlanResponse{}, err
	}

	names := make([]string, 0, len(payload.StudentIDs))
	analyses := make([]engine.Analysis, 0, len(payload.StudentIDs))

	for _, id := range payload.StudentIDs {
		student, err := s.students.GetByID(ctx, id)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "get_student_failed")
			return dto.PlanResponse{}, err
		}

		analysis, err := s.analyze(ctx, student)
		if err != nil {
			span.RecordError(err)
			return dto.PlanResponse{}, err
		}

		names = append(names, student.Name)
		analyses = append(analyses, analysis)
	}

	body := engine.GenerateTreatmentPlan(engine.AverageAnalyses(analyses), groupLabel(names))
	plan := planFromBody(payload.StudentIDs[0], models.PlanTypeGroup, payload.StudentIDs, body)

	if err := s.plans.Create(ctx, &plan); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create_plan_failed")
		return dto.PlanResponse{}, err
	}

	s.logger.Info().Uint("plan_id", plan.ID).Int("group_size", len(payload.StudentIDs)).Msg("group treatment plan generated")
	return dto.NewPlanResponse(plan), nil
}

func (s *planService) CreateManual(ctx context.Context, payload dto.PlanCreateRequest) (dto.PlanResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PlanResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, payload.StudentID); err != nil {
		return dto.PlanResponse{}, err
	}

	planType := payload.PlanType
	if planType == "" {
		planType = models.PlanTypeIndividual
	}

	var targets datatypes.JSON
	if len(payload.TargetStudentIDs) > 0 {
		encoded, err := json.Marshal(payload.TargetStudentIDs)
		if err != nil {
			return dto.PlanResponse{}, err
		}
		targets = datatypes.JSON(encoded)
	}

	plan := models.TreatmentPlan{
		StudentID:         payload.StudentID,
		PlanType:          planType,
		TargetStudentIDs:  targets,
		CaseAnalysis:      s.clean(payload.CaseAnalysis),
		AcademicPlan:      s.cleanMap(payload.AcademicPlan),
		BehavioralPlan:    s.cleanMap(payload.BehavioralPlan),
		CounselorRole:     s.clean(payload.CounselorRole),
		ParentRole:        s.clean(payload.ParentRole),
		TargetImprovement: payload.TargetImprovement,
		DurationWeeks:     payload.DurationWeeks,
		Status:            models.PlanStatusActive,
	}

	if err := s.plans.Create(ctx, &plan); err != nil {
		return dto.PlanResponse{}, err
	}

	return dto.NewPlanResponse(plan), nil
}

func (s *planService) Update(ctx context.Context, id uint, payload dto.PlanUpdateRequest) (dto.PlanResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PlanResponse{}, err
	}

	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return dto.PlanResponse{}, err
	}

	if payload.CaseAnalysis != nil {
		plan.CaseAnalysis = s.clean(*payload.CaseAnalysis)
	}
	if payload.AcademicPlan != nil {
		plan.AcademicPlan = s.cleanMap(payload.AcademicPlan)
	}
	if payload.BehavioralPlan != nil {
		plan.BehavioralPlan = s.cleanMap(payload.BehavioralPlan)
	}
	if payload.CounselorRole != nil {
		plan.CounselorRole = s.clean(*payload.CounselorRole)
	}
	if payload.ParentRole != nil {
		plan.ParentRole = s.clean(*payload.ParentRole)
	}
	if payload.TargetImprovement != nil {
		plan.TargetImprovement = *payload.TargetImprovement
	}
	if payload.DurationWeeks != nil {
		plan.DurationWeeks = *payload.DurationWeeks
	}
	if payload.Status != nil {
		plan.Status = *payload.Status
	}

	if err := s.plans.Update(ctx, &plan); err != nil {
		return dto.PlanResponse{}, err
	}

	return dto.NewPlanResponse(plan), nil
}

func (s *planService) Delete(ctx context.Context, id uint) error {
	if _, err := s.plans.GetByID(ctx, id); err != nil {
		return err
	}
	return s.plans.Delete(ctx, id)
}

func (s *planService) List(ctx context.Context, filter repository.PlanFilter) ([]dto.PlanResponse, error) {
	plans, err := s.plans.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewPlanResponseSlice(plans), nil
}

func (s *planService) Get(ctx context.Context, id uint) (dto.PlanResponse, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return dto.PlanResponse{}, err
	}
	return dto.NewPlanResponse(plan), nil
}

// SuggestAtRisk returns the active students a counselor would typically
// target with a group plan: those classified needs_intervention or critical.
func (s *planService) SuggestAtRisk(ctx context.Context) ([]uint, error) {
	students, err := s.students.List(ctx, repository.StudentFilter{Status: models.StudentStatusActive})
	if err != nil {
		return nil, err
	}

	allGrades, err := s.grades.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	allBehaviors, err := s.behaviors.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	classAverage := engine.CalculateWeightedAverage(allGrades)

	gradesByStudent := map[uint][]models.Grade{}
	for _, grade := range allGrades {
		gradesByStudent[grade.StudentID] = append(gradesByStudent[grade.StudentID], grade)
	}
	behaviorsByStudent := map[uint][]models.Behavior{}
	for _, behavior := range allBehaviors {
		behaviorsByStudent[behavior.StudentID] = append(behaviorsByStudent[behavior.StudentID], behavior)
	}

	ids := make([]uint, 0, len(students))
	for _, student := range students {
		analysis := engine.AnalyzeStudent(student, gradesByStudent[student.ID], behaviorsByStudent[student.ID], classAverage)
		if analysis.RiskLevel == engine.RiskNeedsIntervention || analysis.RiskLevel == engine.RiskCritical {
			ids = append(ids, student.ID)
		}
	}

	return ids, nil
}

func (s *planService) analyze(ctx context.Context, student models.Student) (engine.Analysis, error) {
	grades, err := s.grades.ListByStudent(ctx, student.ID)
	if err != nil {
		return engine.Analysis{}, err
	}

	behaviors, err := s.behaviors.ListByStudent(ctx, student.ID)
	if err != nil {
		return engine.Analysis{}, err
	}

	allGrades, err := s.grades.ListAll(ctx)
	if err != nil {
		return engine.Analysis{}, err
	}

	classAverage := engine.CalculateWeightedAverage(allGrades)
	return engine.AnalyzeStudent(student, grades, behaviors, classAverage), nil
}

func (s *planService) clean(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

func (s *planService) cleanMap(values map[string]string) datatypes.JSONMap {
	if len(values) == 0 {
		return nil
	}
	cleaned := make(datatypes.JSONMap, len(values))
	for key, value := range values {
		cleaned[key] = s.clean(value)
	}
	return cleaned
}

func planFromBody(studentID uint, planType string, targetIDs []uint, body engine.PlanBody) models.TreatmentPlan {
	var targets datatypes.JSON
	if len(targetIDs) > 0 {
		if encoded, err := json.Marshal(targetIDs); err == nil {
			targets = datatypes.JSON(encoded)
		}
	}

	return models.TreatmentPlan{
		StudentID:         studentID,
		PlanType:          planType,
		TargetStudentIDs:  targets,
		CaseAnalysis:      body.CaseAnalysis,
		AcademicPlan:      stringMapToJSONMap(body.AcademicPlan),
		BehavioralPlan:    stringMapToJSONMap(body.BehavioralPlan),
		CounselorRole:     body.CounselorRole,
		ParentRole:        body.ParentRole,
		SuccessIndicators: successIndicatorsToJSONMap(body.SuccessIndicators),
		TargetImprovement: body.TargetImprovement,
		DurationWeeks:     body.DurationWeeks,
		Status:            models.PlanStatusActive,
	}
}

// groupLabel composes the display name the generator narrates for a group
// plan: the member count plus up to the first three names.
func groupLabel(names []string) string {
	shown := names
	suffix := ""
	if len(names) > 3 {
		shown = names[:3]
		suffix = "..."
	}
	return fmt.Sprintf("Group (%d students: %s%s)", len(names), strings.Join(shown, ", "), suffix)
}

func stringMapToJSONMap(values map[string]string) datatypes.JSONMap {
	result := make(datatypes.JSONMap, len(values))
	for key, value := range values {
		result[key] = value
	}
	return result
}

func successIndicatorsToJSONMap(indicators engine.SuccessIndicators) datatypes.JSONMap {
	encoded, err := json.Marshal(indicators)
	if err != nil {
		return nil
	}
	var result datatypes.JSONMap
	if err := json.Unmarshal(encoded, &result); err != nil {
		return nil
	}
	return result
}

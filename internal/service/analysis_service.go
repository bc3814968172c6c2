package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanad-app/sanad-go-api/internal/dto"
	"github.com/sanad-app/sanad-go-api/internal/engine"
	"github.com/sanad-app/sanad-go-api/internal/models"
	"github.com/sanad-app/sanad-go-api/internal/repository"
)

const overviewCacheKey = "analysis:overview"

// AnalysisService runs the risk analysis pipeline over persisted rows. The
// per-student analysis is recomputed from scratch on every call; only the
// dashboard overview is cached, and only here, never inside the engine.
type AnalysisService interface {
	AnalyzeStudent(ctx context.Context, studentID uint) (dto.StudentAnalysisResponse, error)
	GetOverview(ctx context.Context) (dto.OverviewResponse, error)
	ClassAverage(ctx context.Context) (float64, error)
}

type analysisService struct {
	students  repository.StudentRepository
	grades    repository.GradeRepository
	behaviors repository.BehaviorRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewAnalysisService constructs the analysis orchestrator.
func NewAnalysisService(students repository.StudentRepository, grades repository.GradeRepository, behaviors repository.BehaviorRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AnalysisService {
	return &analysisService{
		students:  students,
		grades:    grades,
		behaviors: behaviors,
		cache:     cache,
		cacheTTL:  ttl,
		logger:    logger.With().Str("component", "analysis_service").Logger(),
		tracer:    otel.Tracer("github.com/sanad-app/sanad-go-api/internal/service/analysis"),
		now:       time.Now,
	}
}

func (s *analysisService) AnalyzeStudent(ctx context.Context, studentID uint) (dto.StudentAnalysisResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.student")
	span.SetAttributes(attribute.Int64("analysis.student_id", int64(studentID)))
	defer span.End()

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get_student_failed")
		return dto.StudentAnalysisResponse{}, err
	}

	grades, err := s.grades.ListByStudent(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		return dto.StudentAnalysisResponse{}, err
	}

	behaviors, err := s.behaviors.ListByStudent(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		return dto.StudentAnalysisResponse{}, err
	}

	classAverage, err := s.ClassAverage(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.StudentAnalysisResponse{}, err
	}

	analysis := engine.AnalyzeStudent(student, grades, behaviors, classAverage)
	span.SetAttributes(attribute.String("analysis.risk_level", string(analysis.RiskLevel)))

	return dto.StudentAnalysisResponse{
		StudentID:   student.ID,
		StudentName: student.Name,
		Status:      student.Status,
		Analysis:    analysis,
	}, nil
}

func (s *analysisService) GetOverview(ctx context.Context) (dto.OverviewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.overview")
	defer span.End()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, overviewCacheKey).Result(); err == nil {
			var response dto.OverviewResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("analysis.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read overview cache")
			span.RecordError(err)
		}
	}

	students, err := s.students.List(ctx, repository.StudentFilter{Status: models.StudentStatusActive})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_students_failed")
		return dto.OverviewResponse{}, err
	}

	allGrades, err := s.grades.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.OverviewResponse{}, err
	}

	allBehaviors, err := s.behaviors.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.OverviewResponse{}, err
	}

	response := s.buildOverview(students, allGrades, allBehaviors)
	span.SetAttributes(attribute.Int("analysis.student_count", len(students)))

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, overviewCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store overview cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

func (s *analysisService) ClassAverage(ctx context.Context) (float64, error) {
	allGrades, err := s.grades.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return engine.CalculateWeightedAverage(allGrades), nil
}

func (s *analysisService) buildOverview(students []models.Student, allGrades []models.Grade, allBehaviors []models.Behavior) dto.OverviewResponse {
	classAverage := engine.CalculateWeightedAverage(allGrades)

	gradesByStudent := map[uint][]models.Grade{}
	for _, grade := range allGrades {
		gradesByStudent[grade.StudentID] = append(gradesByStudent[grade.StudentID], grade)
	}

	behaviorsByStudent := map[uint][]models.Behavior{}
	for _, behavior := range allBehaviors {
		behaviorsByStudent[behavior.StudentID] = append(behaviorsByStudent[behavior.StudentID], behavior)
	}

	var distribution dto.RiskDistribution
	analyses := make([]dto.StudentAnalysisResponse, 0, len(students))

	for _, student := range students {
		analysis := engine.AnalyzeStudent(student, gradesByStudent[student.ID], behaviorsByStudent[student.ID], classAverage)

		switch analysis.RiskLevel {
		case engine.RiskExcellent:
			distribution.Excellent++
		case engine.RiskStable:
			distribution.Stable++
		case engine.RiskNeedsIntervention:
			distribution.NeedsIntervention++
		case engine.RiskCritical:
			distribution.Critical++
		}

		analyses = append(analyses, dto.StudentAnalysisResponse{
			StudentID:   student.ID,
			StudentName: student.Name,
			Status:      student.Status,
			Analysis:    analysis,
		})
	}

	atRisk := make([]dto.StudentAnalysisResponse, 0, len(analyses))
	for _, entry := range analyses {
		if entry.Analysis.RiskLevel == engine.RiskNeedsIntervention || entry.Analysis.RiskLevel == engine.RiskCritical {
			atRisk = append(atRisk, entry)
		}
	}
	sort.SliceStable(atRisk, func(i, j int) bool {
		return combinedRisk(atRisk[i].Analysis) > combinedRisk(atRisk[j].Analysis)
	})
	if len(atRisk) > 5 {
		atRisk = atRisk[:5]
	}

	return dto.OverviewResponse{
		ClassAverage:     classAverage,
		TotalStudents:    len(students),
		Distribution:     distribution,
		Students:         analyses,
		TopAtRisk:        atRisk,
		EvaluatedAtEpoch: s.now().Unix(),
	}
}

func combinedRisk(a engine.Analysis) float64 {
	return a.AcademicRiskIndex*0.6 + a.BehavioralRiskIndex*0.4
}

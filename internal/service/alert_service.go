package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
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

const (
	alertSubject         = "sanad.alerts"
	alertStreamBufferLen = 16

	academicRiskThreshold       = 30
	behavioralRiskThreshold     = 40
	behavioralCriticalThreshold = 70
	decliningTrendThreshold     = 10
)

// AlertService evaluates the alert rules over the current roster and serves
// the resulting alert feed. Evaluation reads recent alerts and writes new
// ones; everything else in the pipeline stays pure.
type AlertService interface {
	Evaluate(ctx context.Context) (dto.AlertEvaluationResult, error)
	List(ctx context.Context, filter repository.AlertFilter) ([]dto.AlertResponse, error)
	MarkRead(ctx context.Context, id uint) (dto.AlertResponse, error)
	Subscribe() (<-chan dto.AlertResponse, func())
	Start(ctx context.Context)
}

type alertService struct {
	students    repository.StudentRepository
	grades      repository.GradeRepository
	behaviors   repository.BehaviorRepository
	alerts      repository.AlertRepository
	nats        *nats.Conn
	dedupWindow time.Duration
	logger      zerolog.Logger
	tracer      trace.Tracer
	broker      *alertBroker
	nodeID      string
	now         func() time.Time

	// Count-based change fingerprint. A cheap proxy, not a content hash: an
	// in-place grade edit preserves all three counts and is not detected.
	// Recorded only after a successful insert so a failed batch is retried
	// on the next pass.
	mu              sync.Mutex
	lastFingerprint string
}

type alertEvent struct {
	Source string            `json:"source"`
	Alert  dto.AlertResponse `json:"alert"`
	SentAt time.Time         `json:"sent_at"`
}

type alertBroker struct {
	mu          sync.RWMutex
	subscribers map[chan dto.AlertResponse]struct{}
}

// NewAlertService constructs the alert rule engine.
func NewAlertService(students repository.StudentRepository, grades repository.GradeRepository, behaviors repository.BehaviorRepository, alerts repository.AlertRepository, natsConn *nats.Conn, dedupWindow time.Duration, logger zerolog.Logger) AlertService {
	if dedupWindow <= 0 {
		dedupWindow = 7 * 24 * time.Hour
	}

	return &alertService{
		students:    students,
		grades:      grades,
		behaviors:   behaviors,
		alerts:      alerts,
		nats:        natsConn,
		dedupWindow: dedupWindow,
		logger:      logger.With().Str("component", "alert_service").Logger(),
		tracer:      otel.Tracer("github.com/sanad-app/sanad-go-api/internal/service/alert"),
		broker:      &alertBroker{subscribers: make(map[chan dto.AlertResponse]struct{})},
		nodeID:      uuid.NewString(),
		now:         time.Now,
	}
}

// Evaluate runs one rule engine pass. The pass is idempotent for a fixed
// snapshot: with no new data and no elapsed dedup window it produces an
// empty batch, and identical consecutive snapshots are skipped outright via
// the fingerprint.
func (s *alertService) Evaluate(ctx context.Context) (dto.AlertEvaluationResult, error) {
	ctx, span := s.tracer.Start(ctx, "alerts.evaluate")
	defer span.End()

	students, err := s.students.List(ctx, repository.StudentFilter{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_students_failed")
		return dto.AlertEvaluationResult{}, err
	}

	allGrades, err := s.grades.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.AlertEvaluationResult{}, err
	}

	allBehaviors, err := s.behaviors.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.AlertEvaluationResult{}, err
	}

	if len(students) == 0 || len(allGrades) == 0 {
		return dto.AlertEvaluationResult{Skipped: true}, nil
	}

	fingerprint := fmt.Sprintf("%d-%d-%d", len(students), len(allGrades), len(allBehaviors))
	s.mu.Lock()
	unchanged := fingerprint == s.lastFingerprint
	s.mu.Unlock()
	if unchanged {
		span.SetAttributes(attribute.Bool("alerts.fingerprint_hit", true))
		return dto.AlertEvaluationResult{Skipped: true}, nil
	}

	since := s.now().Add(-s.dedupWindow)
	recent, err := s.alerts.ListCreatedAfter(ctx, since)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_recent_alerts_failed")
		return dto.AlertEvaluationResult{}, err
	}

	recentKeys := make(map[string]struct{}, len(recent))
	for _, alert := range recent {
		recentKeys[alert.DedupKey()] = struct{}{}
	}

	batch := s.buildBatch(students, allGrades, allBehaviors, recentKeys)
	span.SetAttributes(
		attribute.Int("alerts.evaluated_students", len(students)),
		attribute.Int("alerts.batch_size", len(batch)),
	)

	if len(batch) > 0 {
		// A failed insert leaves the batch wholly unconfirmed; the
		// fingerprint stays unset so the next pass retries.
		if err := s.alerts.CreateBatch(ctx, batch); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "insert_batch_failed")
			return dto.AlertEvaluationResult{}, fmt.Errorf("failed to insert alert batch: %w", err)
		}
	}

	s.mu.Lock()
	s.lastFingerprint = fingerprint
	s.mu.Unlock()

	created := dto.NewAlertResponseSlice(batch)
	for _, alert := range created {
		s.publish(alert)
	}

	if len(created) > 0 {
		s.logger.Info().Int("count", len(created)).Msg("alert batch created")
	}

	evaluated := 0
	for _, student := range students {
		if student.IsActive() {
			evaluated++
		}
	}

	return dto.AlertEvaluationResult{
		Evaluated: evaluated,
		Created:   created,
	}, nil
}

// buildBatch evaluates the four alert rules for every active student. Rules
// fire independently, so one student can contribute several alert types in a
// single pass. The dedup set is a snapshot and is not updated mid-pass.
func (s *alertService) buildBatch(students []models.Student, allGrades []models.Grade, allBehaviors []models.Behavior, recentKeys map[string]struct{}) []models.Alert {
	classAverage := engine.CalculateWeightedAverage(allGrades)

	gradesByStudent := map[uint][]models.Grade{}
	for _, grade := range allGrades {
		gradesByStudent[grade.StudentID] = append(gradesByStudent[grade.StudentID], grade)
	}

	behaviorsByStudent := map[uint][]models.Behavior{}
	for _, behavior := range allBehaviors {
		behaviorsByStudent[behavior.StudentID] = append(behaviorsByStudent[behavior.StudentID], behavior)
	}

	var batch []models.Alert
	add := func(studentID uint, alertType, message, severity string) {
		if _, seen := recentKeys[models.AlertDedupKey(studentID, alertType)]; seen {
			return
		}
		batch = append(batch, models.Alert{
			StudentID: studentID,
			Type:      alertType,
			Message:   message,
			Severity:  severity,
		})
	}

	for _, student := range students {
		if !student.IsActive() {
			continue
		}

		behaviors := behaviorsByStudent[student.ID]
		analysis := engine.AnalyzeStudent(student, gradesByStudent[student.ID], behaviors, classAverage)

		if (analysis.RiskLevel == engine.RiskNeedsIntervention || analysis.RiskLevel == engine.RiskCritical) &&
			analysis.AcademicRiskIndex > academicRiskThreshold {
			severity := models.AlertSeverityWarning
			if analysis.RiskLevel == engine.RiskCritical {
				severity = models.AlertSeverityCritical
			}
			add(student.ID, models.AlertTypeAcademicIntervention,
				fmt.Sprintf("Student %s needs urgent academic intervention: average %.1f%% with academic risk at %.0f%%",
					student.Name, analysis.WeightedAverage, analysis.AcademicRiskIndex),
				severity)
		}

		if analysis.BehavioralRiskIndex > behavioralRiskThreshold {
			severity := models.AlertSeverityWarning
			if analysis.BehavioralRiskIndex > behavioralCriticalThreshold {
				severity = models.AlertSeverityCritical
			}
			negatives := 0
			for _, behavior := range behaviors {
				if behavior.IsNegative() {
					negatives++
				}
			}
			add(student.ID, models.AlertTypeBehavioralIntervention,
				fmt.Sprintf("Student %s needs behavioral intervention: %d negative incidents (behavioral risk %.0f%%)",
					student.Name, negatives, analysis.BehavioralRiskIndex),
				severity)
		}

		if analysis.Trend == engine.TrendDown && math.Abs(analysis.TrendPercentage) > decliningTrendThreshold {
			add(student.ID, models.AlertTypeDecliningPerformance,
				fmt.Sprintf("Student %s shows a marked decline in performance (%.1f%% drop)",
					student.Name, math.Abs(analysis.TrendPercentage)),
				models.AlertSeverityWarning)
		}

		if analysis.RiskLevel == engine.RiskCritical {
			add(student.ID, models.AlertTypeCriticalRisk,
				fmt.Sprintf("Student %s is at critical risk and needs immediate intervention (academic: %.0f%% | behavioral: %.0f%%)",
					student.Name, analysis.AcademicRiskIndex, analysis.BehavioralRiskIndex),
				models.AlertSeverityCritical)
		}
	}

	return batch
}

func (s *alertService) List(ctx context.Context, filter repository.AlertFilter) ([]dto.AlertResponse, error) {
	alerts, err := s.alerts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewAlertResponseSlice(alerts), nil
}

func (s *alertService) MarkRead(ctx context.Context, id uint) (dto.AlertResponse, error) {
	alert, err := s.alerts.MarkRead(ctx, id)
	if err != nil {
		return dto.AlertResponse{}, err
	}
	return dto.NewAlertResponse(alert), nil
}

// Subscribe registers a listener on the in-process alert stream. The
// returned cancel func must be called to release the channel.
func (s *alertService) Subscribe() (<-chan dto.AlertResponse, func()) {
	ch := make(chan dto.AlertResponse, alertStreamBufferLen)

	s.broker.mu.Lock()
	s.broker.subscribers[ch] = struct{}{}
	s.broker.mu.Unlock()

	cancel := func() {
		s.broker.mu.Lock()
		if _, ok := s.broker.subscribers[ch]; ok {
			delete(s.broker.subscribers, ch)
			close(ch)
		}
		s.broker.mu.Unlock()
	}

	return ch, cancel
}

// Start attaches the NATS consumer that fans alerts from other nodes into
// the local stream. Safe to call with a nil connection.
func (s *alertService) Start(ctx context.Context) {
	if s.nats == nil {
		return
	}

	sub, err := s.nats.Subscribe(alertSubject, func(msg *nats.Msg) {
		var event alertEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			s.logger.Warn().Err(err).Msg("failed to decode alert event")
			return
		}
		if event.Source == s.nodeID {
			return
		}
		s.broadcast(event.Alert)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to alert subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to unsubscribe from alert subject")
		}
	}()
}

func (s *alertService) publish(alert dto.AlertResponse) {
	s.broadcast(alert)

	if s.nats == nil {
		return
	}

	payload, err := json.Marshal(alertEvent{Source: s.nodeID, Alert: alert, SentAt: s.now()})
	if err != nil {
		return
	}
	if err := s.nats.Publish(alertSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish alert event")
	}
}

func (s *alertService) broadcast(alert dto.AlertResponse) {
	s.broker.mu.RLock()
	defer s.broker.mu.RUnlock()

	for ch := range s.broker.subscribers {
		select {
		case ch <- alert:
		default:
			// Slow subscribers drop alerts rather than block the pass.
		}
	}
}

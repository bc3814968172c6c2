package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sanad-app/sanad-go-api/internal/models"
	"github.com/sanad-app/sanad-go-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedResult reports how many demo rows were inserted.
type SeedResult struct {
	Students  int `json:"students"`
	Grades    int `json:"grades"`
	Behaviors int `json:"behaviors"`
}

// SeedService populates a demo roster with several weeks of grades and
// behavior incidents so that the scoring pipeline has data to work on.
type SeedService interface {
	SeedDemoRoster(ctx context.Context, token string) (SeedResult, error)
}

type seedService struct {
	students  repository.StudentRepository
	grades    repository.GradeRepository
	behaviors repository.BehaviorRepository
	enabled   bool
	token     string
	logger    zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(students repository.StudentRepository, grades repository.GradeRepository, behaviors repository.BehaviorRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		students:  students,
		grades:    grades,
		behaviors: behaviors,
		enabled:   enabled,
		token:     token,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

// seedProfile shapes one demo student's data so the roster exercises every
// risk band, from a steady high performer to a declining critical case.
type seedProfile struct {
	name      string
	section   string
	baseScore float64
	weeklyDip float64
	negatives int
	positives int
}

var demoProfiles = []seedProfile{
	{name: "Omar Hassan", section: "A", baseScore: 92, weeklyDip: 0, negatives: 0, positives: 3},
	{name: "Lina Saeed", section: "A", baseScore: 78, weeklyDip: 1, negatives: 1, positives: 2},
	{name: "Yousef Karim", section: "B", baseScore: 64, weeklyDip: 2, negatives: 2, positives: 1},
	{name: "Maha Adel", section: "B", baseScore: 55, weeklyDip: 4, negatives: 3, positives: 1},
	{name: "Tariq Nabil", section: "C", baseScore: 45, weeklyDip: 6, negatives: 5, positives: 0},
}

const seedWeeks = 5

func (s *seedService) SeedDemoRoster(ctx context.Context, token string) (SeedResult, error) {
	if !s.enabled {
		return SeedResult{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return SeedResult{}, ErrSeedUnauthorized
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	result := SeedResult{}

	for _, profile := range demoProfiles {
		student := models.Student{
			Name:       profile.name,
			GradeLevel: "Grade 9",
			Section:    profile.section,
			Status:     models.StudentStatusActive,
		}
		if err := s.students.Create(ctx, &student); err != nil {
			return SeedResult{}, err
		}
		result.Students++

		grades := make([]models.Grade, 0, seedWeeks)
		for week := 1; week <= seedWeeks; week++ {
			base := profile.baseScore - profile.weeklyDip*float64(week-1)
			grades = append(grades, models.Grade{
				StudentID:          student.ID,
				WeekNumber:         week,
				ExamScore:          seedScore(rng, base),
				HomeworkScore:      seedScore(rng, base+3),
				ParticipationScore: seedScore(rng, base-2),
			})
		}
		if err := s.grades.CreateBatch(ctx, grades); err != nil {
			return SeedResult{}, err
		}
		result.Grades += len(grades)

		incidents := seedIncidents(student.ID, profile)
		for i := range incidents {
			if err := s.behaviors.Create(ctx, &incidents[i]); err != nil {
				return SeedResult{}, err
			}
		}
		result.Behaviors += len(incidents)
	}

	s.logger.Info().
		Int("students", result.Students).
		Int("grades", result.Grades).
		Int("behaviors", result.Behaviors).
		Msg("demo roster seeded")

	return result, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtleConstantTimeCompare(expected, strings.TrimSpace(token))
}

func subtleConstantTimeCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	mismatch := byte(0)
	for i := 0; i < len(a); i++ {
		mismatch |= a[i] ^ b[i]
	}
	return mismatch == 0
}

// seedScore jitters a base score by up to ±4 points and clamps to 0-100.
func seedScore(rng *rand.Rand, base float64) *float64 {
	value := base + float64(rng.Intn(9)-4)
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return &value
}

func seedIncidents(studentID uint, profile seedProfile) []models.Behavior {
	incidents := make([]models.Behavior, 0, profile.negatives+profile.positives)
	now := time.Now()

	for i := 0; i < profile.negatives; i++ {
		incidents = append(incidents, models.Behavior{
			StudentID:   studentID,
			Type:        models.BehaviorTypeNegative,
			Description: fmt.Sprintf("Disrupted class during week %d", i+1),
			Date:        now.AddDate(0, 0, -(i*3 + 1)),
		})
	}
	for i := 0; i < profile.positives; i++ {
		incidents = append(incidents, models.Behavior{
			StudentID:   studentID,
			Type:        models.BehaviorTypePositive,
			Description: fmt.Sprintf("Helped classmates during week %d", i+1),
			Date:        now.AddDate(0, 0, -(i*4 + 2)),
		})
	}

	return incidents
}

package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/sanad-app/sanad-go-api/internal/engine"
	"github.com/sanad-app/sanad-go-api/internal/models"
)

func analysisFixtures() (*studentRepoStub, *gradeRepoStub, *behaviorRepoStub) {
	students := &studentRepoStub{students: []models.Student{
		{ID: 1, Name: "Omar", Status: models.StudentStatusActive},
		{ID: 2, Name: "Maha", Status: models.StudentStatusActive},
		{ID: 3, Name: "Archived", Status: models.StudentStatusArchived},
	}, nextID: 3}

	grades := &gradeRepoStub{grades: []models.Grade{
		{ID: 1, StudentID: 1, WeekNumber: 1, ExamScore: score(90), HomeworkScore: score(90), ParticipationScore: score(90)},
		{ID: 2, StudentID: 1, WeekNumber: 2, ExamScore: score(92), HomeworkScore: score(92), ParticipationScore: score(92)},
		{ID: 3, StudentID: 2, WeekNumber: 1, ExamScore: score(40), HomeworkScore: score(40), ParticipationScore: score(40)},
		{ID: 4, StudentID: 2, WeekNumber: 2, ExamScore: score(35), HomeworkScore: score(35), ParticipationScore: score(35)},
	}, nextID: 4}

	behaviors := &behaviorRepoStub{behaviors: []models.Behavior{
		{ID: 1, StudentID: 2, Type: models.BehaviorTypeNegative, Description: "late", Date: time.Now()},
		{ID: 2, StudentID: 2, Type: models.BehaviorTypeNegative, Description: "disruption", Date: time.Now()},
		{ID: 3, StudentID: 2, Type: models.BehaviorTypePositive, Description: "helped", Date: time.Now()},
	}, nextID: 3}

	return students, grades, behaviors
}

func TestAnalyzeStudent(t *testing.T) {
	students, grades, behaviors := analysisFixtures()
	svc := NewAnalysisService(students, grades, behaviors, nil, time.Minute, testLogger())

	resp, err := svc.AnalyzeStudent(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, uint(1), resp.StudentID)
	require.Equal(t, "Omar", resp.StudentName)
	require.Equal(t, 91.0, resp.Analysis.WeightedAverage)
	require.Equal(t, engine.TrendStable, resp.Analysis.Trend)
	require.Equal(t, engine.RiskExcellent, resp.Analysis.RiskLevel)

	_, err = svc.AnalyzeStudent(context.Background(), 99)
	require.Error(t, err)
}

func TestAnalyzeStudentComparesAgainstClass(t *testing.T) {
	students, grades, behaviors := analysisFixtures()
	svc := NewAnalysisService(students, grades, behaviors, nil, time.Minute, testLogger())

	strong, err := svc.AnalyzeStudent(context.Background(), 1)
	require.NoError(t, err)
	weak, err := svc.AnalyzeStudent(context.Background(), 2)
	require.NoError(t, err)

	require.Greater(t, strong.Analysis.ClassComparison, 0.0)
	require.Less(t, weak.Analysis.ClassComparison, 0.0)
}

func TestGetOverviewCountsOnlyActiveStudents(t *testing.T) {
	students, grades, behaviors := analysisFixtures()
	svc := NewAnalysisService(students, grades, behaviors, nil, time.Minute, testLogger())

	resp, err := svc.GetOverview(context.Background())
	require.NoError(t, err)
	require.False(t, resp.CacheHit)
	require.Equal(t, 2, resp.TotalStudents)
	require.Len(t, resp.Students, 2)

	total := resp.Distribution.Excellent + resp.Distribution.Stable +
		resp.Distribution.NeedsIntervention + resp.Distribution.Critical
	require.Equal(t, 2, total)
	require.Equal(t, 1, resp.Distribution.Excellent)
}

func TestGetOverviewRanksTopAtRisk(t *testing.T) {
	students, grades, behaviors := analysisFixtures()
	svc := NewAnalysisService(students, grades, behaviors, nil, time.Minute, testLogger())

	resp, err := svc.GetOverview(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, resp.TopAtRisk)
	for _, entry := range resp.TopAtRisk {
		level := entry.Analysis.RiskLevel
		require.Contains(t, []engine.RiskLevel{engine.RiskNeedsIntervention, engine.RiskCritical}, level)
	}
	require.Equal(t, uint(2), resp.TopAtRisk[0].StudentID)
}

func TestGetOverviewCaching(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	students, grades, behaviors := analysisFixtures()
	svc := NewAnalysisService(students, grades, behaviors, redisClient, time.Minute, testLogger())

	first, err := svc.GetOverview(context.Background())
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	// Mutating the roster must not show up while the cache entry lives.
	students.students = students.students[:1]

	second, err := svc.GetOverview(context.Background())
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.TotalStudents, second.TotalStudents)

	server.FastForward(2 * time.Minute)

	third, err := svc.GetOverview(context.Background())
	require.NoError(t, err)
	require.False(t, third.CacheHit)
	require.Equal(t, 1, third.TotalStudents)
}

func TestClassAverage(t *testing.T) {
	students, grades, behaviors := analysisFixtures()
	svc := NewAnalysisService(students, grades, behaviors, nil, time.Minute, testLogger())

	avg, err := svc.ClassAverage(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 64.25, avg, 0.001)

	grades.grades = nil
	avg, err = svc.ClassAverage(context.Background())
	require.NoError(t, err)
	require.Zero(t, avg)
}

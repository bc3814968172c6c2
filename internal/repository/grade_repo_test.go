package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

func TestGradeRepositoryListByStudentOrdersByWeek(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradeRepository(db)
	student := seedStudent(t, db, "Sara", models.StudentStatusActive)
	other := seedStudent(t, db, "Omar", models.StudentStatusActive)

	exam := 70.0
	require.NoError(t, repo.CreateBatch(context.Background(), []models.Grade{
		{StudentID: student.ID, WeekNumber: 3, ExamScore: &exam},
		{StudentID: student.ID, WeekNumber: 1, ExamScore: &exam},
		{StudentID: other.ID, WeekNumber: 2, ExamScore: &exam},
	}))

	grades, err := repo.ListByStudent(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, grades, 2)
	require.Equal(t, 1, grades[0].WeekNumber)
	require.Equal(t, 3, grades[1].WeekNumber)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

func TestGradeRepositoryCreateBatchEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradeRepository(db)
	require.NoError(t, repo.CreateBatch(context.Background(), nil))
}

func TestBehaviorRepositoryListByStudentNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBehaviorRepository(db)
	student := seedStudent(t, db, "Lina", models.StudentStatusActive)

	older := models.Behavior{StudentID: student.ID, Type: models.BehaviorTypeNegative, Description: "late", Date: dayOffset(-3)}
	newer := models.Behavior{StudentID: student.ID, Type: models.BehaviorTypePositive, Description: "helped a classmate", Date: dayOffset(-1)}
	require.NoError(t, repo.Create(context.Background(), &older))
	require.NoError(t, repo.Create(context.Background(), &newer))

	behaviors, err := repo.ListByStudent(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, behaviors, 2)
	require.Equal(t, "helped a classmate", behaviors[0].Description)
}

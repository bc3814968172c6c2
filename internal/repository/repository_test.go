package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.Grade{},
		&models.Behavior{},
		&models.Alert{},
		&models.TreatmentPlan{},
	))
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, name, status string) models.Student {
	t.Helper()
	student := models.Student{Name: name, GradeLevel: "10", Section: "A", Status: status}
	require.NoError(t, db.Create(&student).Error)
	return student
}

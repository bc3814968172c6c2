package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

// GradeRepository handles persistence for weekly grade rows.
type GradeRepository interface {
	ListAll(ctx context.Context) ([]models.Grade, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
	CreateBatch(ctx context.Context, grades []models.Grade) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository constructs a grade repository backed by GORM.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) ListAll(ctx context.Context) ([]models.Grade, error) {
	var grades []models.Grade
	if err := r.db.WithContext(ctx).Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

func (r *gradeRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Grade, error) {
	var grades []models.Grade
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("week_number ASC").
		Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

func (r *gradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepository) CreateBatch(ctx context.Context, grades []models.Grade) error {
	if len(grades) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&grades).Error
}

func (r *gradeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Grade{}, id).Error
}

func (r *gradeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Grade{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

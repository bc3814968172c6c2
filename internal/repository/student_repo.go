package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

// StudentFilter narrows student listings.
type StudentFilter struct {
	Status  string
	Section string
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uint) error
	SetPhotoURL(ctx context.Context, id uint, url string) error
	Count(ctx context.Context) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository backed by GORM.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Section != "" {
		query = query.Where("section = ?", filter.Section)
	}

	var students []models.Student
	if err := query.Order("created_at DESC").Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Student{}, id).Error
}

func (r *studentRepository) SetPhotoURL(ctx context.Context, id uint, url string) error {
	return r.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Update("photo_url", url).Error
}

func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

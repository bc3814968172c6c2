package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

// BehaviorRepository handles persistence for behavioral incidents.
type BehaviorRepository interface {
	ListAll(ctx context.Context) ([]models.Behavior, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Behavior, error)
	Create(ctx context.Context, behavior *models.Behavior) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type behaviorRepository struct {
	db *gorm.DB
}

// NewBehaviorRepository constructs a behavior repository backed by GORM.
func NewBehaviorRepository(db *gorm.DB) BehaviorRepository {
	return &behaviorRepository{db: db}
}

func (r *behaviorRepository) ListAll(ctx context.Context) ([]models.Behavior, error) {
	var behaviors []models.Behavior
	if err := r.db.WithContext(ctx).Find(&behaviors).Error; err != nil {
		return nil, err
	}
	return behaviors, nil
}

func (r *behaviorRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Behavior, error) {
	var behaviors []models.Behavior
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date DESC").
		Find(&behaviors).Error; err != nil {
		return nil, err
	}
	return behaviors, nil
}

func (r *behaviorRepository) Create(ctx context.Context, behavior *models.Behavior) error {
	return r.db.WithContext(ctx).Create(behavior).Error
}

func (r *behaviorRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Behavior{}, id).Error
}

func (r *behaviorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Behavior{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

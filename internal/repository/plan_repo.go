package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

// PlanFilter narrows treatment plan listings.
type PlanFilter struct {
	StudentID *uint
	Status    string
}

// PlanRepository handles persistence for treatment plans.
type PlanRepository interface {
	List(ctx context.Context, filter PlanFilter) ([]models.TreatmentPlan, error)
	GetByID(ctx context.Context, id uint) (models.TreatmentPlan, error)
	Create(ctx context.Context, plan *models.TreatmentPlan) error
	Update(ctx context.Context, plan *models.TreatmentPlan) error
	Delete(ctx context.Context, id uint) error
}

type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository constructs a treatment plan repository backed by GORM.
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) List(ctx context.Context, filter PlanFilter) ([]models.TreatmentPlan, error) {
	query := r.db.WithContext(ctx).Model(&models.TreatmentPlan{})
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var plans []models.TreatmentPlan
	if err := query.Order("created_at DESC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *planRepository) GetByID(ctx context.Context, id uint) (models.TreatmentPlan, error) {
	var plan models.TreatmentPlan
	if err := r.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		return models.TreatmentPlan{}, err
	}
	return plan, nil
}

func (r *planRepository) Create(ctx context.Context, plan *models.TreatmentPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepository) Update(ctx context.Context, plan *models.TreatmentPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *planRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.TreatmentPlan{}, id).Error
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sanad-app/sanad-go-api/internal/models"
)

// AlertFilter narrows alert listings.
type AlertFilter struct {
	StudentID  *uint
	UnreadOnly bool
}

// AlertRepository handles persistence for risk alerts.
type AlertRepository interface {
	List(ctx context.Context, filter AlertFilter) ([]models.Alert, error)
	ListCreatedAfter(ctx context.Context, since time.Time) ([]models.Alert, error)
	CreateBatch(ctx context.Context, alerts []models.Alert) error
	MarkRead(ctx context.Context, id uint) (models.Alert, error)
}

type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository constructs an alert repository backed by GORM.
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) List(ctx context.Context, filter AlertFilter) ([]models.Alert, error) {
	query := r.db.WithContext(ctx).Model(&models.Alert{})
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.UnreadOnly {
		query = query.Where("read = ?", false)
	}

	var alerts []models.Alert
	if err := query.Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepository) ListCreatedAfter(ctx context.Context, since time.Time) ([]models.Alert, error) {
	var alerts []models.Alert
	if err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// CreateBatch inserts the batch in one statement. A failed insert leaves the
// whole batch unconfirmed; callers retry on the next evaluation pass.
func (r *alertRepository) CreateBatch(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&alerts).Error
}

func (r *alertRepository) MarkRead(ctx context.Context, id uint) (models.Alert, error) {
	var alert models.Alert
	if err := r.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		return models.Alert{}, err
	}

	if alert.Read {
		return alert, nil
	}

	alert.Read = true
	if err := r.db.WithContext(ctx).Save(&alert).Error; err != nil {
		return models.Alert{}, err
	}

	return alert, nil
}

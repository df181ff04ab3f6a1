package repository

import (
	"time"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	CreateBatch(templates []model.ReviewTemplate) error
	FindByBusiness(businessID uint) ([]model.ReviewTemplate, error)
	CountBatchesThisMonth(ownerID uint) (int64, error)
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) CreateBatch(templates []model.ReviewTemplate) error {
	if len(templates) == 0 {
		return nil
	}
	if err := r.db.Create(&templates).Error; err != nil {
		logger.Error("Failed to persist review templates", err, map[string]interface{}{
			"business_id": templates[0].BusinessID,
			"count":       len(templates),
		})
		return err
	}
	return nil
}

func (r *templateRepository) FindByBusiness(businessID uint) ([]model.ReviewTemplate, error) {
	var templates []model.ReviewTemplate
	err := r.db.Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// CountBatchesThisMonth counts generation batches across all of an owner's
// businesses in the current calendar month; plan limits apply per owner,
// not per business.
func (r *templateRepository) CountBatchesThisMonth(ownerID uint) (int64, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var count int64
	err := r.db.Model(&model.ActivityLog{}).
		Where("acting_user_id = ? AND action = ? AND created_at >= ?",
			ownerID, model.ActionTemplatesGenerated, monthStart).
		Count(&count).Error
	return count, err
}

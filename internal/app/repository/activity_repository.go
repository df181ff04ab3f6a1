package repository

import (
	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"gorm.io/gorm"
)

type ActivityFilter struct {
	BusinessID *uint
	Action     string
	Limit      int
}

type ActivityRepository interface {
	Create(tx *gorm.DB, entry *model.ActivityLog) error
	FindRecent(filter ActivityFilter) ([]model.ActivityLog, error)
	CountByAction(action string) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(tx *gorm.DB, entry *model.ActivityLog) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(entry).Error; err != nil {
		logger.Error("Failed to record activity log entry", err, map[string]interface{}{
			"action": entry.Action,
		})
		return err
	}
	return nil
}

func (r *activityRepository) FindRecent(filter ActivityFilter) ([]model.ActivityLog, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := r.db.Model(&model.ActivityLog{})
	if filter.BusinessID != nil {
		query = query.Where("business_id = ?", *filter.BusinessID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	var entries []model.ActivityLog
	if err := query.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *activityRepository) CountByAction(action string) (int64, error) {
	var count int64
	err := r.db.Model(&model.ActivityLog{}).Where("action = ?", action).Count(&count).Error
	return count, err
}

package repository

import (
	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"gorm.io/gorm"
)

type PlanRepository interface {
	FindAll() ([]model.Plan, error)
	FindByID(id uint) (*model.Plan, error)
	FindByCode(code model.PlanCode) (*model.Plan, error)
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) FindAll() ([]model.Plan, error) {
	var plans []model.Plan
	if err := r.db.Order("price_cents ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *planRepository) FindByID(id uint) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) FindByCode(code model.PlanCode) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.Where("code = ?", code).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

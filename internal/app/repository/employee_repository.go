package repository

import (
	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(employee *model.Employee) error
	Delete(id uint) error
	FindByID(id uint) (*model.Employee, error)
	FindByBusiness(businessID uint) ([]model.Employee, error)
	FindByFunnelSlug(slug string) (*model.Employee, error)
	IncrementScanCount(slug string, delta int64) error
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(employee *model.Employee) error {
	if err := r.db.Create(employee).Error; err != nil {
		logger.Error("Failed to create employee in database", err, map[string]interface{}{
			"business_id": employee.BusinessID,
			"name":        employee.Name,
		})
		return err
	}
	return nil
}

func (r *employeeRepository) Delete(id uint) error {
	return r.db.Delete(&model.Employee{}, id).Error
}

func (r *employeeRepository) FindByID(id uint) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindByBusiness(businessID uint) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.Where("business_id = ?", businessID).Order("name ASC").Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *employeeRepository) FindByFunnelSlug(slug string) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.Where("funnel_slug = ?", slug).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) IncrementScanCount(slug string, delta int64) error {
	return r.db.Model(&model.Employee{}).
		Where("funnel_slug = ?", slug).
		UpdateColumn("scan_count", gorm.Expr("scan_count + ?", delta)).Error
}

package service

import (
	"errors"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/reviewboost/reviewboost-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type EmployeeService interface {
	List(actor *model.User, businessID uint) ([]model.Employee, error)
	Add(actor *model.User, businessID uint, name, title string) (*model.Employee, error)
	Remove(actor *model.User, businessID, employeeID uint) error
}

type employeeService struct {
	businessRepo repository.BusinessRepository
	employeeRepo repository.EmployeeRepository
}

func NewEmployeeService(businessRepo repository.BusinessRepository, employeeRepo repository.EmployeeRepository) EmployeeService {
	return &employeeService{
		businessRepo: businessRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *employeeService) List(actor *model.User, businessID uint) ([]model.Employee, error) {
	if err := s.authorize(actor, businessID); err != nil {
		return nil, err
	}
	return s.employeeRepo.FindByBusiness(businessID)
}

func (s *employeeService) Add(actor *model.User, businessID uint, name, title string) (*model.Employee, error) {
	if err := s.authorize(actor, businessID); err != nil {
		return nil, err
	}

	employee := &model.Employee{
		BusinessID: businessID,
		Name:       name,
		Title:      title,
		FunnelSlug: util.GenerateFunnelSlug(),
	}
	if err := s.employeeRepo.Create(employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) Remove(actor *model.User, businessID, employeeID uint) error {
	if err := s.authorize(actor, businessID); err != nil {
		return err
	}

	employee, err := s.employeeRepo.FindByID(employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}
	if employee.BusinessID != businessID {
		return ErrEmployeeNotFound
	}
	return s.employeeRepo.Delete(employeeID)
}

func (s *employeeService) authorize(actor *model.User, businessID uint) error {
	business, err := s.businessRepo.FindByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}
	if business.UserID != actor.ID && !actor.IsAdmin() {
		return ErrBusinessAccessDenied
	}
	return nil
}

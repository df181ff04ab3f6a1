package service

import (
	"fmt"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// AdminService backs the multi-tenant admin console
type AdminService interface {
	ListBusinesses(filter repository.BusinessFilter) ([]model.Business, error)
	ListUsers(search string) ([]model.User, error)
	ExportBusinesses(filter repository.BusinessFilter) (*excelize.File, error)
}

type adminService struct {
	businessRepo repository.BusinessRepository
	userRepo     repository.UserRepository
}

func NewAdminService(businessRepo repository.BusinessRepository, userRepo repository.UserRepository) AdminService {
	return &adminService{
		businessRepo: businessRepo,
		userRepo:     userRepo,
	}
}

func (s *adminService) ListBusinesses(filter repository.BusinessFilter) ([]model.Business, error) {
	return s.businessRepo.FindAll(filter)
}

func (s *adminService) ListUsers(search string) ([]model.User, error) {
	return s.userRepo.FindAll(search)
}

// ExportBusinesses builds an xlsx roster of businesses for offline review
func (s *adminService) ExportBusinesses(filter repository.BusinessFilter) (*excelize.File, error) {
	businesses, err := s.businessRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Businesses"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Name", "Owner Email", "Category", "Status", "Review URL", "Funnel Slug", "Templates", "Scans", "Created"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, b := range businesses {
		values := []interface{}{
			b.ID, b.Name, b.User.Email, b.Category, string(b.Status),
			b.ReviewURL, b.FunnelSlug, b.GenerationCount, b.ScanCount,
			b.CreatedAt.Format("2006-01-02"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	logger.Info("Business roster exported", map[string]interface{}{
		"count": len(businesses),
	})
	return f, nil
}

// ExportFilename names the download with the applied status filter
func ExportFilename(filter repository.BusinessFilter) string {
	if filter.Status != "" {
		return fmt.Sprintf("businesses_%s.xlsx", filter.Status)
	}
	return "businesses.xlsx"
}

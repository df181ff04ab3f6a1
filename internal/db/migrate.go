package db

import (
	"errors"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"github.com/reviewboost/reviewboost-backend/pkg/util"
	"gorm.io/gorm"
)

// Migrate runs database migrations and seeds the baseline data the app
// cannot start without: the subscription plans and the designated admin
// account that takes custody of archived businesses.
func Migrate(adminEmail string) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Plan{},
		&model.Business{},
		&model.Employee{},
		&model.ReviewTemplate{},
		&model.ActivityLog{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedPlans(DB); err != nil {
		logger.Error("Failed to seed plans", err)
		return err
	}

	if err := SeedAdminAccount(DB, adminEmail); err != nil {
		logger.Error("Failed to seed admin account", err)
		return err
	}

	logger.Info("Database migrations completed", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedPlans inserts the subscription tiers if they are not present yet.
// Limits follow the published pricing page.
func SeedPlans(db *gorm.DB) error {
	plans := []model.Plan{
		{Code: model.PlanFree, Name: "Free", MonthlyTemplates: 3, MaxBusinesses: 1, PriceCents: 0},
		{Code: model.PlanStarter, Name: "Starter", MonthlyTemplates: 30, MaxBusinesses: 3, PriceCents: 1900},
		{Code: model.PlanPro, Name: "Pro", MonthlyTemplates: 300, MaxBusinesses: 10, PriceCents: 4900},
	}

	for _, plan := range plans {
		var existing model.Plan
		err := db.Where("code = ?", plan.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&plan).Error; err != nil {
			return err
		}
		logger.Info("Seeded plan", map[string]interface{}{
			"code": plan.Code,
		})
	}
	return nil
}

// SeedAdminAccount ensures the designated custodian account exists. Archived
// businesses are reassigned to this account, so it must be present before
// the conflict workflow can run. The generated password is throwaway; real
// deployments rotate it immediately.
func SeedAdminAccount(db *gorm.DB, email string) error {
	var existing model.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(util.GenerateRequestID())
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "ReviewBoost Admin",
		Role:         model.RoleSuperAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("Seeded designated admin account", map[string]interface{}{
		"email": email,
	})
	return nil
}

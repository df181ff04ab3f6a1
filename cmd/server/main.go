package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reviewboost/reviewboost-backend/config"
	"github.com/reviewboost/reviewboost-backend/internal/app/controller"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/reviewboost/reviewboost-backend/internal/app/service"
	"github.com/reviewboost/reviewboost-backend/internal/db"
	"github.com/reviewboost/reviewboost-backend/internal/middleware"
	"github.com/reviewboost/reviewboost-backend/internal/router"
	"github.com/reviewboost/reviewboost-backend/internal/scheduler"
	"github.com/reviewboost/reviewboost-backend/internal/storage"
	"github.com/reviewboost/reviewboost-backend/internal/websocket"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"github.com/reviewboost/reviewboost-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting ReviewBoost Backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(cfg.App.AdminAccountEmail); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; token revocation and scan buffering degrade to
	// database-only behavior without it
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, continuing without it", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	planRepo := repository.NewPlanRepository(db.GetDB())
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	employeeRepo := repository.NewEmployeeRepository(db.GetDB())
	templateRepo := repository.NewTemplateRepository(db.GetDB())
	activityRepo := repository.NewActivityRepository(db.GetDB())

	// Live activity feed for the admin console
	hub := websocket.NewHub()
	go hub.Run()

	// The designated custodian account must exist before the conflict
	// workflow can archive anything; Migrate seeded it above
	adminAccount, err := userRepo.FindByEmail(cfg.App.AdminAccountEmail)
	if err != nil {
		logger.Fatal("Designated admin account not found", err, map[string]interface{}{
			"email": cfg.App.AdminAccountEmail,
		})
	}

	// Services
	activityService := service.NewActivityService(activityRepo, hub)
	resolver := service.NewConflictResolver(db.GetDB(), businessRepo, userRepo, activityService, adminAccount.ID)
	authService := service.NewAuthService(userRepo, planRepo, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	businessService := service.NewBusinessService(db.GetDB(), businessRepo, userRepo, resolver, activityService)
	aiService := service.NewAIService(&cfg.OpenAI)
	reviewService := service.NewReviewService(db.GetDB(), businessRepo, templateRepo, aiService, activityService)
	funnelService := service.NewFunnelService(businessRepo, employeeRepo)
	employeeService := service.NewEmployeeService(businessRepo, employeeRepo)
	adminService := service.NewAdminService(businessRepo, userRepo)
	planService := service.NewPlanService(planRepo, userRepo)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	authController := controller.NewAuthController(authService)
	businessController := controller.NewBusinessController(authService, businessService)
	reviewController := controller.NewReviewController(authService, reviewService)
	funnelController := controller.NewFunnelController(funnelService)
	employeeController := controller.NewEmployeeController(authService, employeeService)
	adminController := controller.NewAdminController(authService, adminService, businessService, activityService, resolver, hub)
	uploadController := controller.NewUploadController(authService, businessService, s3Storage)
	planController := controller.NewPlanController(planService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	generateLimiter := middleware.NewRateLimiter(cfg.App.GenerateRatePerMin, 3)

	// Background jobs
	maintenance := scheduler.NewMaintenanceScheduler(planService, funnelService)
	if err := maintenance.Start(); err != nil {
		logger.Fatal("Failed to start maintenance scheduler", err)
	}
	defer maintenance.Stop()

	r := router.NewRouter(
		authController,
		businessController,
		reviewController,
		funnelController,
		employeeController,
		adminController,
		uploadController,
		planController,
		authMiddleware,
		generateLimiter,
		cfg,
	)
	engine := r.Setup()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped")
}

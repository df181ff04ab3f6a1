package scheduler

import (
	"context"
	"time"

	"github.com/reviewboost/reviewboost-backend/internal/app/service"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// MaintenanceScheduler runs the recurring housekeeping jobs: downgrading
// lapsed subscriptions and flushing buffered funnel scan counters.
type MaintenanceScheduler struct {
	cron          *cron.Cron
	planService   service.PlanService
	funnelService service.FunnelService
}

func NewMaintenanceScheduler(planService service.PlanService, funnelService service.FunnelService) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cron:          cron.New(),
		planService:   planService,
		funnelService: funnelService,
	}
}

func (s *MaintenanceScheduler) Start() error {
	// plan expiry sweep daily at 03:00
	if _, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled plan expiry sweep", nil)

		downgraded, err := s.planService.DowngradeExpired()
		if err != nil {
			logger.Error("Plan expiry sweep failed", err)
			return
		}

		logger.Info("Plan expiry sweep completed", map[string]interface{}{
			"downgraded": downgraded,
		})
	}); err != nil {
		logger.Error("Failed to register plan expiry job", err)
		return err
	}

	// scan counter flush every 10 minutes; counters also flush on shutdown
	if _, err := s.cron.AddFunc("*/10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.funnelService.FlushScanCounts(ctx); err != nil {
			logger.Error("Scan counter flush failed", err)
		}
	}); err != nil {
		logger.Error("Failed to register scan counter flush job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Maintenance scheduler started", nil)

	return nil
}

func (s *MaintenanceScheduler) Stop() {
	logger.Info("Stopping maintenance scheduler...", nil)
	s.cron.Stop()

	// final flush so shutdown does not lose buffered counters
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.funnelService.FlushScanCounts(ctx); err != nil {
		logger.Error("Final scan counter flush failed", err)
	}

	logger.Info("Maintenance scheduler stopped", nil)
}

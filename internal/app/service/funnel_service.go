package service

import (
	"context"
	"errors"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"github.com/reviewboost/reviewboost-backend/pkg/redis"
	"gorm.io/gorm"
)

var ErrFunnelNotFound = errors.New("funnel link not found")

// FunnelService resolves QR/link funnel slugs to review URLs. A slug can
// belong to a business or to one of its employees (for scan attribution).
type FunnelService interface {
	ResolveSlug(ctx context.Context, slug string) (string, error)
	FlushScanCounts(ctx context.Context) error
}

type funnelService struct {
	businessRepo repository.BusinessRepository
	employeeRepo repository.EmployeeRepository
}

func NewFunnelService(businessRepo repository.BusinessRepository, employeeRepo repository.EmployeeRepository) FunnelService {
	return &funnelService{
		businessRepo: businessRepo,
		employeeRepo: employeeRepo,
	}
}

// ResolveSlug returns the redirect target for a funnel slug and counts the
// scan. Only active businesses redirect; parked, archived and deleted ones
// 404 so stale QR codes stop leaking traffic to a contested URL.
func (s *funnelService) ResolveSlug(ctx context.Context, slug string) (string, error) {
	business, err := s.businessRepo.FindByFunnelSlug(slug)
	if err == nil {
		if business.Status != model.StatusActive {
			return "", ErrFunnelNotFound
		}
		s.countScan(ctx, slug, false)
		return business.ReviewURL, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	employee, err := s.employeeRepo.FindByFunnelSlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrFunnelNotFound
		}
		return "", err
	}

	business, err = s.businessRepo.FindByID(employee.BusinessID)
	if err != nil || business.Status != model.StatusActive {
		return "", ErrFunnelNotFound
	}

	s.countScan(ctx, slug, true)
	return business.ReviewURL, nil
}

// countScan prefers the Redis counter (flushed later by the scheduler) and
// falls back to a direct DB increment when Redis is disabled
func (s *funnelService) countScan(ctx context.Context, slug string, employee bool) {
	if redis.Enabled() {
		if err := redis.IncrementScanCount(ctx, slug); err == nil {
			return
		}
	}

	var err error
	if employee {
		err = s.employeeRepo.IncrementScanCount(slug, 1)
	} else {
		err = s.businessRepo.IncrementScanCount(slug, 1)
	}
	if err != nil {
		logger.Warn("Failed to count funnel scan", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
	}
}

// FlushScanCounts drains the Redis counters into the database; called by the
// scheduler once a day
func (s *funnelService) FlushScanCounts(ctx context.Context) error {
	counts, err := redis.DrainScanCounts(ctx)
	if err != nil {
		return err
	}

	for slug, count := range counts {
		if err := s.businessRepo.IncrementScanCount(slug, count); err != nil {
			logger.Warn("Failed to flush business scan count", map[string]interface{}{
				"slug": slug, "error": err.Error(),
			})
		}
		// employee slugs live in a different table; a miss on the business
		// table is expected for them
		if err := s.employeeRepo.IncrementScanCount(slug, count); err != nil {
			logger.Warn("Failed to flush employee scan count", map[string]interface{}{
				"slug": slug, "error": err.Error(),
			})
		}
	}

	if len(counts) > 0 {
		logger.Info("Flushed funnel scan counters", map[string]interface{}{
			"slugs": len(counts),
		})
	}
	return nil
}

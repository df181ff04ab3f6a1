package service

import (
	"time"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
)

type PlanService interface {
	ListPlans() ([]model.Plan, error)
	// DowngradeExpired moves users with lapsed paid plans back to the free
	// tier; run daily by the scheduler
	DowngradeExpired() (int, error)
}

type planService struct {
	planRepo repository.PlanRepository
	userRepo repository.UserRepository
}

func NewPlanService(planRepo repository.PlanRepository, userRepo repository.UserRepository) PlanService {
	return &planService{
		planRepo: planRepo,
		userRepo: userRepo,
	}
}

func (s *planService) ListPlans() ([]model.Plan, error) {
	return s.planRepo.FindAll()
}

func (s *planService) DowngradeExpired() (int, error) {
	freePlan, err := s.planRepo.FindByCode(model.PlanFree)
	if err != nil {
		return 0, err
	}

	expired, err := s.userRepo.FindExpiredPlans()
	if err != nil {
		return 0, err
	}

	downgraded := 0
	for i := range expired {
		user := &expired[i]
		if user.PlanID != nil && *user.PlanID == freePlan.ID {
			continue
		}
		user.PlanID = &freePlan.ID
		user.PlanExpires = nil
		if err := s.userRepo.Update(user); err != nil {
			logger.Error("Failed to downgrade expired plan", err, map[string]interface{}{
				"user_id": user.ID,
			})
			continue
		}
		downgraded++
	}

	if downgraded > 0 {
		logger.Info("Downgraded users with expired plans", map[string]interface{}{
			"count": downgraded,
		})
	}
	return downgraded, nil
}

// PlanExpiryFor returns the next expiry timestamp for a paid subscription
func PlanExpiryFor(now time.Time) *time.Time {
	expiry := now.AddDate(0, 1, 0)
	return &expiry
}

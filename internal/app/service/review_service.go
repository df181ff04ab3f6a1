package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrTemplateLimitReached = errors.New("monthly template generation limit reached")
	ErrBusinessNotActive    = errors.New("business is not active")
)

const defaultBatchSize = 5

type ReviewService interface {
	GenerateTemplates(ctx context.Context, actor *model.User, businessID uint, count int) ([]model.ReviewTemplate, error)
	ListTemplates(actor *model.User, businessID uint) ([]model.ReviewTemplate, error)
}

type reviewService struct {
	db           *gorm.DB
	businessRepo repository.BusinessRepository
	templateRepo repository.TemplateRepository
	ai           AIService
	activity     ActivityService
}

func NewReviewService(
	db *gorm.DB,
	businessRepo repository.BusinessRepository,
	templateRepo repository.TemplateRepository,
	ai AIService,
	activity ActivityService,
) ReviewService {
	return &reviewService{
		db:           db,
		businessRepo: businessRepo,
		templateRepo: templateRepo,
		ai:           ai,
		activity:     activity,
	}
}

// GenerateTemplates produces one batch of review suggestions for a business,
// subject to the owner's monthly plan limit. The AI provider is tried first;
// a failure degrades to the deterministic fallback set rather than erroring.
func (s *reviewService) GenerateTemplates(ctx context.Context, actor *model.User, businessID uint, count int) ([]model.ReviewTemplate, error) {
	business, err := s.authorizedBusiness(actor, businessID)
	if err != nil {
		return nil, err
	}
	if business.Status != model.StatusActive {
		return nil, ErrBusinessNotActive
	}

	if count <= 0 || count > 10 {
		count = defaultBatchSize
	}

	if err := s.checkMonthlyLimit(actor); err != nil {
		return nil, err
	}

	generated, err := s.ai.GenerateTemplates(ctx, business, count)
	source := model.SourceAI
	if err != nil || len(generated) == 0 {
		if err != nil {
			logger.Warn("AI generation failed, using fallback templates", map[string]interface{}{
				"business_id": businessID,
				"error":       err.Error(),
			})
		}
		generated = s.ai.FallbackTemplates(business, count)
		source = model.SourceFallback
	}

	templates := make([]model.ReviewTemplate, 0, len(generated))
	for _, g := range generated {
		templates = append(templates, model.ReviewTemplate{
			BusinessID: business.ID,
			Content:    g.Content,
			Sentiment:  g.Sentiment,
			Category:   g.Category,
			Source:     source,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&templates).Error; err != nil {
			return err
		}
		return tx.Model(business).
			UpdateColumn("generation_count", gorm.Expr("generation_count + ?", 1)).Error
	})
	if err != nil {
		logger.Error("Failed to persist generated templates", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}
	business.GenerationCount++

	s.activity.Record(nil, &business.ID, actor.ID,
		model.ActionTemplatesGenerated, "business", business.Name,
		fmt.Sprintf("generated %d templates (source %s)", len(templates), source))

	return templates, nil
}

func (s *reviewService) ListTemplates(actor *model.User, businessID uint) ([]model.ReviewTemplate, error) {
	if _, err := s.authorizedBusiness(actor, businessID); err != nil {
		return nil, err
	}
	return s.templateRepo.FindByBusiness(businessID)
}

func (s *reviewService) authorizedBusiness(actor *model.User, businessID uint) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	if business.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrBusinessAccessDenied
	}
	return business, nil
}

func (s *reviewService) checkMonthlyLimit(actor *model.User) error {
	if actor.IsAdmin() || actor.Plan == nil {
		return nil
	}

	used, err := s.templateRepo.CountBatchesThisMonth(actor.ID)
	if err != nil {
		return err
	}
	if used >= int64(actor.Plan.MonthlyTemplates) {
		logger.Info("Template generation blocked by plan limit", map[string]interface{}{
			"user_id": actor.ID,
			"plan":    actor.Plan.Code,
			"used":    used,
		})
		return ErrTemplateLimitReached
	}
	return nil
}

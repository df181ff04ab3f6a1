package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"github.com/reviewboost/reviewboost-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrBusinessAccessDenied = errors.New("you do not have access to this business")
	ErrBusinessLimitReached = errors.New("your plan does not allow more businesses")
	ErrInvalidBusinessPhone = errors.New("invalid contact phone number")
)

// BusinessInput carries create/update fields from the API layer
type BusinessInput struct {
	Name      string
	Category  string
	Phone     string
	LogoURL   string
	ReviewURL string
}

// CreateResult pairs the persisted business with the conflict branch the
// resolver took, so the API layer can explain a parked record to the caller
type CreateResult struct {
	Business   *model.Business
	Resolution *ConflictResolution
}

type BusinessService interface {
	ListMine(userID uint) ([]model.Business, error)
	GetByID(actor *model.User, id uint) (*model.Business, error)
	Create(actor *model.User, input BusinessInput) (*CreateResult, error)
	Update(actor *model.User, id uint, input BusinessInput) (*model.Business, error)
	CheckURL(actor *model.User, editingID *uint, rawURL string) (*ConflictResolution, error)
	SoftDelete(actor *model.User, id uint) error
	HardDelete(actor *model.User, id uint) error
}

type businessService struct {
	db           *gorm.DB
	businessRepo repository.BusinessRepository
	userRepo     repository.UserRepository
	resolver     ConflictResolver
	activity     ActivityService
	phoneRegion  string
}

func NewBusinessService(
	db *gorm.DB,
	businessRepo repository.BusinessRepository,
	userRepo repository.UserRepository,
	resolver ConflictResolver,
	activity ActivityService,
) BusinessService {
	return &businessService{
		db:           db,
		businessRepo: businessRepo,
		userRepo:     userRepo,
		resolver:     resolver,
		activity:     activity,
		phoneRegion:  "US",
	}
}

func (s *businessService) ListMine(userID uint) ([]model.Business, error) {
	return s.businessRepo.FindByOwner(userID)
}

func (s *businessService) GetByID(actor *model.User, id uint) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(id)
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

// Create persists a new business after arbitrating its review URL.
//
// The resolver call and the insert share one serializable transaction: two
// concurrent claims of the same normalized URL serialize, and the loser sees
// the winner's row.
func (s *businessService) Create(actor *model.User, input BusinessInput) (*CreateResult, error) {
	phone, err := util.NormalizePhoneNumber(input.Phone, s.phoneRegion)
	if err != nil {
		return nil, ErrInvalidBusinessPhone
	}

	if err := s.checkPlanCapacity(actor); err != nil {
		return nil, err
	}

	var result *CreateResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res, err := s.resolver.Resolve(tx, actor, nil, input.ReviewURL)
		if err != nil {
			return err
		}
		if res.Branch == BranchSelfConflict {
			return ErrDuplicateOwnURL
		}

		business := &model.Business{
			UserID:        actor.ID,
			Name:          input.Name,
			Category:      input.Category,
			Phone:         phone,
			LogoURL:       input.LogoURL,
			ReviewURL:     input.ReviewURL,
			NormalizedURL: res.NormalizedURL,
			FunnelSlug:    util.GenerateFunnelSlug(),
			Status:        model.StatusActive,
		}

		// the claim lost the URL: persist it anyway but parked, signalling
		// "needs manual connect". An admin performing a controlled
		// reassignment completes normally instead.
		if (res.Branch == BranchForeignArchived && !actor.IsAdmin()) || res.Branch == BranchAdminOwned {
			business.Status = model.StatusPendingConnect
		}

		if err := s.createWithSlugRetry(tx, business); err != nil {
			return err
		}

		action := model.ActionBusinessCreated
		if business.Status == model.StatusPendingConnect {
			action = model.ActionBusinessParked
		}
		s.activity.Record(tx, &business.ID, actor.ID, action, "business", business.Name,
			fmt.Sprintf("created with URL branch %s", res.Branch))

		result = &CreateResult{Business: business, Resolution: res}
		return nil
	}, serializableTx(s.db))
	if err != nil {
		return nil, err
	}

	logger.Info("Business created", map[string]interface{}{
		"business_id": result.Business.ID,
		"owner_id":    actor.ID,
		"status":      result.Business.Status,
		"branch":      result.Resolution.Branch,
	})
	return result, nil
}

// Update edits a business; a changed review URL re-enters the conflict
// workflow. Unlike create, a non-admin whose new URL collides with a foreign
// record is rejected outright with no state change: the business keeps its
// previous valid URL and resolution goes through an admin.
func (s *businessService) Update(actor *model.User, id uint, input BusinessInput) (*model.Business, error) {
	var updated *model.Business

	err := s.db.Transaction(func(tx *gorm.DB) error {
		business, err := s.businessRepo.FindByIDTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBusinessNotFound
			}
			return err
		}
		if business.UserID != actor.ID && !actor.IsAdmin() {
			return ErrBusinessAccessDenied
		}

		if input.ReviewURL != "" && input.ReviewURL != business.ReviewURL {
			res, err := s.resolver.Check(tx, actor, &business.ID, input.ReviewURL)
			if err != nil {
				return err
			}
			switch res.Branch {
			case BranchSelfConflict:
				return ErrDuplicateOwnURL
			case BranchAdminOwned:
				return ErrDuplicateForeignURL
			case BranchForeignArchived:
				if !actor.IsAdmin() {
					return ErrDuplicateForeignURL
				}
				// controlled takeover: archive the current holder
				if _, err := s.resolver.Resolve(tx, actor, &business.ID, input.ReviewURL); err != nil {
					return err
				}
			}
			business.ReviewURL = input.ReviewURL
			business.NormalizedURL = res.NormalizedURL
		}

		if input.Name != "" {
			business.Name = input.Name
		}
		if input.Category != "" {
			business.Category = input.Category
		}
		if input.LogoURL != "" {
			business.LogoURL = input.LogoURL
		}
		if input.Phone != "" {
			phone, err := util.NormalizePhoneNumber(input.Phone, s.phoneRegion)
			if err != nil {
				return ErrInvalidBusinessPhone
			}
			business.Phone = phone
		}

		if err := s.businessRepo.Update(tx, business); err != nil {
			return err
		}

		s.activity.Record(tx, &business.ID, actor.ID,
			model.ActionBusinessUpdated, "business", business.Name, "")
		updated = business
		return nil
	}, serializableTx(s.db))
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CheckURL is the dry run behind the pre-validation endpoint: the full
// conflict decision with no persistence.
func (s *businessService) CheckURL(actor *model.User, editingID *uint, rawURL string) (*ConflictResolution, error) {
	return s.resolver.Check(nil, actor, editingID, rawURL)
}

// SoftDelete is the owner-initiated lifecycle branch: no snapshot is
// written, which is exactly what distinguishes it from a system archive.
func (s *businessService) SoftDelete(actor *model.User, id uint) error {
	business, err := s.GetByID(actor, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	business.Status = model.StatusSoftDeleted
	business.DeletedAt = &now

	if err := s.businessRepo.Update(nil, business); err != nil {
		return err
	}

	s.activity.Record(nil, &business.ID, actor.ID,
		model.ActionBusinessDeleted, "business", business.Name, "soft delete by owner")
	return nil
}

// HardDelete permanently removes the record and its dependents
func (s *businessService) HardDelete(actor *model.User, id uint) error {
	business, err := s.GetByID(actor, id)
	if err != nil {
		return err
	}

	if err := s.businessRepo.HardDelete(business.ID); err != nil {
		return err
	}

	s.activity.Record(nil, nil, actor.ID,
		model.ActionBusinessDeleted, "business", business.Name, "permanent delete")
	return nil
}

func (s *businessService) checkPlanCapacity(actor *model.User) error {
	if actor.IsAdmin() || actor.Plan == nil {
		return nil
	}
	count, err := s.userRepo.CountBusinesses(actor.ID)
	if err != nil {
		return err
	}
	if count >= int64(actor.Plan.MaxBusinesses) {
		return ErrBusinessLimitReached
	}
	return nil
}

// createWithSlugRetry retries on funnel slug collisions, which are rare but
// possible with 8-character slugs
func (s *businessService) createWithSlugRetry(tx *gorm.DB, business *model.Business) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = s.businessRepo.Create(tx, business)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		business.FunnelSlug = util.GenerateFunnelSlug()
	}
	return err
}

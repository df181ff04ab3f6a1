package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/reviewboost/reviewboost-backend/pkg/gmaps"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidReviewURL    = errors.New("review URL is not a valid Google Maps link")
	ErrDuplicateOwnURL     = errors.New("you already use this review URL on another business")
	ErrDuplicateForeignURL = errors.New("this review URL belongs to another account")
	ErrBusinessNotFound    = errors.New("business not found")
	ErrNoPreviousState     = errors.New("business has no archive snapshot to restore")
	ErrTargetUserNotFound  = errors.New("target user not found")
)

// ConflictBranch identifies which ownership branch the resolver took
type ConflictBranch string

const (
	// BranchURLFree: no active record holds the URL
	BranchURLFree ConflictBranch = "url_free"
	// BranchSelfConflict: the actor already owns the colliding record
	BranchSelfConflict ConflictBranch = "self_conflict"
	// BranchForeignArchived: another owner's record lost the URL and was
	// archived to the designated admin account
	BranchForeignArchived ConflictBranch = "foreign_archived"
	// BranchAdminOwned: the colliding record already belongs to the admin
	// account; archiving is skipped
	BranchAdminOwned ConflictBranch = "admin_owned"
)

// OwnerCapacity summarizes the conflicting owner's subscription so an admin
// can judge whether reassignment is viable
type OwnerCapacity struct {
	OwnerID          uint   `json:"owner_id"`
	OwnerEmail       string `json:"owner_email"`
	OwnerName        string `json:"owner_name"`
	PlanCode         string `json:"plan_code"`
	MaxBusinesses    int    `json:"max_businesses"`
	ActiveBusinesses int64  `json:"active_businesses"`
}

// ConflictResolution is the structured result of a conflict check
type ConflictResolution struct {
	Branch        ConflictBranch  `json:"branch"`
	NormalizedURL string          `json:"normalized_url"`
	Conflict      *model.Business `json:"conflict,omitempty"`
	OwnerCapacity *OwnerCapacity  `json:"owner_capacity,omitempty"`
}

// ConflictResolver arbitrates duplicate review URLs between businesses.
//
// Check is a read-only dry run. Resolve applies the archive-to-admin custody
// transfer for the foreign branch and must run inside the caller's
// transaction so the read-then-write sequence is atomic under concurrent
// claims of the same URL. Restore and Reassign are the admin-triggered
// inverse operations; each opens its own transaction and re-enters the
// resolver to keep the at-most-one-active-holder invariant.
type ConflictResolver interface {
	Check(tx *gorm.DB, actor *model.User, editingID *uint, rawURL string) (*ConflictResolution, error)
	Resolve(tx *gorm.DB, actor *model.User, editingID *uint, rawURL string) (*ConflictResolution, error)
	Restore(actor *model.User, businessID uint) (*model.Business, error)
	Reassign(actor *model.User, businessID, targetUserID uint, reactivate bool) (*model.Business, error)
	AdminAccountID() uint
}

type conflictResolver struct {
	db             *gorm.DB
	businessRepo   repository.BusinessRepository
	userRepo       repository.UserRepository
	activity       ActivityService
	adminAccountID uint
}

// NewConflictResolver builds the resolver. adminAccountID is the designated
// custodian account for archived duplicates, injected from configuration
// rather than discovered ad hoc.
func NewConflictResolver(
	db *gorm.DB,
	businessRepo repository.BusinessRepository,
	userRepo repository.UserRepository,
	activity ActivityService,
	adminAccountID uint,
) ConflictResolver {
	return &conflictResolver{
		db:             db,
		businessRepo:   businessRepo,
		userRepo:       userRepo,
		activity:       activity,
		adminAccountID: adminAccountID,
	}
}

func (s *conflictResolver) AdminAccountID() uint {
	return s.adminAccountID
}

// Check validates and normalizes the candidate URL, then runs the two-phase
// lookup and classifies the ownership branch. No state is changed.
func (s *conflictResolver) Check(tx *gorm.DB, actor *model.User, editingID *uint, rawURL string) (*ConflictResolution, error) {
	if tx == nil {
		tx = s.db
	}

	normalized, err := gmaps.Normalize(rawURL)
	if err != nil {
		return nil, ErrInvalidReviewURL
	}

	conflict, err := s.lookupConflict(tx, rawURL, normalized)
	if err != nil {
		return nil, err
	}

	// editing a business back to its own URL is not a conflict
	if conflict != nil && editingID != nil && conflict.ID == *editingID {
		conflict = nil
	}

	res := &ConflictResolution{
		Branch:        BranchURLFree,
		NormalizedURL: normalized,
	}
	if conflict == nil {
		return res, nil
	}

	res.Conflict = conflict
	switch {
	case conflict.UserID == actor.ID:
		res.Branch = BranchSelfConflict
	case conflict.UserID == s.adminAccountID:
		res.Branch = BranchAdminOwned
	default:
		res.Branch = BranchForeignArchived
		if actor.IsAdmin() {
			capacity, err := s.ownerCapacity(conflict.UserID)
			if err != nil {
				logger.Warn("Failed to build owner capacity summary", map[string]interface{}{
					"owner_id": conflict.UserID,
					"error":    err.Error(),
				})
			} else {
				res.OwnerCapacity = capacity
			}
		}
	}
	return res, nil
}

// lookupConflict is the two-phase search: exact raw-string match first (old
// records stored raw URLs inconsistently, and the exact hit keeps logs
// unambiguous), then the authoritative normalized-equality scan.
func (s *conflictResolver) lookupConflict(tx *gorm.DB, rawURL, normalized string) (*model.Business, error) {
	conflict, err := s.businessRepo.FindActiveByRawURL(tx, rawURL)
	if err == nil {
		return conflict, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conflict, err = s.businessRepo.FindActiveByNormalizedURL(tx, normalized)
	if err == nil {
		return conflict, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, nil
}

func (s *conflictResolver) ownerCapacity(ownerID uint) (*OwnerCapacity, error) {
	owner, err := s.userRepo.FindByID(ownerID)
	if err != nil {
		return nil, err
	}
	active, err := s.userRepo.CountBusinesses(ownerID)
	if err != nil {
		return nil, err
	}

	capacity := &OwnerCapacity{
		OwnerID:          owner.ID,
		OwnerEmail:       owner.Email,
		OwnerName:        owner.Name,
		ActiveBusinesses: active,
	}
	if owner.Plan != nil {
		capacity.PlanCode = string(owner.Plan.Code)
		capacity.MaxBusinesses = owner.Plan.MaxBusinesses
	}
	return capacity, nil
}

// Resolve runs Check and, on the foreign branch, archives the losing record
// to the designated admin account inside the caller's transaction. The
// admin-owned branch is deliberately a no-op: admin custody is the terminal
// resting place for archived duplicates and running Resolve against it twice
// must not produce further archive events.
func (s *conflictResolver) Resolve(tx *gorm.DB, actor *model.User, editingID *uint, rawURL string) (*ConflictResolution, error) {
	res, err := s.Check(tx, actor, editingID, rawURL)
	if err != nil {
		return nil, err
	}

	if res.Branch == BranchForeignArchived {
		if err := s.archiveToAdmin(tx, res.Conflict, actor); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// archiveToAdmin transfers custody of a conflict-losing business: snapshot
// its mutable state, reassign ownership to the admin account, deactivate,
// stamp timestamps and record the audit entry. The snapshot is taken before
// any field changes so Restore can reproduce the record field for field.
func (s *conflictResolver) archiveToAdmin(tx *gorm.DB, loser *model.Business, actor *model.User) error {
	previousOwner := loser.UserID
	now := time.Now().UTC()

	loser.PreviousState = loser.Snapshot()
	loser.UserID = s.adminAccountID
	loser.Status = model.StatusArchived
	loser.ArchivedAt = &now
	loser.DeletedAt = &now

	if err := s.businessRepo.Update(tx, loser); err != nil {
		return err
	}

	s.activity.Record(tx, &loser.ID, actor.ID,
		model.ActionBusinessArchived, "business", loser.Name,
		fmt.Sprintf("duplicate URL detected during create/update; previous owner %d, archived to admin account %d",
			previousOwner, s.adminAccountID))

	logger.Info("Business archived due to URL conflict", map[string]interface{}{
		"business_id":    loser.ID,
		"previous_owner": previousOwner,
		"triggered_by":   actor.ID,
	})
	return nil
}

// Restore writes an archived business's snapshot back onto the live record.
// The restored URL must again be confirmed unique, so the conflict check
// re-runs inside the same transaction; a foreign claimant that appeared in
// the interim loses the URL the same way the original loser did.
func (s *conflictResolver) Restore(actor *model.User, businessID uint) (*model.Business, error) {
	var restored *model.Business

	err := s.db.Transaction(func(tx *gorm.DB) error {
		business, err := s.businessRepo.FindByIDTx(tx, businessID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBusinessNotFound
			}
			return err
		}
		if business.PreviousState == nil {
			return ErrNoPreviousState
		}

		snapshot := *business.PreviousState

		// if the previous owner meanwhile reuses the URL on another active
		// business, restoring would hand them a duplicate; reject instead
		// of archiving their newer record
		probe, err := s.Check(tx, actor, &business.ID, snapshot.ReviewURL)
		if err != nil {
			return err
		}
		if probe.Conflict != nil && probe.Conflict.UserID == snapshot.UserID {
			return ErrDuplicateOwnURL
		}

		res, err := s.Resolve(tx, actor, &business.ID, snapshot.ReviewURL)
		if err != nil {
			return err
		}
		if res.Branch == BranchSelfConflict {
			return ErrDuplicateOwnURL
		}

		business.ApplySnapshot(&snapshot)
		business.PreviousState = nil
		business.ArchivedAt = nil
		business.DeletedAt = nil
		business.Status = model.StatusActive
		if res.Branch == BranchAdminOwned {
			// an active admin-owned holder keeps the URL; park the
			// restored record instead of creating a second active holder
			business.Status = model.StatusPendingConnect
		}

		if err := s.businessRepo.Update(tx, business); err != nil {
			return err
		}

		s.activity.Record(tx, &business.ID, actor.ID,
			model.ActionBusinessRestored, "business", business.Name,
			fmt.Sprintf("restored from archive snapshot to owner %d (branch %s)", business.UserID, res.Branch))

		restored = business
		return nil
	}, serializableTx(s.db))
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// Reassign transfers ownership of an archived or parked business to the
// target user, optionally reactivating it. Reactivation re-enters the
// conflict check so the record cannot come back up against a URL someone
// else now actively holds.
func (s *conflictResolver) Reassign(actor *model.User, businessID, targetUserID uint, reactivate bool) (*model.Business, error) {
	var reassigned *model.Business

	err := s.db.Transaction(func(tx *gorm.DB) error {
		business, err := s.businessRepo.FindByIDTx(tx, businessID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBusinessNotFound
			}
			return err
		}

		target, err := s.userRepo.FindByID(targetUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTargetUserNotFound
			}
			return err
		}

		previousOwner := business.UserID
		business.UserID = target.ID

		if reactivate {
			// same guard as Restore but keyed to the target owner
			probe, err := s.Check(tx, actor, &business.ID, business.ReviewURL)
			if err != nil {
				return err
			}
			if probe.Conflict != nil && probe.Conflict.UserID == target.ID {
				return ErrDuplicateOwnURL
			}

			res, err := s.Resolve(tx, actor, &business.ID, business.ReviewURL)
			if err != nil {
				return err
			}
			if res.Branch == BranchSelfConflict {
				return ErrDuplicateOwnURL
			}
			business.Status = model.StatusActive
			if res.Branch == BranchAdminOwned {
				business.Status = model.StatusPendingConnect
			}
			business.PreviousState = nil
			business.ArchivedAt = nil
			business.DeletedAt = nil
		}

		if err := s.businessRepo.Update(tx, business); err != nil {
			return err
		}

		s.activity.Record(tx, &business.ID, actor.ID,
			model.ActionBusinessReassigned, "business", business.Name,
			fmt.Sprintf("ownership transferred from user %d to user %d", previousOwner, target.ID))

		reassigned = business
		return nil
	}, serializableTx(s.db))
	if err != nil {
		return nil, err
	}
	return reassigned, nil
}

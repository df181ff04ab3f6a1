package service

import (
	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"gorm.io/gorm"
)

// ActivityBroadcaster pushes audit entries to connected admin consoles.
// Implemented by the websocket hub; nil when no live feed is wired.
type ActivityBroadcaster interface {
	BroadcastActivity(entry *model.ActivityLog)
}

type ActivityService interface {
	// Record writes an audit entry. Fire-and-forget: failures are logged,
	// never propagated to the caller.
	Record(tx *gorm.DB, businessID *uint, actingUserID uint, action, entityType, entityName, details string)
	ListRecent(filter repository.ActivityFilter) ([]model.ActivityLog, error)
}

type activityService struct {
	activityRepo repository.ActivityRepository
	broadcaster  ActivityBroadcaster
}

func NewActivityService(activityRepo repository.ActivityRepository, broadcaster ActivityBroadcaster) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		broadcaster:  broadcaster,
	}
}

func (s *activityService) Record(tx *gorm.DB, businessID *uint, actingUserID uint, action, entityType, entityName, details string) {
	entry := &model.ActivityLog{
		BusinessID:   businessID,
		ActingUserID: actingUserID,
		Action:       action,
		EntityType:   entityType,
		EntityName:   entityName,
		Details:      details,
	}

	if err := s.activityRepo.Create(tx, entry); err != nil {
		logger.Warn("Dropping activity log entry", map[string]interface{}{
			"action": action,
			"error":  err.Error(),
		})
		return
	}

	// the broadcast happens while the caller's transaction may still be
	// open: a later rollback leaves the feed event orphaned. Consoles treat
	// feed events as hints and reload from /admin/activity for truth.
	if s.broadcaster != nil {
		s.broadcaster.BroadcastActivity(entry)
	}
}

func (s *activityService) ListRecent(filter repository.ActivityFilter) ([]model.ActivityLog, error) {
	return s.activityRepo.FindRecent(filter)
}

package model

import "time"

// Activity log actions
const (
	ActionBusinessCreated    = "business.created"
	ActionBusinessUpdated    = "business.updated"
	ActionBusinessDeleted    = "business.deleted"
	ActionBusinessArchived   = "business.archived" // conflict resolver custody transfer
	ActionBusinessParked     = "business.parked"   // new claim persisted pending connect
	ActionBusinessRestored   = "business.restored"
	ActionBusinessReassigned = "business.reassigned"
	ActionTemplatesGenerated = "templates.generated"
)

// ActivityLog is the fire-and-forget audit trail
type ActivityLog struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	BusinessID   *uint     `gorm:"index" json:"business_id,omitempty"`
	ActingUserID uint      `gorm:"index;not null" json:"acting_user_id"`
	Action       string    `gorm:"type:varchar(50);index;not null" json:"action"`
	EntityType   string    `gorm:"type:varchar(50)" json:"entity_type"`
	EntityName   string    `json:"entity_name"`
	Details      string    `gorm:"type:text" json:"details"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

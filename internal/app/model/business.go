package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// BusinessStatus is the single lifecycle discriminant for a business record.
// The combinations of is_active/deleted_at/archived_at the product started
// with collapse into exactly these states.
type BusinessStatus string

const (
	// StatusActive: visible, owns its normalized URL exclusively
	StatusActive BusinessStatus = "active"
	// StatusPendingConnect: persisted during create but parked because its
	// URL lost a conflict; waits for manual reassignment
	StatusPendingConnect BusinessStatus = "pending_connect"
	// StatusSoftDeleted: owner-initiated delete, no snapshot
	StatusSoftDeleted BusinessStatus = "soft_deleted"
	// StatusArchived: system-initiated archive due to URL conflict, carries
	// a PreviousState snapshot and belongs to the designated admin account
	StatusArchived BusinessStatus = "archived"
)

// snapshotVersion is written by Value; Scan accepts any version it knows how
// to read so old snapshots keep restoring after the struct grows fields.
const snapshotVersion = 1

// BusinessSnapshot is the undo log for the conflict-archival workflow: the
// full mutable state of a business immediately before it was archived.
type BusinessSnapshot struct {
	Version         int            `json:"version"`
	UserID          uint           `json:"user_id"`
	Name            string         `json:"name"`
	Category        string         `json:"category"`
	ReviewURL       string         `json:"review_url"`
	NormalizedURL   string         `json:"normalized_url"`
	GenerationCount int            `json:"generation_count"`
	Status          BusinessStatus `json:"status"`
}

// Value implements driver.Valuer, serializing the snapshot as versioned JSON
func (s *BusinessSnapshot) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	out := *s
	out.Version = snapshotVersion
	return json.Marshal(&out)
}

// Scan implements sql.Scanner
func (s *BusinessSnapshot) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan BusinessSnapshot")
	}

	if err := json.Unmarshal(bytes, s); err != nil {
		return err
	}
	if s.Version > snapshotVersion {
		return fmt.Errorf("unknown business snapshot version %d", s.Version)
	}
	return nil
}

type Business struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"` // owner
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"owner,omitempty"`

	Name     string `gorm:"not null" json:"name"`
	Category string `gorm:"type:varchar(50)" json:"category"`
	Phone    string `gorm:"type:varchar(30)" json:"phone"`
	LogoURL  string `json:"logo_url"`

	ReviewURL     string `gorm:"type:text;not null" json:"review_url"`            // raw, used for redirects
	NormalizedURL string `gorm:"type:text;index;not null" json:"normalized_url"`  // derived, used only for equality
	FunnelSlug    string `gorm:"type:varchar(16);uniqueIndex" json:"funnel_slug"` // QR/link funnel identifier

	Status BusinessStatus `gorm:"type:varchar(20);index;default:'active'" json:"status"`

	GenerationCount int   `gorm:"default:0" json:"generation_count"` // review template batches produced
	ScanCount       int64 `gorm:"default:0" json:"scan_count"`       // funnel redirects served

	// PreviousState is populated only when the conflict resolver archives
	// this record; its presence distinguishes archival from soft delete.
	PreviousState *BusinessSnapshot `gorm:"type:text" json:"previous_state,omitempty"`

	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	// DeletedAt is a plain column, not gorm.DeletedAt: archived rows must
	// stay visible to the restore and reassign flows.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Employees []Employee       `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"employees,omitempty"`
	Templates []ReviewTemplate `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"templates,omitempty"`
}

func (Business) TableName() string {
	return "businesses"
}

// Snapshot captures the business's mutable state for the undo log
func (b *Business) Snapshot() *BusinessSnapshot {
	return &BusinessSnapshot{
		Version:         snapshotVersion,
		UserID:          b.UserID,
		Name:            b.Name,
		Category:        b.Category,
		ReviewURL:       b.ReviewURL,
		NormalizedURL:   b.NormalizedURL,
		GenerationCount: b.GenerationCount,
		Status:          b.Status,
	}
}

// ApplySnapshot writes a snapshot's fields back onto the record
func (b *Business) ApplySnapshot(s *BusinessSnapshot) {
	b.UserID = s.UserID
	b.Name = s.Name
	b.Category = s.Category
	b.ReviewURL = s.ReviewURL
	b.NormalizedURL = s.NormalizedURL
	b.GenerationCount = s.GenerationCount
	b.Status = s.Status
}

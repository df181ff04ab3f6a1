package model

import "time"

// Employee is a staff member of a business. Each employee gets a personal
// funnel slug so review scans can be attributed to whoever handed out the
// QR code.
type Employee struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	BusinessID uint   `gorm:"index;not null" json:"business_id"`
	Name       string `gorm:"not null" json:"name"`
	Title      string `gorm:"type:varchar(50)" json:"title"`
	FunnelSlug string `gorm:"type:varchar(16);uniqueIndex" json:"funnel_slug"`
	ScanCount  int64  `gorm:"default:0" json:"scan_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

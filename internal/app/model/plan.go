package model

import "time"

type PlanCode string

const (
	PlanFree    PlanCode = "free"
	PlanStarter PlanCode = "starter"
	PlanPro     PlanCode = "pro"
)

// Plan is a subscription tier. Billing itself happens in the external
// payment processor; the backend only enforces the tier's limits.
type Plan struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	Code             PlanCode  `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name             string    `gorm:"not null" json:"name"`
	MonthlyTemplates int       `gorm:"not null" json:"monthly_templates"` // generation batches per calendar month
	MaxBusinesses    int       `gorm:"not null" json:"max_businesses"`
	PriceCents       int       `gorm:"not null" json:"price_cents"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser       UserRole = "user"       // business owner
	RoleAdmin      UserRole = "admin"      // console operator
	RoleSuperAdmin UserRole = "superadmin" // designated custodian account
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	PlanID       *uint          `gorm:"index" json:"plan_id,omitempty"` // subscription tier
	Plan         *Plan          `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	PlanExpires  *time.Time     `json:"plan_expires,omitempty"` // nil for free tier
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Businesses []Business `gorm:"foreignKey:UserID" json:"businesses,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user can operate the admin console
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

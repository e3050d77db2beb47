package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles and statuses used by the platform.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusBanned    = "banned"
)

// User is a platform account managed from the admin panel. Deletion is soft:
// moderation history must keep resolving user ids.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role      string         `gorm:"size:32;not null;default:user" json:"role"`
	Status    string         `gorm:"size:32;not null;default:active;index" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

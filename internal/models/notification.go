package models

import "time"

// AdminNotification is an alert surfaced only to admin operators, created by
// system events or by an admin. IsRead starts false and only flips forward.
type AdminNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:32;not null;default:info;index" json:"type"`
	Category  string    `gorm:"size:64;not null;default:system;index" json:"category"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	Link      *string   `gorm:"size:512" json:"link,omitempty"`
	CreatedBy *string   `gorm:"size:255" json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

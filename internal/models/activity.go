package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog captures auditable events triggered by administrators.
// Rows are append-only: nothing in the system updates or deletes them.
type ActivityLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	AdminID   uint              `gorm:"not null;index" json:"admin_id"`
	AdminName string            `gorm:"size:255" json:"admin_name"`
	Action    string            `gorm:"size:64;not null;index" json:"action"`
	Target    string            `gorm:"size:64;not null;index" json:"target"`
	TargetID  *uint             `json:"target_id"`
	Details   string            `gorm:"type:text" json:"details"`
	IPAddress string            `gorm:"size:64" json:"ip_address"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

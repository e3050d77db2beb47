package models

import (
	"time"

	"gorm.io/datatypes"
)

// Support request statuses. pending is the only initial state; any status may
// be set from any other by an admin (transitions are deliberately not
// restricted server-side).
const (
	SupportStatusPending   = "pending"
	SupportStatusInReview  = "in-review"
	SupportStatusResolved  = "resolved"
	SupportStatusDismissed = "dismissed"
)

// Proof references an asset attached to a support request. Files live in
// object storage; only metadata is persisted here.
type Proof struct {
	URL          string `json:"url"`
	StorageID    string `json:"storage_id"`
	ResourceType string `json:"resource_type"`
	Format       string `json:"format"`
	Name         string `json:"name,omitempty"`
}

// SupportRequest is a user- or anonymously-submitted ticket tracked through
// the pending/in-review/resolved/dismissed lifecycle. When IsAnonymous is
// true the submitter columns stay NULL and no ownership check ever resolves
// to the original caller.
type SupportRequest struct {
	ID             uint                       `gorm:"primaryKey" json:"id"`
	Title          string                     `gorm:"size:255;not null" json:"title"`
	Description    string                     `gorm:"type:text;not null" json:"description"`
	Category       string                     `gorm:"size:64;not null;index" json:"category"`
	IsAnonymous    bool                       `gorm:"not null;default:false" json:"is_anonymous"`
	SubmitterID    *uint                      `gorm:"index" json:"submitter_id"`
	SubmitterName  *string                    `gorm:"size:255" json:"submitter_name"`
	SubmitterEmail *string                    `gorm:"size:255" json:"submitter_email"`
	Status         string                     `gorm:"size:32;not null;default:pending;index" json:"status"`
	Proofs         datatypes.JSONSlice[Proof] `gorm:"type:json" json:"proofs"`
	AdminNotes     *string                    `gorm:"type:text" json:"admin_notes"`
	AdminID        *uint                      `json:"admin_id"`
	Resolution     *string                    `gorm:"type:text" json:"resolution"`
	Comments       []SupportComment           `gorm:"foreignKey:RequestID" json:"comments,omitempty"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

// SupportComment is an append-only thread entry on a support request.
// AuthorRole is derived from the authenticated caller at write time, never
// taken from the payload.
type SupportComment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RequestID   uint      `gorm:"index;not null" json:"request_id"`
	ReferenceID string    `gorm:"size:64;uniqueIndex" json:"reference_id"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	AuthorID    uint      `gorm:"not null" json:"author_id"`
	AuthorName  string    `gorm:"size:255" json:"author_name"`
	AuthorRole  string    `gorm:"size:32;not null" json:"author_role"`
	CreatedAt   time.Time `json:"created_at"`
}

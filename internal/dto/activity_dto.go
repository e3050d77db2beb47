package dto

import (
	"time"

	"github.com/sailors-platform/sailor-api/internal/models"
)

// ActivityListRequest defines filters for the activity log listing.
type ActivityListRequest struct {
	Action    string
	Target    string
	AdminID   uint
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// ActivityResponse serializes an audit trail entry.
type ActivityResponse struct {
	ID        uint                   `json:"id"`
	AdminID   uint                   `json:"admin_id"`
	AdminName string                 `json:"admin_name"`
	Action    string                 `json:"action"`
	Target    string                 `json:"target"`
	TargetID  *uint                  `json:"target_id"`
	Details   string                 `json:"details"`
	IPAddress string                 `json:"ip_address"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// ActivityListResponse wraps a paginated activity log listing.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"logs"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewActivityResponse converts an activity log model into a DTO.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	metadata := map[string]interface{}(entry.Metadata)
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	return ActivityResponse{
		ID:        entry.ID,
		AdminID:   entry.AdminID,
		AdminName: entry.AdminName,
		Action:    entry.Action,
		Target:    entry.Target,
		TargetID:  entry.TargetID,
		Details:   entry.Details,
		IPAddress: entry.IPAddress,
		Metadata:  metadata,
		CreatedAt: entry.CreatedAt,
	}
}

package dto

import (
	"time"

	"github.com/sailors-platform/sailor-api/internal/models"
)

// NotificationCreateRequest captures a new admin notification.
type NotificationCreateRequest struct {
	Title     string `json:"title" validate:"required,min=3,max=255"`
	Message   string `json:"message" validate:"required"`
	Type      string `json:"type" validate:"omitempty,max=32"`
	Category  string `json:"category" validate:"omitempty,max=64"`
	Link      string `json:"link" validate:"omitempty,max=512"`
	CreatedBy string `json:"created_by" validate:"omitempty,max=255"`
}

// NotificationListRequest defines filters for the admin notification listing.
type NotificationListRequest struct {
	Type      string
	Category  string
	IsRead    *bool
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// NotificationResponse serializes an admin notification.
type NotificationResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	IsRead    bool      `json:"is_read"`
	Link      *string   `json:"link,omitempty"`
	CreatedBy *string   `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse wraps a paginated notification listing.
type NotificationListResponse struct {
	Items      []NotificationResponse `json:"notifications"`
	Pagination PaginationMeta         `json:"pagination"`
}

// NewNotificationResponse converts a notification model into a DTO.
func NewNotificationResponse(notification models.AdminNotification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID,
		Title:     notification.Title,
		Message:   notification.Message,
		Type:      notification.Type,
		Category:  notification.Category,
		IsRead:    notification.IsRead,
		Link:      notification.Link,
		CreatedBy: notification.CreatedBy,
		CreatedAt: notification.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of notification models.
func NewNotificationResponseSlice(notifications []models.AdminNotification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}
	return responses
}

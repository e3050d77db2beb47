package service

import (
	"context"

	"github.com/sailors-platform/sailor-api/internal/dto"
)

type notificationAlerter struct {
	notifications AdminNotificationService
}

// NewNotificationAlerter adapts the admin notification service into the
// AdminAlerter seam used by system-event producers.
func NewNotificationAlerter(notifications AdminNotificationService) AdminAlerter {
	return &notificationAlerter{notifications: notifications}
}

func (a *notificationAlerter) SystemAlert(ctx context.Context, title, message, category string) error {
	_, err := a.notifications.Create(ctx, dto.NotificationCreateRequest{
		Title:     title,
		Message:   message,
		Category:  category,
		Type:      "info",
		CreatedBy: "system",
	})
	return err
}

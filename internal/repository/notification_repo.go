package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sailors-platform/sailor-api/internal/models"
)

// NotificationFilter narrows admin notification listings.
type NotificationFilter struct {
	Type     string
	Category string
	IsRead   *bool
	Sort     string
	Page     int
	Limit    int
}

// NotificationRepository handles persistence for admin notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.AdminNotification) error
	GetByID(ctx context.Context, id uint) (models.AdminNotification, error)
	List(ctx context.Context, filter NotificationFilter) ([]models.AdminNotification, int64, error)
	MarkRead(ctx context.Context, id uint) (models.AdminNotification, error)
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository constructs a repository backed by GORM.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.AdminNotification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (models.AdminNotification, error) {
	var notification models.AdminNotification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return models.AdminNotification{}, err
	}
	return notification, nil
}

func (r *notificationRepository) List(ctx context.Context, filter NotificationFilter) ([]models.AdminNotification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AdminNotification{})

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := filter.Sort
	if sort == "" {
		sort = "created_at DESC"
	}
	query = query.Order(sort)

	if filter.Limit > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.Limit).Offset((page - 1) * filter.Limit)
	}

	var notifications []models.AdminNotification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// MarkRead is idempotent: re-marking an already-read notification succeeds
// without touching the row.
func (r *notificationRepository) MarkRead(ctx context.Context, id uint) (models.AdminNotification, error) {
	var notification models.AdminNotification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return models.AdminNotification{}, err
	}

	if notification.IsRead {
		return notification, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&models.AdminNotification{}).
		Where("id = ?", id).
		Update("is_read", true).Error; err != nil {
		return models.AdminNotification{}, err
	}

	notification.IsRead = true
	return notification, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AdminNotification{}).
		Where("is_read = ?", false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.AdminNotification{}, id)
	return result.RowsAffected, result.Error
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sailors-platform/sailor-api/internal/models"
)

// SupportFilter narrows support request listings.
type SupportFilter struct {
	Status   string
	Category string
	Sort     string
	Page     int
	Limit    int
}

// SupportRepository persists support requests and their comment threads.
type SupportRepository interface {
	Create(ctx context.Context, request *models.SupportRequest) error
	GetByID(ctx context.Context, id uint) (models.SupportRequest, error)
	ListBySubmitter(ctx context.Context, submitterID uint) ([]models.SupportRequest, error)
	List(ctx context.Context, filter SupportFilter) ([]models.SupportRequest, int64, error)
	UpdateStatus(ctx context.Context, id uint, updates map[string]interface{}) error
	AddComment(ctx context.Context, comment *models.SupportComment) error
	ListComments(ctx context.Context, requestID uint) ([]models.SupportComment, error)
}

type supportRepository struct {
	db *gorm.DB
}

// NewSupportRepository constructs a repository backed by GORM.
func NewSupportRepository(db *gorm.DB) SupportRepository {
	return &supportRepository{db: db}
}

func (r *supportRepository) Create(ctx context.Context, request *models.SupportRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *supportRepository) GetByID(ctx context.Context, id uint) (models.SupportRequest, error) {
	var request models.SupportRequest
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&request, id).Error
	if err != nil {
		return models.SupportRequest{}, err
	}
	return request, nil
}

func (r *supportRepository) ListBySubmitter(ctx context.Context, submitterID uint) ([]models.SupportRequest, error) {
	var requests []models.SupportRequest
	err := r.db.WithContext(ctx).
		Where("submitter_id = ? AND is_anonymous = ?", submitterID, false).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *supportRepository) List(ctx context.Context, filter SupportFilter) ([]models.SupportRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SupportRequest{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
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

	var requests []models.SupportRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *supportRepository) UpdateStatus(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.SupportRequest{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddComment appends the comment and bumps the parent's updated_at in one
// transaction so a thread update is never half-applied.
func (r *supportRepository) AddComment(ctx context.Context, comment *models.SupportComment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var request models.SupportRequest
		if err := tx.Select("id").First(&request, comment.RequestID).Error; err != nil {
			return err
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		return tx.Model(&models.SupportRequest{}).
			Where("id = ?", comment.RequestID).
			Update("updated_at", time.Now().UTC()).Error
	})
}

func (r *supportRepository) ListComments(ctx context.Context, requestID uint) ([]models.SupportComment, error) {
	var comments []models.SupportComment
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

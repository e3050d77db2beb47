package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/sailors-platform/sailor-api/internal/dto"
	"github.com/sailors-platform/sailor-api/internal/models"
	"github.com/sailors-platform/sailor-api/internal/repository"
)

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	AdminID   uint
	AdminName string
	Action    string
	Target    string
	TargetID  *uint
	Details   string
	IPAddress string
	Metadata  map[string]interface{}
}

// ActivityRecorder defines behaviour for recording audit entries. Recording
// runs inline after the primary write; a failure here is logged by the
// implementation and must never surface to the triggering operation.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error)
}

// ActivityService exposes methods to persist and query the audit trail.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	if strings.TrimSpace(entry.Action) == "" {
		return dto.ActivityResponse{}, fmt.Errorf("action is required")
	}
	if strings.TrimSpace(entry.Target) == "" {
		return dto.ActivityResponse{}, fmt.Errorf("target is required")
	}

	model := models.ActivityLog{
		AdminID:   entry.AdminID,
		AdminName: strings.TrimSpace(entry.AdminName),
		Action:    strings.ToLower(strings.TrimSpace(entry.Action)),
		Target:    strings.ToLower(strings.TrimSpace(entry.Target)),
		TargetID:  entry.TargetID,
		Details:   strings.TrimSpace(entry.Details),
		IPAddress: strings.TrimSpace(entry.IPAddress),
		Metadata:  sanitizeMetadata(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", model.Action).Msg("failed to persist activity log")
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(model), nil
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	sortBy := strings.TrimSpace(req.SortBy)
	if sortBy == "" {
		sortBy = "created_at"
	}

	filter := repository.ActivityLogFilter{
		Action: strings.ToLower(strings.TrimSpace(req.Action)),
		Target: strings.ToLower(strings.TrimSpace(req.Target)),
		From:   req.From,
		To:     req.To,
		Page:   req.Page,
		Limit:  req.Limit,
		Sort: sortClause(sortBy, req.SortOrder, map[string]string{
			"created_at": "created_at",
			"action":     "action",
			"target":     "target",
			"admin_id":   "admin_id",
		}, "created_at DESC"),
	}
	if req.AdminID > 0 {
		adminID := req.AdminID
		filter.AdminID = &adminID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityResponse(entry))
	}

	return dto.ActivityListResponse{
		Items:      responses,
		Pagination: dto.NewPaginationMeta(req.Page, req.Limit, total),
	}, nil
}

// sanitizeMetadata masks obviously sensitive keys before they hit an
// append-only table nobody can redact later.
func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "email") || strings.Contains(lower, "token") || strings.Contains(lower, "password") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

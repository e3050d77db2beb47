package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sailors-platform/sailor-api/internal/dto"
	"github.com/sailors-platform/sailor-api/internal/models"
	"github.com/sailors-platform/sailor-api/internal/repository"
)

var (
	// ErrAdminUserNotFound indicates the account id resolved to no row.
	ErrAdminUserNotFound = errors.New("admin user not found")
	// ErrAdminUserDuplicate indicates the email is already registered.
	ErrAdminUserDuplicate = errors.New("email already registered")
)

// AdminUserService orchestrates admin user management. Every successful
// mutation records exactly one audit entry.
type AdminUserService interface {
	Create(ctx context.Context, payload dto.AdminUserCreateRequest, actor Actor) (dto.AdminUserResponse, error)
	Get(ctx context.Context, id uint) (dto.AdminUserResponse, error)
	Update(ctx context.Context, id uint, payload dto.AdminUserUpdateRequest, actor Actor) (dto.AdminUserResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
	List(ctx context.Context, req dto.AdminUserListRequest) (dto.AdminUserListResponse, error)
}

type adminUserService struct {
	repo      repository.UserRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewAdminUserService constructs the admin user service.
func NewAdminUserService(repo repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) AdminUserService {
	return &adminUserService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "admin_user_service").Logger(),
	}
}

func (s *adminUserService) Create(ctx context.Context, payload dto.AdminUserCreateRequest, actor Actor) (dto.AdminUserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AdminUserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return dto.AdminUserResponse{}, ErrAdminUserDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AdminUserResponse{}, err
	}

	role := strings.TrimSpace(payload.Role)
	if role == "" {
		role = models.RoleUser
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = models.UserStatusActive
	}

	user := models.User{
		Name:   strings.TrimSpace(payload.Name),
		Email:  email,
		Role:   role,
		Status: status,
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		return dto.AdminUserResponse{}, err
	}

	s.audit(ctx, actor, "create_user", user.ID, fmt.Sprintf("created account %s", maskEmailAddress(user.Email)), nil)

	return dto.NewAdminUserResponse(user), nil
}

func (s *adminUserService) Get(ctx context.Context, id uint) (dto.AdminUserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminUserResponse{}, ErrAdminUserNotFound
		}
		return dto.AdminUserResponse{}, err
	}
	return dto.NewAdminUserResponse(user), nil
}

func (s *adminUserService) Update(ctx context.Context, id uint, payload dto.AdminUserUpdateRequest, actor Actor) (dto.AdminUserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AdminUserResponse{}, err
	}

	updates := make(map[string]interface{})
	changed := make([]string, 0)

	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
		changed = append(changed, "name")
	}
	if payload.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*payload.Email))
		changed = append(changed, "email")
	}
	if payload.Role != nil {
		updates["role"] = strings.TrimSpace(*payload.Role)
		changed = append(changed, "role")
	}
	if payload.Status != nil {
		updates["status"] = strings.TrimSpace(*payload.Status)
		changed = append(changed, "status")
	}

	user, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminUserResponse{}, ErrAdminUserNotFound
		}
		return dto.AdminUserResponse{}, err
	}

	s.audit(ctx, actor, "update_user", user.ID, fmt.Sprintf("updated fields: %s", strings.Join(changed, ", ")), map[string]interface{}{"fields": changed})

	return dto.NewAdminUserResponse(user), nil
}

func (s *adminUserService) Delete(ctx context.Context, id uint, actor Actor) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminUserNotFound
		}
		return err
	}

	s.audit(ctx, actor, "delete_user", id, "account soft-deleted", nil)

	return nil
}

func (s *adminUserService) List(ctx context.Context, req dto.AdminUserListRequest) (dto.AdminUserListResponse, error) {
	filter := repository.UserFilter{
		Search: strings.TrimSpace(req.Search),
		Role:   strings.TrimSpace(req.Role),
		Status: strings.TrimSpace(req.Status),
		Page:   req.Page,
		Limit:  req.Limit,
		Sort: sortClause(req.SortBy, req.SortOrder, map[string]string{
			"created_at": "created_at",
			"name":       "name",
			"email":      "email",
			"status":     "status",
		}, "created_at DESC"),
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AdminUserListResponse{}, err
	}

	return dto.AdminUserListResponse{
		Items:      dto.NewAdminUserResponseSlice(users),
		Pagination: dto.NewPaginationMeta(req.Page, req.Limit, total),
	}, nil
}

// audit records the mutation after the primary write committed. A logging
// failure is swallowed here so it never rolls back or surfaces the operation.
func (s *adminUserService) audit(ctx context.Context, actor Actor, action string, targetID uint, details string, metadata map[string]interface{}) {
	id := targetID
	entry := ActivityEntry{
		AdminID:   actor.ID,
		AdminName: actor.Name,
		Action:    action,
		Target:    "user",
		TargetID:  &id,
		Details:   details,
		IPAddress: actor.IP,
		Metadata:  metadata,
	}

	if _, err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Uint("target_id", targetID).Msg("failed to record admin activity")
	}
}

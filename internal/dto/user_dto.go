package dto

import (
	"time"

	"github.com/sailors-platform/sailor-api/internal/models"
)

// AdminUserCreateRequest captures a new platform account created from the
// admin panel.
type AdminUserCreateRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=255"`
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"omitempty,oneof=user admin"`
	Status string `json:"status" validate:"omitempty,oneof=active suspended banned"`
}

// AdminUserUpdateRequest captures partial updates to a platform account.
type AdminUserUpdateRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=255"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Role   *string `json:"role" validate:"omitempty,oneof=user admin"`
	Status *string `json:"status" validate:"omitempty,oneof=active suspended banned"`
}

// AdminUserListRequest defines filters for listing platform accounts.
type AdminUserListRequest struct {
	Search    string
	Role      string
	Status    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// AdminUserResponse serializes a platform account for admin endpoints.
type AdminUserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminUserListResponse wraps a paginated account listing.
type AdminUserListResponse struct {
	Items      []AdminUserResponse `json:"items"`
	Pagination PaginationMeta      `json:"pagination"`
}

// NewAdminUserResponse converts a user model into a DTO.
func NewAdminUserResponse(user models.User) AdminUserResponse {
	return AdminUserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewAdminUserResponseSlice converts a slice of user models.
func NewAdminUserResponseSlice(users []models.User) []AdminUserResponse {
	responses := make([]AdminUserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewAdminUserResponse(user))
	}
	return responses
}

package dto

import (
	"time"

	"github.com/sailors-platform/sailor-api/internal/models"
)

// ProofPayload describes an already-uploaded asset attached to a submission.
type ProofPayload struct {
	URL          string `json:"url" validate:"required,url"`
	StorageID    string `json:"storage_id" validate:"required"`
	ResourceType string `json:"resource_type" validate:"required"`
	Format       string `json:"format" validate:"omitempty,max=16"`
	Name         string `json:"name" validate:"omitempty,max=255"`
}

// SupportSubmitRequest captures a support request submission. Submitter
// fields are filled from the authenticated session by the handler, never
// from the body.
type SupportSubmitRequest struct {
	Title       string         `json:"title" validate:"required,min=3,max=255"`
	Description string         `json:"description" validate:"required,min=5"`
	Category    string         `json:"category" validate:"required,max=64"`
	IsAnonymous bool           `json:"is_anonymous"`
	Proofs      []ProofPayload `json:"proofs" validate:"omitempty,max=10,dive"`
	Honeypot    string         `json:"_note" validate:"-"`

	SubmitterID    *uint   `json:"-"`
	SubmitterName  *string `json:"-"`
	SubmitterEmail *string `json:"-"`
}

// SupportSubmitResponse acknowledges an accepted submission.
type SupportSubmitResponse struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

// SupportUpdateRequest captures an admin status update.
type SupportUpdateRequest struct {
	Status     string  `json:"status" validate:"required,oneof=pending in-review resolved dismissed"`
	AdminNotes *string `json:"admin_notes" validate:"omitempty,max=4000"`
	Resolution *string `json:"resolution" validate:"omitempty,max=4000"`
}

// SupportListRequest defines filters for the admin support listing.
type SupportListRequest struct {
	Status    string
	Category  string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// CommentCreateRequest carries a new thread message.
type CommentCreateRequest struct {
	Message string `json:"message" validate:"required"`
}

// CommentResponse serializes a support request comment.
type CommentResponse struct {
	ID          uint      `json:"id"`
	ReferenceID string    `json:"reference_id"`
	Message     string    `json:"message"`
	AuthorID    uint      `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	AuthorRole  string    `json:"author_role"`
	CreatedAt   time.Time `json:"created_at"`
}

// SupportResponse serializes a support request.
type SupportResponse struct {
	ID             uint              `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Category       string            `json:"category"`
	IsAnonymous    bool              `json:"is_anonymous"`
	SubmitterID    *uint             `json:"submitter_id"`
	SubmitterName  *string           `json:"submitter_name"`
	SubmitterEmail *string           `json:"submitter_email"`
	Status         string            `json:"status"`
	Proofs         []models.Proof    `json:"proofs"`
	AdminNotes     *string           `json:"admin_notes"`
	AdminID        *uint             `json:"admin_id"`
	Resolution     *string           `json:"resolution"`
	Comments       []CommentResponse `json:"comments,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// SupportListResponse wraps a paginated support listing.
type SupportListResponse struct {
	Items      []SupportResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewCommentResponse converts a comment model into a DTO.
func NewCommentResponse(comment models.SupportComment) CommentResponse {
	return CommentResponse{
		ID:          comment.ID,
		ReferenceID: comment.ReferenceID,
		Message:     comment.Message,
		AuthorID:    comment.AuthorID,
		AuthorName:  comment.AuthorName,
		AuthorRole:  comment.AuthorRole,
		CreatedAt:   comment.CreatedAt,
	}
}

// NewCommentResponseSlice converts comment models preserving insertion order.
func NewCommentResponseSlice(comments []models.SupportComment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, NewCommentResponse(comment))
	}
	return responses
}

// NewSupportResponse converts a support request model into a DTO.
func NewSupportResponse(request models.SupportRequest) SupportResponse {
	return SupportResponse{
		ID:             request.ID,
		Title:          request.Title,
		Description:    request.Description,
		Category:       request.Category,
		IsAnonymous:    request.IsAnonymous,
		SubmitterID:    request.SubmitterID,
		SubmitterName:  request.SubmitterName,
		SubmitterEmail: request.SubmitterEmail,
		Status:         request.Status,
		Proofs:         []models.Proof(request.Proofs),
		AdminNotes:     request.AdminNotes,
		AdminID:        request.AdminID,
		Resolution:     request.Resolution,
		Comments:       NewCommentResponseSlice(request.Comments),
		CreatedAt:      request.CreatedAt,
		UpdatedAt:      request.UpdatedAt,
	}
}

// NewSupportResponseSlice converts a slice of support request models.
func NewSupportResponseSlice(requests []models.SupportRequest) []SupportResponse {
	responses := make([]SupportResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, NewSupportResponse(request))
	}
	return responses
}

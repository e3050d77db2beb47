package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sailors-platform/sailor-api/internal/dto"
	"github.com/sailors-platform/sailor-api/internal/models"
	"github.com/sailors-platform/sailor-api/internal/observability"
	"github.com/sailors-platform/sailor-api/internal/repository"
)

var (
	// ErrSupportNotFound indicates the request id resolved to no document.
	ErrSupportNotFound = errors.New("support request not found")
	// ErrSupportForbidden indicates the actor may not access the request.
	ErrSupportForbidden = errors.New("support request access denied")
	// ErrSupportUnauthorized indicates no identity was presented.
	ErrSupportUnauthorized = errors.New("authentication required")
	// ErrSupportInvalid indicates required fields were empty after sanitization.
	ErrSupportInvalid = errors.New("support submission invalid")
	// ErrSupportSpam indicates the honeypot field was filled.
	ErrSupportSpam = errors.New("support submission flagged as spam")
	// ErrSupportDuplicate indicates an identical submission exists recently.
	ErrSupportDuplicate = errors.New("duplicate support submission")
	// ErrCommentEmpty indicates the comment message is empty after trimming.
	ErrCommentEmpty = errors.New("comment message must not be empty")
)

// AdminAlerter surfaces system events to admin operators. Failures are the
// alerter's problem; support flows never block on it.
type AdminAlerter interface {
	SystemAlert(ctx context.Context, title, message, category string) error
}

// SupportService owns the support request lifecycle: submission, visibility,
// status transitions, and threaded comments.
type SupportService interface {
	Submit(ctx context.Context, req dto.SupportSubmitRequest) (dto.SupportSubmitResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]dto.SupportResponse, error)
	List(ctx context.Context, req dto.SupportListRequest) (dto.SupportListResponse, error)
	Get(ctx context.Context, id uint, actor Actor) (dto.SupportResponse, error)
	UpdateStatus(ctx context.Context, id uint, req dto.SupportUpdateRequest, actor Actor) (dto.SupportResponse, error)
	AddComment(ctx context.Context, id uint, req dto.CommentCreateRequest, actor Actor) (dto.CommentResponse, error)
	ListComments(ctx context.Context, id uint, actor Actor) ([]dto.CommentResponse, error)
}

type supportService struct {
	repo      repository.SupportRepository
	cache     *redis.Client
	validator *validator.Validate
	mailer    Mailer
	alerter   AdminAlerter
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	dedupeTTL time.Duration
	tracer    trace.Tracer
}

// NewSupportService constructs the support request service. A non-positive
// dedupeTTL falls back to five minutes.
func NewSupportService(repo repository.SupportRepository, cache *redis.Client, validate *validator.Validate, mailer Mailer, alerter AdminAlerter, dedupeTTL time.Duration, logger zerolog.Logger) SupportService {
	if dedupeTTL <= 0 {
		dedupeTTL = 5 * time.Minute
	}

	return &supportService{
		repo:      repo,
		cache:     cache,
		validator: validate,
		mailer:    mailer,
		alerter:   alerter,
		sanitizer: bluemonday.StrictPolicy(),
		dedupeTTL: dedupeTTL,
		logger:    logger.With().Str("component", "support_service").Logger(),
		tracer:    otel.Tracer("github.com/sailors-platform/sailor-api/internal/service/support"),
	}
}

func (s *supportService) Submit(ctx context.Context, req dto.SupportSubmitRequest) (dto.SupportSubmitResponse, error) {
	ctx, span := s.tracer.Start(ctx, "support.submit")
	defer span.End()

	if req.Honeypot != "" {
		span.SetStatus(codes.Error, "honeypot tripped")
		observability.SupportSubmissions().WithLabelValues("spam").Inc()
		return dto.SupportSubmitResponse{}, ErrSupportSpam
	}

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		return dto.SupportSubmitResponse{}, err
	}

	title := strings.TrimSpace(s.sanitizer.Sanitize(req.Title))
	description := strings.TrimSpace(s.sanitizer.Sanitize(req.Description))
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if title == "" || description == "" || category == "" {
		return dto.SupportSubmitResponse{}, fmt.Errorf("%w: empty after sanitization", ErrSupportInvalid)
	}

	checksum := computeChecksum(title, description, category)
	span.SetAttributes(attribute.String("support.checksum", checksum))

	if s.cache != nil {
		key := fmt.Sprintf("support:dedupe:%s", checksum)
		ok, err := s.cache.SetNX(ctx, key, 1, s.dedupeTTL).Result()
		if err != nil {
			// Dedupe is advisory; a cache outage must not reject submissions.
			s.logger.Warn().Err(err).Msg("support dedupe check failed")
		} else if !ok {
			span.SetStatus(codes.Error, "duplicate submission")
			observability.SupportSubmissions().WithLabelValues("duplicate").Inc()
			return dto.SupportSubmitResponse{}, ErrSupportDuplicate
		}
	}

	request := models.SupportRequest{
		Title:       title,
		Description: description,
		Category:    category,
		IsAnonymous: req.IsAnonymous,
		Status:      models.SupportStatusPending,
		Proofs:      proofsFromPayload(req.Proofs),
	}

	// Anonymity is enforced at write time: submitter identity never reaches
	// the store, regardless of what the session carried.
	if !req.IsAnonymous {
		request.SubmitterID = req.SubmitterID
		request.SubmitterName = req.SubmitterName
		request.SubmitterEmail = req.SubmitterEmail
	}

	if err := s.repo.Create(ctx, &request); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.SupportSubmissions().WithLabelValues("error").Inc()
		return dto.SupportSubmitResponse{}, err
	}

	if err := s.mailer.SubmissionReceived(ctx, request); err != nil {
		s.logger.Warn().Err(err).Uint("request_id", request.ID).Msg("support submission mail failed")
	}

	if s.alerter != nil {
		message := fmt.Sprintf("New %s support request: %s", request.Category, request.Title)
		if err := s.alerter.SystemAlert(ctx, "New support request", message, "support"); err != nil {
			s.logger.Warn().Err(err).Uint("request_id", request.ID).Msg("support admin alert failed")
		}
	}

	observability.SupportSubmissions().WithLabelValues("accepted").Inc()
	s.logger.Info().Uint("request_id", request.ID).Str("category", request.Category).Bool("anonymous", request.IsAnonymous).Msg("support request submitted")

	return dto.SupportSubmitResponse{ID: request.ID, Status: request.Status}, nil
}

func (s *supportService) ListMine(ctx context.Context, actor Actor) ([]dto.SupportResponse, error) {
	if !actor.Authenticated() {
		return nil, ErrSupportUnauthorized
	}

	requests, err := s.repo.ListBySubmitter(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewSupportResponseSlice(requests), nil
}

func (s *supportService) List(ctx context.Context, req dto.SupportListRequest) (dto.SupportListResponse, error) {
	filter := repository.SupportFilter{
		Status:   strings.TrimSpace(req.Status),
		Category: strings.ToLower(strings.TrimSpace(req.Category)),
		Page:     req.Page,
		Limit:    req.Limit,
		Sort: sortClause(req.SortBy, req.SortOrder, map[string]string{
			"created_at": "created_at",
			"updated_at": "updated_at",
			"status":     "status",
			"category":   "category",
		}, "created_at DESC"),
	}

	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.SupportListResponse{}, err
	}

	return dto.SupportListResponse{
		Items:      dto.NewSupportResponseSlice(requests),
		Pagination: dto.NewPaginationMeta(req.Page, req.Limit, total),
	}, nil
}

func (s *supportService) Get(ctx context.Context, id uint, actor Actor) (dto.SupportResponse, error) {
	request, err := s.load(ctx, id)
	if err != nil {
		return dto.SupportResponse{}, err
	}

	if err := authorizeSupportAccess(request, actor); err != nil {
		return dto.SupportResponse{}, err
	}

	return dto.NewSupportResponse(request), nil
}

func (s *supportService) UpdateStatus(ctx context.Context, id uint, req dto.SupportUpdateRequest, actor Actor) (dto.SupportResponse, error) {
	if !actor.IsAdmin() {
		return dto.SupportResponse{}, ErrSupportForbidden
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.SupportResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "support.update_status", trace.WithAttributes(
		attribute.Int("support.request_id", int(id)),
		attribute.String("support.status", req.Status),
	))
	defer span.End()

	updates := map[string]interface{}{
		"status":   req.Status,
		"admin_id": actor.ID,
	}
	if req.AdminNotes != nil {
		updates["admin_notes"] = strings.TrimSpace(s.sanitizer.Sanitize(*req.AdminNotes))
	}
	if req.Resolution != nil {
		updates["resolution"] = strings.TrimSpace(s.sanitizer.Sanitize(*req.Resolution))
	}

	if err := s.repo.UpdateStatus(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SupportResponse{}, ErrSupportNotFound
		}
		span.RecordError(err)
		return dto.SupportResponse{}, err
	}

	request, err := s.load(ctx, id)
	if err != nil {
		return dto.SupportResponse{}, err
	}

	if err := s.mailer.StatusUpdated(ctx, request); err != nil {
		s.logger.Warn().Err(err).Uint("request_id", id).Msg("support status mail failed")
	}

	observability.SupportStatusUpdates().WithLabelValues(req.Status).Inc()

	return dto.NewSupportResponse(request), nil
}

func (s *supportService) AddComment(ctx context.Context, id uint, req dto.CommentCreateRequest, actor Actor) (dto.CommentResponse, error) {
	message := strings.TrimSpace(s.sanitizer.Sanitize(req.Message))
	if message == "" {
		return dto.CommentResponse{}, ErrCommentEmpty
	}

	request, err := s.load(ctx, id)
	if err != nil {
		return dto.CommentResponse{}, err
	}

	if err := authorizeSupportAccess(request, actor); err != nil {
		return dto.CommentResponse{}, err
	}

	comment := models.SupportComment{
		RequestID:   id,
		ReferenceID: uuid.NewString(),
		Message:     message,
		AuthorID:    actor.ID,
		AuthorName:  actor.Name,
		AuthorRole:  normalizeRole(actor.Role),
	}

	if err := s.repo.AddComment(ctx, &comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CommentResponse{}, ErrSupportNotFound
		}
		return dto.CommentResponse{}, err
	}

	if comment.AuthorRole == models.RoleAdmin {
		if err := s.mailer.CommentAdded(ctx, request, comment); err != nil {
			s.logger.Warn().Err(err).Uint("request_id", id).Msg("support comment mail failed")
		}
	}

	return dto.NewCommentResponse(comment), nil
}

func (s *supportService) ListComments(ctx context.Context, id uint, actor Actor) ([]dto.CommentResponse, error) {
	request, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeSupportAccess(request, actor); err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewCommentResponseSlice(comments), nil
}

func (s *supportService) load(ctx context.Context, id uint) (models.SupportRequest, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SupportRequest{}, ErrSupportNotFound
		}
		return models.SupportRequest{}, err
	}
	return request, nil
}

// authorizeSupportAccess is the single ownership check for read and comment
// operations: admins see everything; a non-admin must be the non-anonymous
// submitter. Anonymous requests have no recoverable owner, so only admins
// ever pass.
func authorizeSupportAccess(request models.SupportRequest, actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if !actor.Authenticated() {
		return ErrSupportUnauthorized
	}
	if request.IsAnonymous || request.SubmitterID == nil || *request.SubmitterID != actor.ID {
		return ErrSupportForbidden
	}
	return nil
}

func proofsFromPayload(proofs []dto.ProofPayload) datatypes.JSONSlice[models.Proof] {
	converted := make([]models.Proof, 0, len(proofs))
	for _, proof := range proofs {
		converted = append(converted, models.Proof{
			URL:          proof.URL,
			StorageID:    proof.StorageID,
			ResourceType: proof.ResourceType,
			Format:       proof.Format,
			Name:         proof.Name,
		})
	}
	return datatypes.NewJSONSlice(converted)
}

func computeChecksum(parts ...string) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(strings.TrimSpace(strings.ToLower(part))))
		hasher.Write([]byte("|"))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/sailors-platform/sailor-api/internal/dto"
	"github.com/sailors-platform/sailor-api/internal/models"
	"github.com/sailors-platform/sailor-api/internal/observability"
	"github.com/sailors-platform/sailor-api/internal/repository"
)

const notificationBufferSize = 16

// ErrNotificationNotFound indicates the notification id resolved to no row.
var ErrNotificationNotFound = errors.New("admin notification not found")

// AdminNotificationService owns admin-facing notifications: CRUD, read-state,
// and a live stream to connected admin dashboards.
type AdminNotificationService interface {
	Create(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
	List(ctx context.Context, req dto.NotificationListRequest) (dto.NotificationListResponse, error)
	Get(ctx context.Context, id uint) (dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id uint) (dto.NotificationResponse, error)
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) error
	Subscribe() (<-chan dto.NotificationResponse, func())
	Start(ctx context.Context)
}

type adminNotificationService struct {
	repo        repository.NotificationRepository
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	broker      *notificationBroker
	nodeID      string
}

type notificationEvent struct {
	Source       string                   `json:"source"`
	Notification dto.NotificationResponse `json:"notification"`
	SentAt       time.Time                `json:"sent_at"`
}

type notificationBroker struct {
	mu          sync.RWMutex
	subscribers map[chan dto.NotificationResponse]struct{}
}

// NewAdminNotificationService constructs the admin notification service.
// Redis and NATS handles may be nil; fan-out then stays process-local.
func NewAdminNotificationService(repo repository.NotificationRepository, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, validate *validator.Validate, logger zerolog.Logger) AdminNotificationService {
	stream := ""
	subject := ""
	if channelBase != "" {
		stream = channelBase + ":admin:notifications"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".admin.notifications"
	}

	return &adminNotificationService{
		repo:        repo,
		redis:       redisClient,
		redisStream: stream,
		nats:        natsConn,
		natsSubject: subject,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "admin_notification_service").Logger(),
		tracer:      otel.Tracer("github.com/sailors-platform/sailor-api/internal/service/notification"),
		broker: &notificationBroker{
			subscribers: make(map[chan dto.NotificationResponse]struct{}),
		},
		nodeID: uuid.NewString(),
	}
}

// Start launches the cross-node consumers. Call once from the entry point.
func (s *adminNotificationService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *adminNotificationService) Create(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NotificationResponse{}, err
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(payload.Message))
	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	if message == "" || title == "" {
		return dto.NotificationResponse{}, errors.New("notification empty after sanitization")
	}

	notificationType := strings.TrimSpace(payload.Type)
	if notificationType == "" {
		notificationType = "info"
	}
	category := strings.TrimSpace(payload.Category)
	if category == "" {
		category = "system"
	}

	spanCtx, span := s.tracer.Start(ctx, "notifications.create", trace.WithAttributes(
		attribute.String("notification.type", notificationType),
		attribute.String("notification.category", category),
	))
	defer span.End()

	model := models.AdminNotification{
		Title:    title,
		Message:  message,
		Type:     notificationType,
		Category: category,
		IsRead:   false,
	}
	if link := strings.TrimSpace(payload.Link); link != "" {
		model.Link = &link
	}
	if createdBy := strings.TrimSpace(payload.CreatedBy); createdBy != "" {
		model.CreatedBy = &createdBy
	}

	if err := s.repo.Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	response := dto.NewNotificationResponse(model)
	s.broker.broadcast(response)
	if err := s.publish(spanCtx, response); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish notification to broker")
	}

	observability.NotificationsPublished().WithLabelValues(response.Type).Inc()

	return response, nil
}

func (s *adminNotificationService) List(ctx context.Context, req dto.NotificationListRequest) (dto.NotificationListResponse, error) {
	filter := repository.NotificationFilter{
		Type:     strings.TrimSpace(req.Type),
		Category: strings.TrimSpace(req.Category),
		IsRead:   req.IsRead,
		Page:     req.Page,
		Limit:    req.Limit,
		Sort: sortClause(req.SortBy, req.SortOrder, map[string]string{
			"created_at": "created_at",
			"type":       "type",
			"category":   "category",
			"is_read":    "is_read",
		}, "created_at DESC"),
	}

	notifications, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.NotificationListResponse{}, err
	}

	return dto.NotificationListResponse{
		Items:      dto.NewNotificationResponseSlice(notifications),
		Pagination: dto.NewPaginationMeta(req.Page, req.Limit, total),
	}, nil
}

func (s *adminNotificationService) Get(ctx context.Context, id uint) (dto.NotificationResponse, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationResponse{}, err
	}
	return dto.NewNotificationResponse(notification), nil
}

func (s *adminNotificationService) MarkRead(ctx context.Context, id uint) (dto.NotificationResponse, error) {
	notification, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationResponse{}, err
	}
	return dto.NewNotificationResponse(notification), nil
}

func (s *adminNotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	return s.repo.MarkAllRead(ctx)
}

func (s *adminNotificationService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// Subscribe attaches a dashboard stream. The returned cleanup must be called
// when the client disconnects.
func (s *adminNotificationService) Subscribe() (<-chan dto.NotificationResponse, func()) {
	channel := make(chan dto.NotificationResponse, notificationBufferSize)

	s.broker.subscribe(channel)
	observability.StreamClientsActive().Inc()

	cleanup := func() {
		s.broker.unsubscribe(channel)
		observability.StreamClientsActive().Dec()
	}

	return channel, cleanup
}

func (s *adminNotificationService) publish(ctx context.Context, notification dto.NotificationResponse) error {
	event := notificationEvent{
		Source:       s.nodeID,
		Notification: notification,
		SentAt:       time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *adminNotificationService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("notification redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *adminNotificationService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "sailor-admin-notifications", func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats notifications subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain notification nats subscription")
		}
	}()
}

func (s *adminNotificationService) handleEvent(payload []byte) {
	var event notificationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid notification event payload")
		return
	}

	if event.Source == s.nodeID {
		return
	}

	notification := event.Notification
	if notification.Type == "" {
		notification.Type = "info"
	}

	s.broker.broadcast(notification)
}

func (b *notificationBroker) subscribe(ch chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[ch] = struct{}{}
}

func (b *notificationBroker) unsubscribe(ch chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

func (b *notificationBroker) broadcast(notification dto.NotificationResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- notification:
		default:
		}
	}
}

package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sailors-platform/sailor-api/internal/dto"
	"github.com/sailors-platform/sailor-api/internal/service"
	"github.com/sailors-platform/sailor-api/internal/utils"
)

// AdminNotificationHandler manages notification CRUD, read-state operations,
// and the SSE dashboard stream.
type AdminNotificationHandler struct {
	service   service.AdminNotificationService
	logger    zerolog.Logger
	keepAlive time.Duration
}

// NewAdminNotificationHandler constructs a handler instance.
func NewAdminNotificationHandler(service service.AdminNotificationService, logger zerolog.Logger, keepAlive time.Duration) *AdminNotificationHandler {
	return &AdminNotificationHandler{
		service:   service,
		logger:    logger.With().Str("component", "admin_notification_handler").Logger(),
		keepAlive: keepAlive,
	}
}

// Register binds the notification routes. Static paths go first so they are
// not swallowed by the :id parameter.
func (h *AdminNotificationHandler) Register(router fiber.Router) {
	router.Get("/stream", h.stream)
	router.Put("/mark-all-read", h.markAllRead)
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id/read", h.markRead)
	router.Delete("/:id", h.remove)
}

func (h *AdminNotificationHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	isRead, err := parseQueryBool(c, "isRead")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid isRead filter")
	}

	req := dto.NotificationListRequest{
		Type:      c.Query("type"),
		Category:  c.Query("category"),
		IsRead:    isRead,
		Page:      maxOne(page),
		Limit:     clampLimit(limit, 20, 100),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list notifications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list notifications")
	}

	return utils.SendSuccess(c, "notifications", result)
}

func (h *AdminNotificationHandler) create(c *fiber.Ctx) error {
	var payload dto.NotificationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	notification, err := h.service.Create(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid payload", validationDetails(err))
		}
		h.logger.Error().Err(err).Msg("failed to create notification")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create notification")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "notification created", notification)
}

func (h *AdminNotificationHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	notification, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.sendNotificationError(c, err, "failed to fetch notification")
	}

	return utils.SendSuccess(c, "notification", notification)
}

func (h *AdminNotificationHandler) markRead(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	notification, err := h.service.MarkRead(c.Context(), id)
	if err != nil {
		return h.sendNotificationError(c, err, "failed to mark notification read")
	}

	return utils.SendSuccess(c, "notification marked read", notification)
}

func (h *AdminNotificationHandler) markAllRead(c *fiber.Ctx) error {
	modified, err := h.service.MarkAllRead(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to mark notifications read")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to mark notifications read")
	}

	return utils.SendSuccess(c, "notifications marked read", fiber.Map{"modified_count": modified})
}

func (h *AdminNotificationHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.sendNotificationError(c, err, "failed to delete notification")
	}

	return utils.SendSuccess(c, "notification deleted", fiber.Map{"deleted_count": 1})
}

func (h *AdminNotificationHandler) stream(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	stream, cleanup := h.service.Subscribe()

	keepAliveInterval := h.keepAlive
	if keepAliveInterval <= 0 {
		keepAliveInterval = 30 * time.Second
	}

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cleanup()

		ticker := time.NewTicker(keepAliveInterval / 2)
		defer ticker.Stop()

		for {
			select {
			case notification, ok := <-stream:
				if !ok {
					return
				}
				if err := writeNotificationEvent(w, notification); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write notification event")
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write notification keepalive")
					return
				}
			}
		}
	})

	return nil
}

func (h *AdminNotificationHandler) sendNotificationError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, service.ErrNotificationNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "notification not found")
	}
	h.logger.Error().Err(err).Msg(fallback)
	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}

func writeNotificationEvent(w *bufio.Writer, notification interface{}) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: notification\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, ": keep-alive %s\n\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return w.Flush()
}

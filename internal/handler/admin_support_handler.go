package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sailors-platform/sailor-api/internal/dto"
	"github.com/sailors-platform/sailor-api/internal/service"
	"github.com/sailors-platform/sailor-api/internal/utils"
)

// AdminSupportHandler exposes the moderation surface over support requests.
type AdminSupportHandler struct {
	service service.SupportService
	logger  zerolog.Logger
}

// NewAdminSupportHandler constructs the handler.
func NewAdminSupportHandler(service service.SupportService, logger zerolog.Logger) *AdminSupportHandler {
	return &AdminSupportHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_support_handler").Logger(),
	}
}

// Register attaches admin support routes.
func (h *AdminSupportHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Put("/:id", h.updateStatus)
	router.Post("/:id/comments", h.addComment)
	router.Get("/:id/comments", h.listComments)
}

func (h *AdminSupportHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	req := dto.SupportListRequest{
		Status:    c.Query("status"),
		Category:  c.Query("category"),
		Page:      maxOne(page),
		Limit:     clampLimit(limit, 20, 100),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		return sendSupportError(c, h.logger, err, "failed to list support requests")
	}

	return utils.SendSuccess(c, "support requests", result)
}

func (h *AdminSupportHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	request, err := h.service.Get(c.Context(), id, actorFromContext(c))
	if err != nil {
		return sendSupportError(c, h.logger, err, "failed to fetch support request")
	}

	return utils.SendSuccess(c, "support request", request)
}

func (h *AdminSupportHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SupportUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	request, err := h.service.UpdateStatus(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return sendSupportError(c, h.logger, err, "failed to update support request")
	}

	return utils.SendSuccess(c, "support request updated", request)
}

func (h *AdminSupportHandler) addComment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	comment, err := h.service.AddComment(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return sendSupportError(c, h.logger, err, "failed to add comment")
	}

	return utils.SendSuccess(c, "comment added", comment)
}

func (h *AdminSupportHandler) listComments(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	comments, err := h.service.ListComments(c.Context(), id, actorFromContext(c))
	if err != nil {
		return sendSupportError(c, h.logger, err, "failed to list comments")
	}

	return utils.SendSuccess(c, "comments", comments)
}

func maxOne(value int) int {
	if value <= 0 {
		return 1
	}
	return value
}

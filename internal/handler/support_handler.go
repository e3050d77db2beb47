package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sailors-platform/sailor-api/internal/dto"
	"github.com/sailors-platform/sailor-api/internal/service"
	"github.com/sailors-platform/sailor-api/internal/utils"
)

// SupportHandler serves the public submission endpoint and the authenticated
// submitter-facing support surface.
type SupportHandler struct {
	service service.SupportService
	logger  zerolog.Logger
}

// NewSupportHandler constructs a support handler.
func NewSupportHandler(service service.SupportService, logger zerolog.Logger) *SupportHandler {
	return &SupportHandler{
		service: service,
		logger:  logger.With().Str("component", "support_handler").Logger(),
	}
}

// RegisterPublic wires the submission route. The route accepts anonymous
// callers; identity is attached when a session is present.
func (h *SupportHandler) RegisterPublic(router fiber.Router) {
	router.Post("", h.submit)
}

// RegisterMine wires the authenticated submitter routes.
func (h *SupportHandler) RegisterMine(router fiber.Router) {
	router.Get("", h.listMine)
	router.Get("/:id", h.get)
	router.Post("/:id/comments", h.addComment)
	router.Get("/:id/comments", h.listComments)
}

func (h *SupportHandler) submit(c *fiber.Ctx) error {
	var payload dto.SupportSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if userID := userIDFromContext(c); userID > 0 {
		payload.SubmitterID = &userID
		if name := localString(c, "user_name"); name != "" {
			payload.SubmitterName = &name
		}
		if email := localString(c, "user_email"); email != "" {
			payload.SubmitterEmail = &email
		}
	}

	response, err := h.service.Submit(c.Context(), payload)
	if err != nil {
		return h.sendSupportError(c, err, "failed to submit support request")
	}

	return utils.SendSuccess(c, "support request submitted", response)
}

func (h *SupportHandler) listMine(c *fiber.Ctx) error {
	requests, err := h.service.ListMine(c.Context(), actorFromContext(c))
	if err != nil {
		return h.sendSupportError(c, err, "failed to list support requests")
	}

	return utils.SendSuccess(c, "support requests", requests)
}

func (h *SupportHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	request, err := h.service.Get(c.Context(), id, actorFromContext(c))
	if err != nil {
		return h.sendSupportError(c, err, "failed to fetch support request")
	}

	return utils.SendSuccess(c, "support request", request)
}

func (h *SupportHandler) addComment(c *fiber.Ctx) error {
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
		return h.sendSupportError(c, err, "failed to add comment")
	}

	return utils.SendSuccess(c, "comment added", comment)
}

func (h *SupportHandler) listComments(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	comments, err := h.service.ListComments(c.Context(), id, actorFromContext(c))
	if err != nil {
		return h.sendSupportError(c, err, "failed to list comments")
	}

	return utils.SendSuccess(c, "comments", comments)
}

func (h *SupportHandler) sendSupportError(c *fiber.Ctx, err error, fallback string) error {
	return sendSupportError(c, h.logger, err, fallback)
}

// sendSupportError maps support service errors onto the HTTP taxonomy shared
// by the public and admin support surfaces.
func sendSupportError(c *fiber.Ctx, logger zerolog.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrSupportNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "support request not found")
	case errors.Is(err, service.ErrSupportForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "access denied")
	case errors.Is(err, service.ErrSupportUnauthorized):
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrSupportSpam), errors.Is(err, service.ErrSupportInvalid), errors.Is(err, service.ErrCommentEmpty):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSupportDuplicate):
		return utils.SendError(c, fiber.StatusTooManyRequests, "duplicate submission")
	case isValidationError(err):
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid payload", validationDetails(err))
	default:
		logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}

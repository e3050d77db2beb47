package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sailors-platform/sailor-api/internal/dto"
	"github.com/sailors-platform/sailor-api/internal/utils"
	"github.com/sailors-platform/sailor-api/pkg/cloudinary"
)

// Signer issues signed direct-upload credentials.
type Signer interface {
	SignUpload(publicID string) (cloudinary.SignedUpload, error)
}

// UploadHandler serves upload signature requests for authenticated users.
type UploadHandler struct {
	signer    Signer
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(signer Signer, validate *validator.Validate, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		signer:    signer,
		validator: validate,
		logger:    logger.With().Str("component", "upload_handler").Logger(),
	}
}

// Register attaches the signature route.
func (h *UploadHandler) Register(router fiber.Router) {
	router.Post("/signature", h.signature)
}

func (h *UploadHandler) signature(c *fiber.Ctx) error {
	if h.signer == nil {
		return utils.SendError(c, fiber.StatusServiceUnavailable, "upload signing is not configured")
	}

	var payload dto.UploadSignatureRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid payload", validationDetails(err))
	}

	signed, err := h.signer.SignUpload(payload.PublicID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sign upload")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to sign upload")
	}

	response := dto.UploadSignatureResponse{
		Signature: signed.Signature,
		Timestamp: signed.Timestamp,
		APIKey:    signed.APIKey,
		CloudName: signed.CloudName,
		Folder:    signed.Folder,
		PublicID:  signed.PublicID,
	}

	return utils.SendSuccess(c, "upload signature issued", response)
}

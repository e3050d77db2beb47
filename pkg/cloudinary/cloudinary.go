package cloudinary

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// SignedUpload carries the signed parameters a client needs to perform a
// direct upload against Cloudinary.
type SignedUpload struct {
	Signature string
	Timestamp int64
	APIKey    string
	CloudName string
	Folder    string
	PublicID  string
}

// Service issues upload signatures. The file bytes never pass through the
// API; clients upload directly to Cloudinary with the signed parameters.
type Service struct {
	cfg    Config
	logger zerolog.Logger
	now    func() time.Time
}

// New constructs a Cloudinary service instance.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	// Validates the credential format early even though signing itself
	// needs no network round trip.
	if _, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret); err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		cfg:    cfg,
		logger: logger.With().Str("component", "cloudinary").Logger(),
		now:    time.Now,
	}, nil
}

// SignUpload produces a time-limited signature over the upload parameters.
func (s *Service) SignUpload(publicID string) (SignedUpload, error) {
	timestamp := s.now().Unix()
	folder := strings.Trim(s.cfg.Folder, "/")

	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	if folder != "" {
		params.Set("folder", folder)
	}
	if publicID != "" {
		params.Set("public_id", publicID)
	}

	signature, err := api.SignParameters(params, s.cfg.APISecret)
	if err != nil {
		return SignedUpload{}, fmt.Errorf("failed to sign upload parameters: %w", err)
	}

	s.logger.Debug().Str("public_id", publicID).Msg("issued upload signature")

	return SignedUpload{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    s.cfg.APIKey,
		CloudName: s.cfg.CloudName,
		Folder:    folder,
		PublicID:  publicID,
	}, nil
}

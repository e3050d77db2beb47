package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sailors-platform/sailor-api/internal/models"
)

// Mailer delivers best-effort email for support request events. Every call
// site catches and logs failures; a mailer error never reaches the caller of
// the primary operation.
type Mailer interface {
	SubmissionReceived(ctx context.Context, request models.SupportRequest) error
	StatusUpdated(ctx context.Context, request models.SupportRequest) error
	CommentAdded(ctx context.Context, request models.SupportRequest, comment models.SupportComment) error
}

// LogMailer is the default delivery that records outbound mail in the
// application log instead of talking to an SMTP relay.
type LogMailer struct {
	inbox  string
	logger zerolog.Logger
}

// NewLogMailer constructs a logging mail delivery.
func NewLogMailer(inbox string, logger zerolog.Logger) *LogMailer {
	return &LogMailer{
		inbox:  inbox,
		logger: logger.With().Str("component", "support_mailer").Logger(),
	}
}

// SubmissionReceived notifies the support inbox about a new request.
func (m *LogMailer) SubmissionReceived(_ context.Context, request models.SupportRequest) error {
	m.logger.Info().
		Uint("request_id", request.ID).
		Str("category", request.Category).
		Str("to", m.inbox).
		Msg("support submission mail delivered")
	return nil
}

// StatusUpdated notifies the non-anonymous submitter about a status change.
func (m *LogMailer) StatusUpdated(_ context.Context, request models.SupportRequest) error {
	if request.IsAnonymous || request.SubmitterEmail == nil {
		return nil
	}

	m.logger.Info().
		Uint("request_id", request.ID).
		Str("status", request.Status).
		Str("to", maskEmailAddress(*request.SubmitterEmail)).
		Msg("support status mail delivered")
	return nil
}

// CommentAdded notifies the non-anonymous submitter about an admin reply.
func (m *LogMailer) CommentAdded(_ context.Context, request models.SupportRequest, comment models.SupportComment) error {
	if request.IsAnonymous || request.SubmitterEmail == nil {
		return nil
	}

	m.logger.Info().
		Uint("request_id", request.ID).
		Str("comment_ref", comment.ReferenceID).
		Str("to", maskEmailAddress(*request.SubmitterEmail)).
		Msg("support comment mail delivered")
	return nil
}

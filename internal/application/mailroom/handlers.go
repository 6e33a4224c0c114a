package mailroom

import (
	"context"

	"github.com/scms/backend/internal/domain/mailroom"
	"go.uber.org/zap"
)

// NewIntegrityReportHandler returns the handler for provider report emails.
// Stage transitions arrive through the provider webhook; the email copy is
// logged with its manuscript reference for the editorial audit trail.
func NewIntegrityReportHandler(logger *zap.Logger) mailroom.Handler {
	return mailroom.HandlerFunc(func(ctx context.Context, email *mailroom.InboundEmail) error {
		logger.Info("Integrity report email received",
			zap.String("message_id", email.MessageID),
			zap.String("reference", email.Reference),
			zap.String("from", email.Sender),
		)
		return nil
	})
}

// NewSubmissionReceiptHandler returns the handler for submission receipt
// emails sent by the integrity service after an upload is accepted.
func NewSubmissionReceiptHandler(logger *zap.Logger) mailroom.Handler {
	return mailroom.HandlerFunc(func(ctx context.Context, email *mailroom.InboundEmail) error {
		logger.Info("Submission receipt email received",
			zap.String("message_id", email.MessageID),
			zap.String("reference", email.Reference),
		)
		return nil
	})
}

// NewLoggingFallback returns a handler that records emails no dedicated
// handler claims. They stay queryable through the repository.
func NewLoggingFallback(logger *zap.Logger) mailroom.Handler {
	return mailroom.HandlerFunc(func(ctx context.Context, email *mailroom.InboundEmail) error {
		logger.Info("Unrouted inbound email stored",
			zap.String("message_id", email.MessageID),
			zap.String("kind", string(email.Kind)),
			zap.String("subject", email.Subject),
		)
		return nil
	})
}

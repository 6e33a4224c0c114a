package mailroom

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/scms/backend/internal/domain/mailroom"
	"github.com/scms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// dedupTTL bounds how long a provider message ID is remembered. Redeliveries
// arrive within minutes; a day is comfortably past the provider's retry window.
const dedupTTL = 24 * time.Hour

// InboundEmailService ingests provider webhook deliveries: sender policy,
// duplicate suppression, persistence and kind-based dispatch.
type InboundEmailService struct {
	repo       mailroom.InboundEmailRepository
	policy     *mailroom.SenderPolicy
	dispatcher *mailroom.Dispatcher
	dedup      shared.IdempotencyStore
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewInboundEmailService creates a new inbound email service
func NewInboundEmailService(
	repo mailroom.InboundEmailRepository,
	policy *mailroom.SenderPolicy,
	dispatcher *mailroom.Dispatcher,
	dedup shared.IdempotencyStore,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *InboundEmailService {
	return &InboundEmailService{
		repo:       repo,
		policy:     policy,
		dispatcher: dispatcher,
		dedup:      dedup,
		publisher:  publisher,
		logger:     logger,
	}
}

// InboundEmailRequest is one message as delivered by the email provider
type InboundEmailRequest struct {
	MessageID  string    `json:"message_id" binding:"required"`
	From       string    `json:"from" binding:"required"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// InboundEmailResponse reports what happened to a delivery
type InboundEmailResponse struct {
	ID        uuid.UUID          `json:"id"`
	Kind      mailroom.EmailKind `json:"kind"`
	Reference string             `json:"reference,omitempty"`
	Duplicate bool               `json:"duplicate"`
	Handled   bool               `json:"handled"`
}

// Receive processes one provider delivery. Redeliveries of a message ID
// already seen are acknowledged without side effects.
func (s *InboundEmailService) Receive(ctx context.Context, req InboundEmailRequest) (*InboundEmailResponse, error) {
	if !s.policy.Allows(req.From) {
		s.logger.Warn("Rejected inbound email sender",
			zap.String("message_id", req.MessageID),
			zap.String("from", req.From),
		)
		return nil, shared.NewDomainError("SENDER_REJECTED", "Sender is not on the allowed domain list")
	}

	fresh, err := s.dedup.MarkProcessed(ctx, req.MessageID, dedupTTL)
	if err != nil {
		// The database unique constraint still catches duplicates, so a
		// broken dedup store only costs a round trip.
		s.logger.Warn("Dedup store unavailable", zap.Error(err), zap.String("message_id", req.MessageID))
	} else if !fresh {
		s.logger.Info("Dropping redelivered email", zap.String("message_id", req.MessageID))
		return s.duplicateResponse(ctx, req.MessageID)
	}

	receivedAt := req.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	email, err := mailroom.NewInboundEmail(req.MessageID, req.From, req.To, req.Subject, req.Body, receivedAt)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, email); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			s.logger.Info("Dropping redelivered email", zap.String("message_id", req.MessageID))
			return s.duplicateResponse(ctx, req.MessageID)
		}
		s.logger.Error("Failed to save inbound email",
			zap.Error(err),
			zap.String("message_id", req.MessageID),
		)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to store inbound email")
	}

	if err := s.publisher.Publish(ctx, mailroom.NewEmailReceivedEvent(email)); err != nil {
		s.logger.Warn("Failed to publish email received event",
			zap.Error(err),
			zap.String("message_id", email.MessageID),
		)
	}

	handled := true
	if err := s.dispatcher.Dispatch(ctx, email); err != nil {
		// The email is persisted; a handler failure must not make the
		// provider redeliver it.
		handled = false
		s.logger.Error("Email handler failed",
			zap.Error(err),
			zap.String("message_id", email.MessageID),
			zap.String("kind", string(email.Kind)),
		)
	}

	s.logger.Info("Inbound email processed",
		zap.String("message_id", email.MessageID),
		zap.String("kind", string(email.Kind)),
		zap.String("reference", email.Reference),
		zap.Bool("handled", handled),
	)

	return &InboundEmailResponse{
		ID:        email.ID,
		Kind:      email.Kind,
		Reference: email.Reference,
		Handled:   handled,
	}, nil
}

// GetByMessageID retrieves a stored inbound email
func (s *InboundEmailService) GetByMessageID(ctx context.Context, messageID string) (*InboundEmailResponse, error) {
	email, err := s.repo.FindByMessageID(ctx, messageID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("EMAIL_NOT_FOUND", "Inbound email not found")
		}
		return nil, err
	}
	return &InboundEmailResponse{
		ID:        email.ID,
		Kind:      email.Kind,
		Reference: email.Reference,
		Handled:   true,
	}, nil
}

// duplicateResponse answers a redelivery from the stored copy when it
// exists, or with a bare acknowledgement when only the dedup key survived.
func (s *InboundEmailService) duplicateResponse(ctx context.Context, messageID string) (*InboundEmailResponse, error) {
	email, err := s.repo.FindByMessageID(ctx, messageID)
	if err != nil {
		return &InboundEmailResponse{Duplicate: true}, nil
	}
	return &InboundEmailResponse{
		ID:        email.ID,
		Kind:      email.Kind,
		Reference: email.Reference,
		Duplicate: true,
	}, nil
}

package mailroom

import (
	"github.com/google/uuid"
	"github.com/scms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInboundEmail = "InboundEmail"

// Event type constants
const (
	EventTypeEmailReceived = "EmailReceived"
)

// EmailReceivedEvent is raised when an inbound email passed validation
// and was persisted
type EmailReceivedEvent struct {
	shared.BaseDomainEvent
	EmailID   uuid.UUID `json:"email_id"`
	MessageID string    `json:"message_id"`
	Kind      EmailKind `json:"kind"`
	Reference string    `json:"reference"`
}

// NewEmailReceivedEvent creates a new EmailReceivedEvent
func NewEmailReceivedEvent(email *InboundEmail) *EmailReceivedEvent {
	return &EmailReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmailReceived, AggregateTypeInboundEmail, email.ID),
		EmailID:         email.ID,
		MessageID:       email.MessageID,
		Kind:            email.Kind,
		Reference:       email.Reference,
	}
}

// EventType returns the event type name
func (e *EmailReceivedEvent) EventType() string {
	return EventTypeEmailReceived
}

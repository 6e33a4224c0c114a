package event

import (
	"github.com/scms/backend/internal/domain/integrity"
	"github.com/scms/backend/internal/domain/mailroom"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Integrity domain - check run events
	serializer.Register(integrity.EventTypeCheckStarted, &integrity.CheckStartedEvent{})
	serializer.Register(integrity.EventTypeSubmissionConfirmed, &integrity.SubmissionConfirmedEvent{})
	serializer.Register(integrity.EventTypeStageAdvanced, &integrity.StageAdvancedEvent{})
	serializer.Register(integrity.EventTypeCheckCompleted, &integrity.CheckCompletedEvent{})

	// Mailroom domain events
	serializer.Register(mailroom.EventTypeEmailReceived, &mailroom.EmailReceivedEvent{})
}

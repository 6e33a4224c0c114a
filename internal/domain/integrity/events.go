package integrity

import (
	"github.com/google/uuid"
	"github.com/scms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCheckRun = "CheckRun"

// Event type constants
const (
	EventTypeCheckStarted        = "CheckStarted"
	EventTypeSubmissionConfirmed = "SubmissionConfirmed"
	EventTypeStageAdvanced       = "StageAdvanced"
	EventTypeCheckCompleted      = "CheckCompleted"
)

// CheckStartedEvent is raised when an integrity check is first requested
type CheckStartedEvent struct {
	shared.BaseDomainEvent
	CheckRunID   uuid.UUID `json:"check_run_id"`
	ManuscriptID string    `json:"manuscript_id"`
}

// NewCheckStartedEvent creates a new CheckStartedEvent
func NewCheckStartedEvent(checkRunID uuid.UUID, manuscriptID string) *CheckStartedEvent {
	return &CheckStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCheckStarted, AggregateTypeCheckRun, checkRunID),
		CheckRunID:      checkRunID,
		ManuscriptID:    manuscriptID,
	}
}

// EventType returns the event type name
func (e *CheckStartedEvent) EventType() string {
	return EventTypeCheckStarted
}

// SubmissionConfirmedEvent is raised when the external submit succeeded
// and the initial post stage completed
type SubmissionConfirmedEvent struct {
	shared.BaseDomainEvent
	CheckRunID   uuid.UUID `json:"check_run_id"`
	ManuscriptID string    `json:"manuscript_id"`
	SubmitReqID  string    `json:"submit_req_id"`
}

// NewSubmissionConfirmedEvent creates a new SubmissionConfirmedEvent
func NewSubmissionConfirmedEvent(checkRunID uuid.UUID, manuscriptID, submitReqID string) *SubmissionConfirmedEvent {
	return &SubmissionConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubmissionConfirmed, AggregateTypeCheckRun, checkRunID),
		CheckRunID:      checkRunID,
		ManuscriptID:    manuscriptID,
		SubmitReqID:     submitReqID,
	}
}

// EventType returns the event type name
func (e *SubmissionConfirmedEvent) EventType() string {
	return EventTypeSubmissionConfirmed
}

// StageAdvancedEvent is raised when a notification moved a stage
type StageAdvancedEvent struct {
	shared.BaseDomainEvent
	CheckRunID   uuid.UUID         `json:"check_run_id"`
	ManuscriptID string            `json:"manuscript_id"`
	Stage        Stage             `json:"stage"`
	Status       StageStatus       `json:"status"`
	State        NotificationState `json:"state"`
}

// NewStageAdvancedEvent creates a new StageAdvancedEvent
func NewStageAdvancedEvent(checkRunID uuid.UUID, manuscriptID string, stage Stage, status StageStatus, state NotificationState) *StageAdvancedEvent {
	return &StageAdvancedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStageAdvanced, AggregateTypeCheckRun, checkRunID),
		CheckRunID:      checkRunID,
		ManuscriptID:    manuscriptID,
		Stage:           stage,
		Status:          status,
		State:           state,
	}
}

// EventType returns the event type name
func (e *StageAdvancedEvent) EventType() string {
	return EventTypeStageAdvanced
}

// CheckCompletedEvent is raised when the final report stage completes
type CheckCompletedEvent struct {
	shared.BaseDomainEvent
	CheckRunID   uuid.UUID `json:"check_run_id"`
	ManuscriptID string    `json:"manuscript_id"`
	Outcome      Outcome   `json:"outcome"`
}

// NewCheckCompletedEvent creates a new CheckCompletedEvent
func NewCheckCompletedEvent(checkRunID uuid.UUID, manuscriptID string, outcome Outcome) *CheckCompletedEvent {
	return &CheckCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCheckCompleted, AggregateTypeCheckRun, checkRunID),
		CheckRunID:      checkRunID,
		ManuscriptID:    manuscriptID,
		Outcome:         outcome,
	}
}

// EventType returns the event type name
func (e *CheckCompletedEvent) EventType() string {
	return EventTypeCheckCompleted
}

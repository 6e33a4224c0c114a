package integrity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/scms/backend/internal/domain/shared"
)

// CheckRun is the aggregate tracking one image-integrity check for a
// manuscript version. The stage map is nested inside ServiceData under
// the owning service's key so further check services can share the row.
type CheckRun struct {
	shared.BaseAggregateRoot
	ManuscriptID string
	SubmitReqID  string
	ServiceData  map[string]json.RawMessage
}

// NewCheckRun creates a check run with the default stage map
func NewCheckRun(manuscriptID string) (*CheckRun, error) {
	if manuscriptID == "" {
		return nil, shared.NewDomainError("INVALID_MANUSCRIPT", "Manuscript ID is required")
	}

	run := &CheckRun{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ManuscriptID:      manuscriptID,
		ServiceData:       make(map[string]json.RawMessage),
	}

	if err := run.setStageMap(NewStageMap(time.Now())); err != nil {
		return nil, err
	}

	run.AddDomainEvent(NewCheckStartedEvent(run.ID, manuscriptID))
	return run, nil
}

// StageMap decodes the persisted stage map, defaulting when absent or
// unreadable.
func (r *CheckRun) StageMap(now time.Time) StageMapResult {
	if r.ServiceData == nil {
		return StageMapResult{Map: NewStageMap(now), Source: StageMapDefaulted}
	}
	return DecodeStageMap(r.ServiceData[ServiceKeyProofig], now)
}

func (r *CheckRun) setStageMap(m StageMap) error {
	raw, err := EncodeStageMap(m)
	if err != nil {
		return shared.NewDomainError("INVALID_STAGE_MAP", "Stage map cannot be encoded")
	}
	if r.ServiceData == nil {
		r.ServiceData = make(map[string]json.RawMessage)
	}
	r.ServiceData[ServiceKeyProofig] = raw
	return nil
}

// ConfirmSubmission marks the initial post stage completed once the
// external submit request succeeded. Confirming twice is a no-op.
func (r *CheckRun) ConfirmSubmission(submitReqID string, now time.Time) error {
	if submitReqID == "" {
		return shared.NewDomainError("INVALID_SUBMIT_REQ", "Submit request ID is required")
	}

	result := r.StageMap(now)
	m := result.Map
	if m[StageInitialPost].Status == StatusCompleted {
		return nil
	}

	m, _ = setStage(m, StageInitialPost, update{
		status:     StatusCompleted,
		receivedAt: now,
	})
	if err := r.setStageMap(m); err != nil {
		return err
	}

	r.SubmitReqID = submitReqID
	r.AddDomainEvent(NewSubmissionConfirmedEvent(r.ID, r.ManuscriptID, submitReqID))
	return nil
}

// ApplyNotification maps an inbound notification onto the stage map and
// records the corresponding domain events.
func (r *CheckRun) ApplyNotification(n Notification, receivedAt time.Time) (ApplyResult, error) {
	result := r.StageMap(receivedAt)

	next, applied := ApplyNotification(result.Map, n, receivedAt)
	if err := r.setStageMap(next); err != nil {
		return applied, err
	}

	if applied.Applied {
		r.AddDomainEvent(NewStageAdvancedEvent(r.ID, r.ManuscriptID, applied.Stage, applied.Status, n.State))
		if stage, data := CurrentStage(next); stage == StageFinalReport && data.Status == StatusCompleted {
			r.AddDomainEvent(NewCheckCompletedEvent(r.ID, r.ManuscriptID, data.Outcome))
		}
	}

	return applied, nil
}

// Summary derives the display counts from the persisted stage map
func (r *CheckRun) Summary(now time.Time) SummaryCounts {
	return Summarize(r.StageMap(now).Map)
}

// CheckRunRepository defines persistence for check runs. Update applies
// fn against a freshly read aggregate under optimistic concurrency and
// retries internally on version conflict.
type CheckRunRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CheckRun, error)
	FindBySubmitReqID(ctx context.Context, submitReqID string) (*CheckRun, error)
	Save(ctx context.Context, run *CheckRun) error
	Update(ctx context.Context, id uuid.UUID, fn func(run *CheckRun) error) (*CheckRun, error)
}

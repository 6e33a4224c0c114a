package integrity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/scms/backend/internal/domain/integrity"
	"github.com/scms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CheckService orchestrates the lifecycle of image-integrity check runs:
// starting a check, confirming the external submission and folding inbound
// notifications into the persisted stage map.
type CheckService struct {
	repo   integrity.CheckRunRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewCheckService creates a new check service
func NewCheckService(repo integrity.CheckRunRepository, logger *zap.Logger) *CheckService {
	return &CheckService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// StartCheckRequest asks for a new check run on a manuscript version
type StartCheckRequest struct {
	ManuscriptID string `json:"manuscript_id" binding:"required"`
}

// ConfirmSubmissionRequest records the external submit request identifier
type ConfirmSubmissionRequest struct {
	SubmitReqID string `json:"submit_req_id" binding:"required"`
}

// CheckRunResponse is the API view of a check run
type CheckRunResponse struct {
	ID           uuid.UUID               `json:"id"`
	ManuscriptID string                  `json:"manuscript_id"`
	SubmitReqID  string                  `json:"submit_req_id,omitempty"`
	Stages       integrity.StageMap      `json:"stages"`
	Summary      integrity.SummaryCounts `json:"summary"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// NotificationResult reports how a notification was applied
type NotificationResult struct {
	Applied bool   `json:"applied"`
	Stage   string `json:"stage,omitempty"`
	Status  string `json:"status,omitempty"`
	Note    string `json:"note,omitempty"`
}

// StartCheck creates a check run with the default stage map
func (s *CheckService) StartCheck(ctx context.Context, req StartCheckRequest) (*CheckRunResponse, error) {
	run, err := integrity.NewCheckRun(req.ManuscriptID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, run); err != nil {
		s.logger.Error("Failed to save check run",
			zap.Error(err),
			zap.String("manuscript_id", req.ManuscriptID),
		)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to start check")
	}

	s.logger.Info("Check run started",
		zap.String("check_id", run.ID.String()),
		zap.String("manuscript_id", run.ManuscriptID),
	)

	response := s.toResponse(run)
	return &response, nil
}

// ConfirmSubmission marks the initial post stage completed after the
// upstream submit call succeeded. Confirming twice is a no-op.
func (s *CheckService) ConfirmSubmission(ctx context.Context, checkID uuid.UUID, req ConfirmSubmissionRequest) (*CheckRunResponse, error) {
	run, err := s.repo.Update(ctx, checkID, func(run *integrity.CheckRun) error {
		return run.ConfirmSubmission(req.SubmitReqID, s.now())
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CHECK_NOT_FOUND", "Check run not found")
		}
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		s.logger.Error("Failed to confirm submission",
			zap.Error(err),
			zap.String("check_id", checkID.String()),
		)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to confirm submission")
	}

	response := s.toResponse(run)
	return &response, nil
}

// HandleNotification resolves the check run by submit request ID and maps
// the notification onto its stage map. Unknown states are acknowledged
// without touching the map so upstream retries stop.
func (s *CheckService) HandleNotification(ctx context.Context, checkID uuid.UUID, n integrity.Notification) (*NotificationResult, error) {
	if n.SubmitReqID == "" {
		return nil, shared.NewDomainError("INVALID_NOTIFICATION", "Submit request ID is required")
	}

	if !n.State.IsKnown() {
		s.logger.Warn("Ignoring notification with unknown state",
			zap.String("submit_req_id", n.SubmitReqID),
			zap.String("state", n.State.String()),
		)
		return &NotificationResult{Note: "unknown state " + n.State.String()}, nil
	}

	run, err := s.repo.FindBySubmitReqID(ctx, n.SubmitReqID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CHECK_NOT_FOUND", "No check run for submit request "+n.SubmitReqID)
		}
		s.logger.Error("Failed to resolve check run",
			zap.Error(err),
			zap.String("submit_req_id", n.SubmitReqID),
		)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve check run")
	}

	// The callback URL is registered per check run; a payload whose submit
	// request resolves to a different run is misaddressed.
	if checkID != uuid.Nil && run.ID != checkID {
		return nil, shared.NewDomainError("INVALID_NOTIFICATION", "Notification does not match the addressed check run")
	}

	receivedAt := s.now()
	var applied integrity.ApplyResult
	if _, err := s.repo.Update(ctx, run.ID, func(run *integrity.CheckRun) error {
		result, applyErr := run.ApplyNotification(n, receivedAt)
		applied = result
		return applyErr
	}); err != nil {
		s.logger.Error("Failed to apply notification",
			zap.Error(err),
			zap.String("check_id", run.ID.String()),
			zap.String("state", n.State.String()),
		)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to apply notification")
	}

	s.logger.Info("Notification applied",
		zap.String("check_id", run.ID.String()),
		zap.String("state", n.State.String()),
		zap.Bool("applied", applied.Applied),
		zap.String("stage", applied.Stage.String()),
		zap.String("note", applied.Note),
	)

	return &NotificationResult{
		Applied: applied.Applied,
		Stage:   applied.Stage.String(),
		Status:  applied.Status.String(),
		Note:    applied.Note,
	}, nil
}

// GetCheck retrieves a check run by ID
func (s *CheckService) GetCheck(ctx context.Context, checkID uuid.UUID) (*CheckRunResponse, error) {
	run, err := s.repo.FindByID(ctx, checkID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CHECK_NOT_FOUND", "Check run not found")
		}
		return nil, err
	}

	response := s.toResponse(run)
	return &response, nil
}

// GetSummary derives the display counts for a check run
func (s *CheckService) GetSummary(ctx context.Context, checkID uuid.UUID) (*integrity.SummaryCounts, error) {
	run, err := s.repo.FindByID(ctx, checkID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CHECK_NOT_FOUND", "Check run not found")
		}
		return nil, err
	}

	summary := run.Summary(s.now())
	return &summary, nil
}

func (s *CheckService) toResponse(run *integrity.CheckRun) CheckRunResponse {
	now := s.now()
	return CheckRunResponse{
		ID:           run.ID,
		ManuscriptID: run.ManuscriptID,
		SubmitReqID:  run.SubmitReqID,
		Stages:       run.StageMap(now).Map,
		Summary:      run.Summary(now),
		CreatedAt:    run.CreatedAt,
		UpdatedAt:    run.UpdatedAt,
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	integrityapp "github.com/scms/backend/internal/application/integrity"
	"github.com/scms/backend/internal/domain/integrity"
	"github.com/scms/backend/internal/infrastructure/telemetry"
	"github.com/scms/backend/internal/interfaces/http/dto"
	"github.com/scms/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// webhookTokenHeader carries the optional shared secret agreed with the
// provider at subscription time.
const webhookTokenHeader = "X-Webhook-Token"

// ProofigWebhookHandler receives state change notifications from the
// external integrity scanning provider.
//
// The provider retries on 5xx and disables endpoints that keep failing,
// so every handled request answers 2xx or 4xx: a rejected payload is the
// caller's problem, never a reason to look unavailable.
type ProofigWebhookHandler struct {
	checkService *integrityapp.CheckService
	token        string
	metrics      *telemetry.CheckMetrics
	logger       *zap.Logger
}

// NewProofigWebhookHandler creates the webhook handler. An empty token
// disables shared secret verification; metrics may be nil.
func NewProofigWebhookHandler(checkService *integrityapp.CheckService, token string, metrics *telemetry.CheckMetrics, logger *zap.Logger) *ProofigWebhookHandler {
	return &ProofigWebhookHandler{
		checkService: checkService,
		token:        token,
		metrics:      metrics,
		logger:       logger,
	}
}

// ProofigNotificationRequest mirrors the provider's callback payload.
// Counts are optional and default to zero when omitted.
type ProofigNotificationRequest struct {
	SubmitReqID    string `json:"submit_req_id" binding:"required"`
	ReportID       string `json:"report_id"`
	State          string `json:"state" binding:"required"`
	SubimagesTotal int    `json:"subimages_total" binding:"omitempty,min=0"`
	MatchesReview  int    `json:"matches_review" binding:"omitempty,min=0"`
	MatchesReport  int    `json:"matches_report" binding:"omitempty,min=0"`
	InspectsReport int    `json:"inspects_report" binding:"omitempty,min=0"`
	ReportURL      string `json:"report_url" binding:"omitempty,url"`
	Number         int    `json:"number"`
	Message        string `json:"message"`
}

// ProofigWebhookResponse is only sent on rejection; accepted
// notifications get an empty 200.
type ProofigWebhookResponse struct {
	OK     bool                   `json:"ok"`
	Error  string                 `json:"error,omitempty"`
	Issues []dto.ValidationDetail `json:"issues,omitempty"`
}

// Handle godoc
// @ID           proofigWebhook
// @Summary      Receive a provider notification
// @Description  Apply an integrity scan state change to the matching check run
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200 "Notification accepted"
// @Failure      400 {object} ProofigWebhookResponse
// @Failure      401 {object} ProofigWebhookResponse
// @Router       /webhooks/proofig/{id} [post]
func (h *ProofigWebhookHandler) Handle(c *gin.Context) {
	if h.token != "" && c.GetHeader(webhookTokenHeader) != h.token {
		h.logger.Warn("Webhook token mismatch", zap.String("remote_addr", c.ClientIP()))
		h.reject(c, "token_mismatch")
		c.JSON(http.StatusUnauthorized, ProofigWebhookResponse{OK: false, Error: "invalid webhook token"})
		return
	}

	checkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.logger.Warn("Webhook addressed to malformed check ID", zap.String("id", c.Param("id")))
		h.reject(c, "invalid_id")
		c.JSON(http.StatusBadRequest, ProofigWebhookResponse{OK: false, Error: "invalid check id"})
		return
	}

	var req ProofigNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid webhook payload", zap.Error(err))
		h.reject(c, "invalid_payload")
		c.JSON(http.StatusBadRequest, ProofigWebhookResponse{
			OK:     false,
			Error:  "invalid payload",
			Issues: middleware.ValidationDetails(err),
		})
		return
	}

	result, err := h.checkService.HandleNotification(c.Request.Context(), checkID, integrity.Notification{
		SubmitReqID:    req.SubmitReqID,
		ReportID:       req.ReportID,
		State:          integrity.NotificationState(req.State),
		SubimagesTotal: req.SubimagesTotal,
		MatchesReview:  req.MatchesReview,
		MatchesReport:  req.MatchesReport,
		InspectsReport: req.InspectsReport,
		ReportURL:      req.ReportURL,
		Number:         req.Number,
		Message:        req.Message,
	})
	if err != nil {
		// Includes unmatched submit request IDs. 400 tells the provider
		// to drop the delivery instead of retrying it.
		h.logger.Warn("Webhook notification rejected",
			zap.Error(err),
			zap.String("submit_req_id", req.SubmitReqID),
			zap.String("state", req.State),
		)
		h.reject(c, "not_applied")
		c.JSON(http.StatusBadRequest, ProofigWebhookResponse{OK: false, Error: err.Error()})
		return
	}

	if h.metrics != nil {
		if result.Applied {
			h.metrics.RecordNotificationApplied(c.Request.Context(), result.Stage, result.Status)
		} else {
			h.metrics.RecordNotificationIgnored(c.Request.Context(), req.State)
		}
	}

	c.Status(http.StatusOK)
}

func (h *ProofigWebhookHandler) reject(c *gin.Context, reason string) {
	if h.metrics != nil {
		h.metrics.RecordWebhookRejected(c.Request.Context(), reason)
	}
}

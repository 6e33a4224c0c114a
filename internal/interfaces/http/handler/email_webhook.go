package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scms/backend/internal/application/mailroom"
	"github.com/scms/backend/internal/infrastructure/telemetry"
	"github.com/scms/backend/internal/interfaces/http/middleware"
)

// EmailWebhookHandler receives inbound email deliveries from the mail provider
type EmailWebhookHandler struct {
	BaseHandler
	inboundService *mailroom.InboundEmailService
	metrics        *telemetry.CheckMetrics
}

// NewEmailWebhookHandler creates the inbound email handler. Metrics may be nil.
func NewEmailWebhookHandler(inboundService *mailroom.InboundEmailService, metrics *telemetry.CheckMetrics) *EmailWebhookHandler {
	return &EmailWebhookHandler{
		inboundService: inboundService,
		metrics:        metrics,
	}
}

// Receive godoc
// @ID           receiveInboundEmail
// @Summary      Receive an inbound email
// @Description  Classify and route one email delivery; redeliveries are acknowledged without side effects
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        request body mailroom.InboundEmailRequest true "Email delivery"
// @Success      200 {object} APIResponse[mailroom.InboundEmailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /webhooks/email [post]
func (h *EmailWebhookHandler) Receive(c *gin.Context) {
	var req mailroom.InboundEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.ReceivedAt.IsZero() {
		req.ReceivedAt = time.Now().UTC()
	}

	resp, err := h.inboundService.Receive(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordEmailReceived(c.Request.Context(), string(resp.Kind))
	}

	h.Success(c, resp)
}

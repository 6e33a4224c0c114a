package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	integrityapp "github.com/scms/backend/internal/application/integrity"
	"github.com/scms/backend/internal/domain/integrity"
	"github.com/scms/backend/internal/infrastructure/telemetry"
	"github.com/scms/backend/internal/interfaces/http/middleware"
)

// CheckHandler handles integrity check run HTTP requests
type CheckHandler struct {
	BaseHandler
	checkService *integrityapp.CheckService
	metrics      *telemetry.CheckMetrics
}

// NewCheckHandler creates a new check handler. Metrics may be nil.
func NewCheckHandler(checkService *integrityapp.CheckService, metrics *telemetry.CheckMetrics) *CheckHandler {
	return &CheckHandler{
		checkService: checkService,
		metrics:      metrics,
	}
}

// StagesResponse reports the current stage alongside the full stage map
type StagesResponse struct {
	CurrentStage string              `json:"current_stage"`
	CurrentData  integrity.StageData `json:"current_data"`
	Stages       integrity.StageMap  `json:"stages"`
}

// StartCheck godoc
// @ID           startCheck
// @Summary      Start an integrity check
// @Description  Create a new check run for a manuscript with the default stage map
// @Tags         checks
// @Accept       json
// @Produce      json
// @Param        request body integrityapp.StartCheckRequest true "Check request"
// @Success      201 {object} APIResponse[integrityapp.CheckRunResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /checks [post]
func (h *CheckHandler) StartCheck(c *gin.Context) {
	var req integrityapp.StartCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.checkService.StartCheck(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCheckStarted(c.Request.Context())
	}

	h.Created(c, resp)
}

// GetCheck godoc
// @ID           getCheck
// @Summary      Get a check run
// @Description  Retrieve a check run with its stage map and summary counts
// @Tags         checks
// @Produce      json
// @Param        id path string true "Check run ID" format(uuid)
// @Success      200 {object} APIResponse[integrityapp.CheckRunResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /checks/{id} [get]
func (h *CheckHandler) GetCheck(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid check ID")
		return
	}

	resp, err := h.checkService.GetCheck(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetStages godoc
// @ID           getCheckStages
// @Summary      Get check stages
// @Description  Retrieve the stage map of a check run together with the resolved current stage
// @Tags         checks
// @Produce      json
// @Param        id path string true "Check run ID" format(uuid)
// @Success      200 {object} APIResponse[StagesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /checks/{id}/stages [get]
func (h *CheckHandler) GetStages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid check ID")
		return
	}

	resp, err := h.checkService.GetCheck(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	current, data := integrity.CurrentStage(resp.Stages)
	h.Success(c, StagesResponse{
		CurrentStage: current.String(),
		CurrentData:  data,
		Stages:       resp.Stages,
	})
}

// GetSummary godoc
// @ID           getCheckSummary
// @Summary      Get check summary counts
// @Description  Derive the display counts (total/waiting/bad/good) for a check run
// @Tags         checks
// @Produce      json
// @Param        id path string true "Check run ID" format(uuid)
// @Success      200 {object} APIResponse[integrity.SummaryCounts]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /checks/{id}/summary [get]
func (h *CheckHandler) GetSummary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid check ID")
		return
	}

	summary, err := h.checkService.GetSummary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// ConfirmSubmission godoc
// @ID           confirmCheckSubmission
// @Summary      Confirm the external submission
// @Description  Record the submit request ID and complete the initial post stage
// @Tags         checks
// @Accept       json
// @Produce      json
// @Param        id path string true "Check run ID" format(uuid)
// @Param        request body integrityapp.ConfirmSubmissionRequest true "Submit request"
// @Success      200 {object} APIResponse[integrityapp.CheckRunResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /checks/{id}/confirm [post]
func (h *CheckHandler) ConfirmSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid check ID")
		return
	}

	var req integrityapp.ConfirmSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.checkService.ConfirmSubmission(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/scms/backend/internal/application/compliance"
	"github.com/scms/backend/internal/interfaces/http/middleware"
)

// JournalHandler handles journal directory and compliance classification requests
type JournalHandler struct {
	BaseHandler
	journalService *compliance.JournalService
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journalService *compliance.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// Lookup godoc
// @ID           lookupJournal
// @Summary      Look up a journal
// @Description  Resolve a journal directory entry by ISSN or title
// @Tags         journals
// @Produce      json
// @Param        issn query string false "Journal ISSN"
// @Param        title query string false "Journal title"
// @Success      200 {object} APIResponse[compliance.JournalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /journals/lookup [get]
func (h *JournalHandler) Lookup(c *gin.Context) {
	var req compliance.ResolveJournalRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.journalService.ResolveJournal(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Register godoc
// @ID           registerJournal
// @Summary      Register a journal
// @Description  Add a journal directory entry used by lookups and classification
// @Tags         journals
// @Accept       json
// @Produce      json
// @Param        request body compliance.CreateJournalRequest true "Journal entry"
// @Success      201 {object} APIResponse[compliance.JournalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /journals [post]
func (h *JournalHandler) Register(c *gin.Context) {
	var req compliance.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.journalService.RegisterJournal(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Classify godoc
// @ID           classifyPublications
// @Summary      Classify publications
// @Description  Evaluate publications against a funder policy effective date
// @Tags         journals
// @Accept       json
// @Produce      json
// @Param        request body compliance.ClassifyRequest true "Publications to classify"
// @Success      200 {object} APIResponse[[]compliance.ClassifiedPublication]
// @Failure      400 {object} ErrorResponse
// @Router       /journals/classify [post]
func (h *JournalHandler) Classify(c *gin.Context) {
	var req compliance.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	classified, err := h.journalService.Classify(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, classified)
}

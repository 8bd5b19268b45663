package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/dto"
	"github.com/tallyworks/journal_engine/internal/middleware"
)

// entryHandler handles HTTP requests for journal entries, their lifecycle
// transitions and derived reversal/adjustment entries.
type entryHandler struct {
	entryService    portssvc.EntrySvcFacade
	reversalService portssvc.ReversalSvcFacade
	auditService    portssvc.AuditSvcFacade
}

func newEntryHandler(es portssvc.EntrySvcFacade, rs portssvc.ReversalSvcFacade, as portssvc.AuditSvcFacade) *entryHandler {
	return &entryHandler{
		entryService:    es,
		reversalService: rs,
		auditService:    as,
	}
}

// registerEntryRoutes registers journal entry routes under the scoped group.
func registerEntryRoutes(rg *gin.RouterGroup, es portssvc.EntrySvcFacade, rs portssvc.ReversalSvcFacade, as portssvc.AuditSvcFacade) {
	h := newEntryHandler(es, rs, as)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID", h.updateEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
		entries.POST("/:entryID/adjust", h.adjustEntry)
		entries.GET("/:entryID/audit", h.getAuditTrail)
	}
}

// createEntry godoc
// @Summary Create a journal entry draft
// @Description Creates a new DRAFT journal entry with its lines. Drafts may be unbalanced.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), scopeFromPath(c), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create entry")
		return
	}

	logger.Info("Entry created", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its lines and totals projection.
// @Tags entries
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/entries/{entryID} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.entryService.GetEntryByID(c.Request.Context(), scopeFromPath(c), entryID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a paginated list of entries for the company, newest first. Optional status filter.
// @Tags entries
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Param   status query string false "Status filter"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.entryService.ListEntries(c.Request.Context(), scopeFromPath(c), userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateEntry godoc
// @Summary Update a draft entry
// @Description Replaces header fields and optionally lines of a DRAFT entry. Non-draft entries are immutable.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/entries/{entryID} [put]
func (h *entryHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.entryService.UpdateEntry(c.Request.Context(), scopeFromPath(c), entryID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update entry")
		return
	}

	logger.Info("Entry updated", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Runs full validation including the balance check and makes the entry immutable.
// @Tags entries
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry cannot be posted from its current status"
// @Failure 422 {object} map[string]string "Entry is unbalanced"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/entries/{entryID}/post [post]
func (h *entryHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.entryService.PostEntry(c.Request.Context(), scopeFromPath(c), entryID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post entry")
		return
	}

	logger.Info("Entry posted", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a draft entry
// @Description Deletes a DRAFT entry. Posted entries must be reversed instead.
// @Tags entries
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   entryID path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/entries/{entryID} [delete]
func (h *entryHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.entryService.DeleteEntry(c.Request.Context(), scopeFromPath(c), entryID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete entry")
		return
	}

	logger.Info("Entry deleted", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Creates a DRAFT entry mirroring the posted entry's lines and marks the original REVERSED.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   entryID path string true "Entry ID"
// @Param   reversal body dto.ReverseEntryRequest true "Reversal details"
// @Success 201 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not POSTED or already reversed"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/entries/{entryID}/reverse [post]
func (h *entryHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversal, err := h.reversalService.ReverseEntry(c.Request.Context(), scopeFromPath(c), entryID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse entry")
		return
	}

	logger.Info("Entry reversed", slog.String("entry_id", entryID), slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}

// adjustEntry godoc
// @Summary Adjust a posted entry
// @Description Creates a DRAFT adjustment entry from delta lines, linked to the posted original.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   entryID path string true "Entry ID"
// @Param   adjustment body dto.AdjustEntryRequest true "Adjustment details"
// @Success 201 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not POSTED"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/entries/{entryID}/adjust [post]
func (h *entryHandler) adjustEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.AdjustEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	adjustment, err := h.reversalService.AdjustEntry(c.Request.Context(), scopeFromPath(c), entryID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to adjust entry")
		return
	}

	logger.Info("Entry adjusted", slog.String("entry_id", entryID), slog.String("adjustment_entry_id", adjustment.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(adjustment))
}

// getAuditTrail godoc
// @Summary Get an entry's audit trail
// @Description Retrieves the append-only audit records of an entry in sequence order.
// @Tags entries
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   entryID path string true "Entry ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAuditResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/entries/{entryID}/audit [get]
func (h *entryHandler) getAuditTrail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var params dto.ListAuditParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for GetAuditTrail", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.auditService.GetAuditTrail(c.Request.Context(), scopeFromPath(c), entryID, userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve audit trail")
		return
	}

	c.JSON(http.StatusOK, resp)
}

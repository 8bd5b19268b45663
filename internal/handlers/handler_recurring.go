package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/dto"
	"github.com/tallyworks/journal_engine/internal/middleware"
)

// recurringHandler handles HTTP requests for recurring entry definitions.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

func newRecurringHandler(rs portssvc.RecurringSvcFacade) *recurringHandler {
	return &recurringHandler{recurringService: rs}
}

// registerRecurringRoutes registers recurring definition routes under the scoped group.
func registerRecurringRoutes(rg *gin.RouterGroup, rs portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(rs)

	recurring := rg.Group("/recurring")
	{
		recurring.POST("", h.createDefinition)
		recurring.GET("", h.listDefinitions)
		recurring.GET("/:definitionID", h.getDefinition)
		recurring.PUT("/:definitionID", h.updateDefinition)
		recurring.POST("/process", h.processRecurring)
	}
}

// createDefinition godoc
// @Summary Create a recurring definition
// @Description Registers a template + cadence that materializes entries on a schedule.
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   definition body dto.CreateRecurringRequest true "Definition details"
// @Success 201 {object} dto.RecurringResponse
// @Failure 400 {object} map[string]string "Invalid input or inactive template"
// @Failure 404 {object} map[string]string "Template not found"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/recurring [post]
func (h *recurringHandler) createDefinition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDefinition", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	def, err := h.recurringService.CreateDefinition(c.Request.Context(), scopeFromPath(c), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create recurring definition")
		return
	}

	logger.Info("Recurring definition created", slog.String("definition_id", def.DefinitionID))
	c.JSON(http.StatusCreated, dto.ToRecurringResponse(def))
}

// getDefinition godoc
// @Summary Get a recurring definition
// @Tags recurring
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   definitionID path string true "Definition ID"
// @Success 200 {object} dto.RecurringResponse
// @Failure 404 {object} map[string]string "Definition not found"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/recurring/{definitionID} [get]
func (h *recurringHandler) getDefinition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	definitionID := c.Param("definitionID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	def, err := h.recurringService.GetDefinitionByID(c.Request.Context(), scopeFromPath(c), definitionID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve recurring definition")
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringResponse(def))
}

// listDefinitions godoc
// @Summary List recurring definitions
// @Tags recurring
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListRecurringResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/recurring [get]
func (h *recurringHandler) listDefinitions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListRecurringParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListDefinitions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.recurringService.ListDefinitions(c.Request.Context(), scopeFromPath(c), userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list recurring definitions")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateDefinition godoc
// @Summary Update a recurring definition
// @Description Mutates cadence, base amount or activation of a definition.
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   definitionID path string true "Definition ID"
// @Param   definition body dto.UpdateRecurringRequest true "Fields to update"
// @Success 200 {object} dto.RecurringResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Definition not found"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/recurring/{definitionID} [put]
func (h *recurringHandler) updateDefinition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	definitionID := c.Param("definitionID")

	var req dto.UpdateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDefinition", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	def, err := h.recurringService.UpdateDefinition(c.Request.Context(), scopeFromPath(c), definitionID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update recurring definition")
		return
	}

	logger.Info("Recurring definition updated", slog.String("definition_id", definitionID))
	c.JSON(http.StatusOK, dto.ToRecurringResponse(def))
}

// processRecurring godoc
// @Summary Materialize due recurring entries
// @Description Materializes one entry per due occurrence. Failed materializations are recorded and retried on the next run without advancing the schedule.
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   request body dto.ProcessRecurringRequest false "Optional as-of override"
// @Success 200 {object} dto.ProcessRecurringResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/recurring/process [post]
func (h *recurringHandler) processRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ProcessRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProcessRecurring", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var asOf time.Time
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	resp, err := h.recurringService.ProcessRecurring(c.Request.Context(), scopeFromPath(c), asOf, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to process recurring definitions")
		return
	}

	logger.Info("Recurring sweep completed",
		slog.Int("processed", resp.Processed),
		slog.Int("succeeded", resp.Succeeded),
		slog.Int("failed", resp.Failed))
	c.JSON(http.StatusOK, resp)
}

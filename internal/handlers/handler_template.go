package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/dto"
	"github.com/tallyworks/journal_engine/internal/middleware"
)

// templateHandler handles HTTP requests for entry templates.
type templateHandler struct {
	templateService portssvc.TemplateSvcFacade
}

func newTemplateHandler(ts portssvc.TemplateSvcFacade) *templateHandler {
	return &templateHandler{templateService: ts}
}

// registerTemplateRoutes registers template routes under the scoped group.
func registerTemplateRoutes(rg *gin.RouterGroup, ts portssvc.TemplateSvcFacade) {
	h := newTemplateHandler(ts)

	templates := rg.Group("/templates")
	{
		templates.POST("", h.createTemplate)
		templates.GET("", h.listTemplates)
		templates.GET("/:templateID", h.getTemplate)
		templates.PUT("/:templateID", h.updateTemplate)
		templates.DELETE("/:templateID", h.deactivateTemplate)
	}
}

// createTemplate godoc
// @Summary Create an entry template
// @Description Creates a reusable template of line skeletons with literal or formula amounts.
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   template body dto.CreateTemplateRequest true "Template details"
// @Success 201 {object} dto.TemplateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/templates [post]
func (h *templateHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), scopeFromPath(c), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create template")
		return
	}

	logger.Info("Template created", slog.String("template_id", template.TemplateID))
	c.JSON(http.StatusCreated, dto.ToTemplateResponse(template))
}

// getTemplate godoc
// @Summary Get a template
// @Description Retrieves a template with its lines.
// @Tags templates
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   templateID path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse
// @Failure 404 {object} map[string]string "Template not found"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/templates/{templateID} [get]
func (h *templateHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	template, err := h.templateService.GetTemplateByID(c.Request.Context(), scopeFromPath(c), templateID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve template")
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponse(template))
}

// listTemplates godoc
// @Summary List templates
// @Description Retrieves a paginated list of templates for the company, newest first.
// @Tags templates
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTemplatesResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/templates [get]
func (h *templateHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTemplatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTemplates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.templateService.ListTemplates(c.Request.Context(), scopeFromPath(c), userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list templates")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateTemplate godoc
// @Summary Update a template
// @Description Replaces header fields and optionally lines of an active template.
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   templateID path string true "Template ID"
// @Param   template body dto.UpdateTemplateRequest true "Fields to update"
// @Success 200 {object} dto.TemplateResponse
// @Failure 400 {object} map[string]string "Invalid input or template is inactive"
// @Failure 404 {object} map[string]string "Template not found"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/templates/{templateID} [put]
func (h *templateHandler) updateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	template, err := h.templateService.UpdateTemplate(c.Request.Context(), scopeFromPath(c), templateID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update template")
		return
	}

	logger.Info("Template updated", slog.String("template_id", templateID))
	c.JSON(http.StatusOK, dto.ToTemplateResponse(template))
}

// deactivateTemplate godoc
// @Summary Deactivate a template
// @Description Soft-deletes a template. Existing entries and definitions keep their reference.
// @Tags templates
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   templateID path string true "Template ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Template not found"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/templates/{templateID} [delete]
func (h *templateHandler) deactivateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.templateService.DeactivateTemplate(c.Request.Context(), scopeFromPath(c), templateID, userID); err != nil {
		respondError(c, logger, err, "Failed to deactivate template")
		return
	}

	logger.Info("Template deactivated", slog.String("template_id", templateID))
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallyworks/journal_engine/internal/core/domain"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/dto"
	"github.com/tallyworks/journal_engine/internal/middleware"
)

// approvalHandler handles HTTP requests for the approval workflow.
type approvalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

func newApprovalHandler(as portssvc.ApprovalSvcFacade) *approvalHandler {
	return &approvalHandler{approvalService: as}
}

// registerApprovalRoutes registers approval workflow routes under the scoped group.
func registerApprovalRoutes(rg *gin.RouterGroup, as portssvc.ApprovalSvcFacade) {
	h := newApprovalHandler(as)

	approvals := rg.Group("/approvals")
	{
		approvals.POST("", h.requestApproval)
		approvals.GET("/:requestID", h.getRequest)
		approvals.POST("/:requestID/approve", h.approve)
		approvals.POST("/:requestID/reject", h.reject)
		approvals.POST("/:requestID/delegate", h.delegate)
		approvals.POST("/:requestID/cancel", h.cancel)
	}
}

// decide centralizes the shared bind/authorize/respond shape of the
// approve and reject endpoints.
func (h *approvalHandler) decide(c *gin.Context, action string,
	decideFn func(scope domain.Scope, requestID string, req dto.DecisionRequest, userID string) (*domain.ApprovalRequest, error),
) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("requestID")

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for approval decision", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := decideFn(scopeFromPath(c), requestID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to "+action+" approval request")
		return
	}

	logger.Info("Approval decision recorded",
		slog.String("request_id", requestID),
		slog.String("action", action),
		slog.String("status", string(request.Status)))
	c.JSON(http.StatusOK, dto.ToApprovalRequestResponse(request, nil))
}

// requestApproval godoc
// @Summary Submit an entry for approval
// @Description Opens an approval request for a DRAFT entry and moves it to PENDING_APPROVAL.
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   request body dto.RequestApprovalRequest true "Approval request details"
// @Success 201 {object} dto.ApprovalRequestResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Entry is not a draft or already has an open request"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/approvals [post]
func (h *approvalHandler) requestApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RequestApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestApproval", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.approvalService.RequestApproval(c.Request.Context(), scopeFromPath(c), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to request approval")
		return
	}

	logger.Info("Approval requested",
		slog.String("request_id", request.RequestID),
		slog.String("entry_id", request.EntryID))
	c.JSON(http.StatusCreated, dto.ToApprovalRequestResponse(request, nil))
}

// getRequest godoc
// @Summary Get an approval request
// @Description Retrieves an approval request with its decision history.
// @Tags approvals
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   requestID path string true "Request ID"
// @Success 200 {object} dto.ApprovalRequestResponse
// @Failure 404 {object} map[string]string "Request not found"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/approvals/{requestID} [get]
func (h *approvalHandler) getRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("requestID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.approvalService.GetRequest(c.Request.Context(), scopeFromPath(c), requestID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve approval request")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// approve godoc
// @Summary Approve at the current level
// @Description Records an approval. Intermediate levels advance the request; the final level closes it.
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   requestID path string true "Request ID"
// @Param   decision body dto.DecisionRequest true "Decision comments"
// @Success 200 {object} dto.ApprovalRequestResponse
// @Failure 403 {object} map[string]string "Caller is not the current approver"
// @Failure 409 {object} map[string]string "Request is no longer open"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/approvals/{requestID}/approve [post]
func (h *approvalHandler) approve(c *gin.Context) {
	h.decide(c, "approve", func(scope domain.Scope, requestID string, req dto.DecisionRequest, userID string) (*domain.ApprovalRequest, error) {
		return h.approvalService.Approve(c.Request.Context(), scope, requestID, req, userID)
	})
}

// reject godoc
// @Summary Reject an approval request
// @Description Closes the request REJECTED and returns the entry to DRAFT.
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   requestID path string true "Request ID"
// @Param   decision body dto.DecisionRequest true "Decision comments"
// @Success 200 {object} dto.ApprovalRequestResponse
// @Failure 403 {object} map[string]string "Caller is not the current approver"
// @Failure 409 {object} map[string]string "Request is no longer open"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/approvals/{requestID}/reject [post]
func (h *approvalHandler) reject(c *gin.Context) {
	h.decide(c, "reject", func(scope domain.Scope, requestID string, req dto.DecisionRequest, userID string) (*domain.ApprovalRequest, error) {
		return h.approvalService.Reject(c.Request.Context(), scope, requestID, req, userID)
	})
}

// delegate godoc
// @Summary Delegate an approval request
// @Description Reassigns the open request to another approver, bounded by the delegation depth limit.
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   requestID path string true "Request ID"
// @Param   delegation body dto.DelegateRequest true "Delegate details"
// @Success 200 {object} dto.ApprovalRequestResponse
// @Failure 403 {object} map[string]string "Caller is not the current approver"
// @Failure 409 {object} map[string]string "Delegation depth limit reached"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/approvals/{requestID}/delegate [post]
func (h *approvalHandler) delegate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("requestID")

	var req dto.DelegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Delegate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.approvalService.Delegate(c.Request.Context(), scopeFromPath(c), requestID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to delegate approval request")
		return
	}

	logger.Info("Approval request delegated",
		slog.String("request_id", requestID),
		slog.String("delegate_to", req.DelegateToID))
	c.JSON(http.StatusOK, dto.ToApprovalRequestResponse(request, nil))
}

// cancel godoc
// @Summary Cancel an approval request
// @Description Withdraws an open request. Only the original requester may cancel.
// @Tags approvals
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   requestID path string true "Request ID"
// @Success 200 {object} dto.ApprovalRequestResponse
// @Failure 403 {object} map[string]string "Caller is not the requester"
// @Failure 409 {object} map[string]string "Request is no longer open"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/approvals/{requestID}/cancel [post]
func (h *approvalHandler) cancel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("requestID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.approvalService.Cancel(c.Request.Context(), scopeFromPath(c), requestID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel approval request")
		return
	}

	logger.Info("Approval request cancelled", slog.String("request_id", requestID))
	c.JSON(http.StatusOK, dto.ToApprovalRequestResponse(request, nil))
}

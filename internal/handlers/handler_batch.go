package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/dto"
	"github.com/tallyworks/journal_engine/internal/middleware"
)

// batchHandler handles HTTP requests for bulk entry operations.
type batchHandler struct {
	batchService portssvc.BatchSvcFacade
}

func newBatchHandler(bs portssvc.BatchSvcFacade) *batchHandler {
	return &batchHandler{batchService: bs}
}

// registerBatchRoutes registers the batch endpoint under the scoped group.
// Batch runs fan out into many database transactions, so the endpoint gets
// its own per-IP rate limit.
func registerBatchRoutes(rg *gin.RouterGroup, bs portssvc.BatchSvcFacade) {
	h := newBatchHandler(bs)

	rate, _ := limiter.NewRateFromFormatted("30-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)

	rg.POST("/batch", middleware.RateLimit(ipLimiter), h.runBatch)
}

// runBatch godoc
// @Summary Run a batch operation
// @Description Applies one operation (POST, REVERSE, SUBMIT_APPROVAL, APPROVE, DELETE) to a list of entries. Items succeed or fail independently; results preserve input order.
// @Tags batch
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   companyID path string true "Company ID"
// @Param   batch body dto.BatchRequest true "Batch operation details"
// @Success 200 {object} dto.BatchResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/companies/{companyID}/batch [post]
func (h *batchHandler) runBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RunBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.batchService.RunBatch(c.Request.Context(), scopeFromPath(c), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to run batch")
		return
	}

	logger.Info("Batch completed",
		slog.String("operation", req.Operation),
		slog.Int("items", len(result.Items)),
		slog.String("status", string(result.Status)))
	c.JSON(http.StatusOK, dto.ToBatchResponse(result))
}

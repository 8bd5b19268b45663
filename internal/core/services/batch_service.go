package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/dto"
	"github.com/tallyworks/journal_engine/internal/middleware"
)

// batchService applies one operation to many entries with per-item isolation.
// Items run concurrently up to a worker limit; results land at their input
// index so order is preserved regardless of completion order.
type batchService struct {
	entrySvc     portssvc.EntrySvcFacade
	reversalSvc  portssvc.ReversalSvcFacade
	approvalSvc  portssvc.ApprovalSvcFacade
	workplaceSvc portssvc.WorkplaceSvcFacade
	workerLimit  int
}

// NewBatchService creates a new BatchService.
func NewBatchService(entrySvc portssvc.EntrySvcFacade, reversalSvc portssvc.ReversalSvcFacade, approvalSvc portssvc.ApprovalSvcFacade, workplaceSvc portssvc.WorkplaceSvcFacade, workerLimit int) portssvc.BatchSvcFacade {
	if workerLimit <= 0 {
		workerLimit = 8
	}
	return &batchService{
		entrySvc:     entrySvc,
		reversalSvc:  reversalSvc,
		approvalSvc:  approvalSvc,
		workplaceSvc: workplaceSvc,
		workerLimit:  workerLimit,
	}
}

var _ portssvc.BatchSvcFacade = (*batchService)(nil)

// errorKind maps a failure to the taxonomy name exposed in batch results.
func errorKind(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrUnbalanced):
		return "UNBALANCED"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, apperrors.ErrEscalationLimitExceeded):
		return "ESCALATION_LIMIT_EXCEEDED"
	case errors.Is(err, apperrors.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, apperrors.ErrForbidden):
		return "UNAUTHORIZED"
	case errors.Is(err, apperrors.ErrDuplicate):
		return "DUPLICATE"
	case errors.Is(err, apperrors.ErrValidation):
		return "VALIDATION"
	case errors.Is(err, apperrors.ErrInvariant):
		return "INVARIANT"
	default:
		return "INTERNAL"
	}
}

// RunBatch attempts the operation on every entry independently and returns
// per-item outcomes in input order.
// Implements portssvc.BatchSvcFacade
func (s *batchService) RunBatch(ctx context.Context, scope domain.Scope, req dto.BatchRequest, userID string) (*domain.BatchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Authorization runs once up front; per-item calls re-check but a caller
	// with no access at all fails fast instead of 500 identical item errors.
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for RunBatch", slog.String("user_id", userID), slog.String("workplace_id", scope.WorkplaceID), slog.String("error", err.Error()))
		return nil, err
	}

	operation := domain.BatchOperation(req.Operation)
	switch operation {
	case domain.BatchPost, domain.BatchReverse, domain.BatchSubmitApproval, domain.BatchApprove, domain.BatchDelete:
	default:
		return nil, fmt.Errorf("%w: unknown batch operation %q", apperrors.ErrValidation, req.Operation)
	}
	if operation == domain.BatchSubmitApproval && req.ApproverID == "" {
		return nil, fmt.Errorf("%w: approverID is required for SUBMIT_APPROVAL batches", apperrors.ErrValidation)
	}

	seen := make(map[string]struct{}, len(req.EntryIDs))
	for _, id := range req.EntryIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate entry %s in batch", apperrors.ErrValidation, id)
		}
		seen[id] = struct{}{}
	}

	result := &domain.BatchResult{
		Operation: operation,
		Status:    domain.BatchPending,
		Items:     make([]domain.BatchItemResult, len(req.EntryIDs)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerLimit)
	for i, entryID := range req.EntryIDs {
		g.Go(func() error {
			result.Items[i] = s.runItem(gctx, scope, operation, entryID, req, userID)
			// Item failures are recorded, never propagated: one bad entry
			// must not cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	result.Finalize()
	logger.Info("Batch completed",
		slog.String("operation", string(operation)),
		slog.Int("items", len(result.Items)),
		slog.String("status", string(result.Status)))
	return result, nil
}

func (s *batchService) runItem(ctx context.Context, scope domain.Scope, op domain.BatchOperation, entryID string, req dto.BatchRequest, userID string) domain.BatchItemResult {
	item := domain.BatchItemResult{EntryID: entryID}

	var err error
	switch op {
	case domain.BatchPost:
		var entry *domain.JournalEntry
		entry, err = s.entrySvc.PostEntry(ctx, scope, entryID, userID)
		if err == nil {
			item.Status = entry.Status
		}
	case domain.BatchReverse:
		reason := req.Reason
		if reason == "" {
			reason = "Batch reversal"
		}
		_, err = s.reversalSvc.ReverseEntry(ctx, scope, entryID, dto.ReverseEntryRequest{Reason: reason}, userID)
		if err == nil {
			item.Status = domain.Reversed
		}
	case domain.BatchSubmitApproval:
		_, err = s.approvalSvc.RequestApproval(ctx, scope, dto.RequestApprovalRequest{
			EntryID:    entryID,
			ApproverID: req.ApproverID,
		}, userID)
		if err == nil {
			item.Status = domain.PendingApproval
		}
	case domain.BatchApprove:
		_, err = s.approvalSvc.ApproveEntry(ctx, scope, entryID, dto.DecisionRequest{Comments: req.Reason}, userID)
		if err == nil {
			// The resulting status depends on the request's level and the
			// auto-post policy; read it back rather than guessing.
			var entry *domain.JournalEntry
			if entry, err = s.entrySvc.GetEntryByID(ctx, scope, entryID, userID); err == nil {
				item.Status = entry.Status
			}
		}
	case domain.BatchDelete:
		err = s.entrySvc.DeleteEntry(ctx, scope, entryID, userID)
	}

	if err != nil {
		item.Succeeded = false
		item.ErrorKind = errorKind(err)
		item.ErrorMessage = err.Error()
		return item
	}
	item.Succeeded = true
	return item
}

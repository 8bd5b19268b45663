package services

import (
	"context"

	"github.com/tallyworks/journal_engine/internal/core/domain"
	"github.com/tallyworks/journal_engine/internal/dto"
)

// ApprovalSvcFacade defines the multi-level approval workflow layered on top
// of the entry state machine.
type ApprovalSvcFacade interface {
	// RequestApproval opens an approval request for a DRAFT entry and moves
	// it to PENDING_APPROVAL. At most one open request per entry.
	RequestApproval(ctx context.Context, scope domain.Scope, req dto.RequestApprovalRequest, requesterUserID string) (*domain.ApprovalRequest, error)

	// GetRequest retrieves a request with its decision history.
	GetRequest(ctx context.Context, scope domain.Scope, requestID string, userID string) (*dto.ApprovalRequestResponse, error)

	// Approve records an approval at the current level. Intermediate levels
	// advance the request; the final level closes it APPROVED.
	Approve(ctx context.Context, scope domain.Scope, requestID string, req dto.DecisionRequest, approverUserID string) (*domain.ApprovalRequest, error)

	// ApproveEntry resolves the entry's OPEN request and approves it as the
	// given user. Entries without an open request fail with ErrNotFound.
	ApproveEntry(ctx context.Context, scope domain.Scope, entryID string, req dto.DecisionRequest, approverUserID string) (*domain.ApprovalRequest, error)

	// Reject closes the request REJECTED and returns the entry to DRAFT.
	Reject(ctx context.Context, scope domain.Scope, requestID string, req dto.DecisionRequest, approverUserID string) (*domain.ApprovalRequest, error)

	// Delegate reassigns the open request to another approver, bounded by the
	// configured maximum delegation depth.
	Delegate(ctx context.Context, scope domain.Scope, requestID string, req dto.DelegateRequest, approverUserID string) (*domain.ApprovalRequest, error)

	// Cancel withdraws an open request. Only the original requester may
	// cancel; decisions already recorded are final.
	Cancel(ctx context.Context, scope domain.Scope, requestID string, requesterUserID string) (*domain.ApprovalRequest, error)
}

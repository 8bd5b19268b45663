package repositories

import (
	"context"
	"time"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// EntryStatusChange describes an entry transition applied atomically with an
// approval request mutation (e.g. reject moves the entry back to DRAFT).
type EntryStatusChange struct {
	EntryID  string
	From     domain.EntryStatus
	To       domain.EntryStatus
	PostedAt *time.Time
}

// ApprovalReader defines read operations for approval request data
type ApprovalReader interface {
	// FindRequestByID retrieves a request by its identifier within a scope.
	FindRequestByID(ctx context.Context, scope domain.Scope, requestID string) (*domain.ApprovalRequest, error)

	// FindRequestByEntryAndStatus retrieves the single request for an entry
	// in the given status, if any. OPEN and APPROVED are the statuses callers
	// care about: at most one of each can exist per entry.
	FindRequestForEntry(ctx context.Context, scope domain.Scope, entryID string, status domain.ApprovalStatus) (*domain.ApprovalRequest, error)

	// ListDecisions retrieves the decision history of a request in order.
	ListDecisions(ctx context.Context, requestID string) ([]domain.ApprovalDecision, error)
}

// ApprovalWriter defines write operations for approval request data
type ApprovalWriter interface {
	// CreateRequest inserts a new OPEN request and moves the target entry to
	// PENDING_APPROVAL in one transaction. A second open request for the same
	// entry fails with ErrDuplicate.
	CreateRequest(ctx context.Context, req domain.ApprovalRequest, entryChange EntryStatusChange, audit domain.AuditRecord) error

	// UpdateRequest persists a decision against an OPEN request: the mutated
	// request row, the immutable decision row, an optional entry status
	// change, and the audit record, all in one transaction. A request that is
	// no longer OPEN fails with ErrInvalidTransition.
	UpdateRequest(ctx context.Context, req domain.ApprovalRequest, decision domain.ApprovalDecision, entryChange *EntryStatusChange, audit domain.AuditRecord) error
}

// ApprovalRepositoryFacade combines all approval-related repository interfaces
type ApprovalRepositoryFacade interface {
	ApprovalReader
	ApprovalWriter
}

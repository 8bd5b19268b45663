package services

import (
	"context"
	"time"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// AccountDirectory is the external account lookup consumed by the validator.
// Read-only: the engine never mutates account records.
type AccountDirectory interface {
	// GetAccountsByIDs retrieves accounts keyed by ID within a scope.
	// Missing accounts are absent from the map.
	GetAccountsByIDs(ctx context.Context, scope domain.Scope, accountIDs []string) (map[string]domain.Account, error)
}

// PeriodPolicy answers whether an accounting period is open for posting.
type PeriodPolicy interface {
	IsPeriodOpen(ctx context.Context, scope domain.Scope, date time.Time) (bool, error)
}

// ApprovalGate enforces the company approval policy at posting time. An entry
// whose total meets the company threshold may only post once an approved
// request exists for it.
type ApprovalGate interface {
	// MayPost returns ErrValidation when policy requires an approval the
	// entry does not have, nil when posting is permitted.
	MayPost(ctx context.Context, scope domain.Scope, entry domain.JournalEntry, lines []domain.JournalLine) error
}

// WorkplaceSvcFacade provides tenancy and authorization checks consumed by
// every engine service.
type WorkplaceSvcFacade interface {
	// AuthorizeUserAction verifies the user holds at least the required role
	// in the workplace and that the company belongs to it. Cross-tenant
	// access is always an error, never a silent empty result.
	AuthorizeUserAction(ctx context.Context, userID string, scope domain.Scope, requiredRole domain.UserWorkplaceRole) error

	// IsAuthorizedApprover reports whether the user may decide requests at
	// the given approval level.
	IsAuthorizedApprover(ctx context.Context, userID string, workplaceID string, level int) (bool, error)
}

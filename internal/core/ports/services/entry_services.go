package services

import (
	"context"

	"github.com/tallyworks/journal_engine/internal/core/domain"
	"github.com/tallyworks/journal_engine/internal/dto"
)

// EntrySvcFacade defines the ledger state machine operations over journal
// entries. Every call carries an explicit scope and acting user.
type EntrySvcFacade interface {
	// CreateEntry validates the candidate structurally and persists it as a
	// DRAFT. Drafts may be unbalanced; the balance law is enforced at post.
	CreateEntry(ctx context.Context, scope domain.Scope, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, scope domain.Scope, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries.
	ListEntries(ctx context.Context, scope domain.Scope, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// UpdateEntry replaces header fields and lines of a DRAFT entry.
	UpdateEntry(ctx context.Context, scope domain.Scope, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error)

	// PostEntry runs full validation including the balance law and makes the
	// entry immutable. At most one of two concurrent posts can win.
	PostEntry(ctx context.Context, scope domain.Scope, entryID string, userID string) (*domain.JournalEntry, error)

	// DeleteEntry deletes a DRAFT entry. Posted entries must be reversed.
	DeleteEntry(ctx context.Context, scope domain.Scope, entryID string, userID string) error
}

// ReversalSvcFacade derives new entries from posted entries under strict
// linkage rules.
type ReversalSvcFacade interface {
	// ReverseEntry creates a DRAFT entry mirroring a POSTED entry's lines and
	// marks the original REVERSED. The reversal takes the normal posting path.
	ReverseEntry(ctx context.Context, scope domain.Scope, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error)

	// AdjustEntry creates a DRAFT entry from caller-supplied delta lines,
	// linked to a POSTED original, and marks the original ADJUSTED.
	AdjustEntry(ctx context.Context, scope domain.Scope, entryID string, req dto.AdjustEntryRequest, userID string) (*domain.JournalEntry, error)
}

package repositories

import (
	"context"
	"time"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// EntryReader defines read operations for journal entry data
type EntryReader interface {
	// FindEntryByID retrieves a specific entry by its identifier, scoped to
	// the given workplace and company. Entries outside the scope surface as
	// not found, never as another tenant's data.
	FindEntryByID(ctx context.Context, scope domain.Scope, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of an entry in position order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntries retrieves a paginated list of entries for a scope using
	// token-based pagination. Status filters the list when non-nil.
	ListEntries(ctx context.Context, scope domain.Scope, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error)
}

// EntryWriter defines write operations for journal entry data. Every write
// that represents a state transition also appends the corresponding audit
// record within the same database transaction.
type EntryWriter interface {
	// SaveEntry persists a new DRAFT entry with its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, audit domain.AuditRecord) error

	// UpdateDraftEntry replaces the header fields and lines of a DRAFT entry.
	// Fails with ErrInvalidTransition if the entry is no longer a draft.
	UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, audit domain.AuditRecord) error

	// UpdateEntryStatus transitions an entry from an expected status to a new
	// one. The expected-status predicate is the per-entry serialization point:
	// a stale expectation fails with ErrInvalidTransition instead of
	// double-applying the transition.
	UpdateEntryStatus(ctx context.Context, scope domain.Scope, entryID string, from, to domain.EntryStatus, postedAt *time.Time, actorID string, at time.Time, audit domain.AuditRecord) error

	// DeleteDraftEntry deletes a DRAFT entry and its lines. Non-draft entries
	// fail with ErrInvalidTransition.
	DeleteDraftEntry(ctx context.Context, scope domain.Scope, entryID string, audit domain.AuditRecord) error

	// CreateLinkedEntry atomically persists a new DRAFT entry (reversal or
	// adjustment) and moves the original entry from POSTED to originalTo,
	// setting the back-link column. Audits cover both sides.
	CreateLinkedEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, originalID string, originalTo domain.EntryStatus, actorID string, at time.Time, audits []domain.AuditRecord) error
}

// EntryRepositoryFacade combines all entry-related repository interfaces
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}

// EntryRepositoryWithTx extends EntryRepositoryFacade with transaction capabilities
type EntryRepositoryWithTx interface {
	EntryRepositoryFacade
	TransactionManager
}

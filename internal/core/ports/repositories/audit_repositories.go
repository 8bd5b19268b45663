package repositories

import (
	"context"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// AuditRepositoryFacade defines repository operations for the append-only
// audit trail. Records are never updated or deleted.
type AuditRepositoryFacade interface {
	// ListRecordsByEntryID retrieves an entry's audit trail in sequence
	// order, paginated by sequence token.
	ListRecordsByEntryID(ctx context.Context, scope domain.Scope, entryID string, limit int, nextToken *string) ([]domain.AuditRecord, *string, error)
}

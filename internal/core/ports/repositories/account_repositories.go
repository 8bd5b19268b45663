package repositories

import (
	"context"
	"time"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// AccountRepositoryFacade defines read-only repository operations over the
// chart of accounts. This engine never writes account records.
type AccountRepositoryFacade interface {
	// FindAccountByID retrieves a single account within a scope.
	FindAccountByID(ctx context.Context, scope domain.Scope, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves the given accounts keyed by ID. Missing
	// accounts are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, scope domain.Scope, accountIDs []string) (map[string]domain.Account, error)
}

// PeriodRepositoryFacade answers whether an accounting period is open.
type PeriodRepositoryFacade interface {
	// IsPeriodOpen reports whether the company has an open period covering
	// the given date.
	IsPeriodOpen(ctx context.Context, scope domain.Scope, date time.Time) (bool, error)
}

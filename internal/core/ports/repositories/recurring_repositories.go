package repositories

import (
	"context"
	"time"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// RecurringRepositoryFacade defines repository operations for recurring
// entry definitions and their run history.
type RecurringRepositoryFacade interface {
	// SaveDefinition persists a new recurring definition.
	SaveDefinition(ctx context.Context, def domain.RecurringDefinition) error

	// FindDefinitionByID retrieves a definition within a scope.
	FindDefinitionByID(ctx context.Context, scope domain.Scope, definitionID string) (*domain.RecurringDefinition, error)

	// ListDefinitions retrieves a paginated list of definitions for a scope.
	ListDefinitions(ctx context.Context, scope domain.Scope, limit int, nextToken *string) ([]domain.RecurringDefinition, *string, error)

	// ListDueDefinitions retrieves every active definition in the scope whose
	// next run date is on or before asOf.
	ListDueDefinitions(ctx context.Context, scope domain.Scope, asOf time.Time) ([]domain.RecurringDefinition, error)

	// ListDueScopes retrieves the distinct workplace/company pairs that have
	// at least one due definition. Used by the background scheduler to fan
	// out per-scope sweeps.
	ListDueScopes(ctx context.Context, asOf time.Time) ([]domain.Scope, error)

	// UpdateDefinition persists header mutations (cadence, activation).
	UpdateDefinition(ctx context.Context, def domain.RecurringDefinition) error

	// AdvanceDefinition moves a definition's next run date forward after a
	// successful materialization and records the run, in one transaction.
	AdvanceDefinition(ctx context.Context, definitionID string, nextRunDate time.Time, runCount int, isActive bool, actorID string, at time.Time, run domain.RecurringRun) error

	// RecordRun appends a run history row without advancing the definition.
	// Used for failed materializations so the occurrence is retried.
	RecordRun(ctx context.Context, run domain.RecurringRun) error

	// ListRuns retrieves the run history of a definition, newest first.
	ListRuns(ctx context.Context, definitionID string, limit int) ([]domain.RecurringRun, error)
}

package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		EntryRepo:     newPgxEntryRepository(dbPool),
		ApprovalRepo:  newPgxApprovalRepository(dbPool),
		TemplateRepo:  newPgxTemplateRepository(dbPool),
		RecurringRepo: newPgxRecurringRepository(dbPool),
		AuditRepo:     newPgxAuditRepository(dbPool),
		AccountRepo:   newPgxAccountRepository(dbPool),
		PeriodRepo:    newPgxPeriodRepository(dbPool),
		WorkplaceRepo: newPgxWorkplaceRepository(dbPool),
	}
}

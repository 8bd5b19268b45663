package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	"github.com/tallyworks/journal_engine/internal/models"
	"github.com/tallyworks/journal_engine/internal/utils/mapping"
)

// PgxAccountRepository is a read-only view over the chart of accounts. The
// engine validates line account references against it but never writes rows.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountSelectColumns = `
	account_id, workplace_id, company_id, code, name, account_type,
	currency_code, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.WorkplaceID,
		&m.CompanyID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.CurrencyCode,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindAccountByID retrieves a single account within a scope.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, scope domain.Scope, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountSelectColumns + `
		FROM accounts
		WHERE account_id = $1 AND workplace_id = $2 AND company_id = $3;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID, scope.WorkplaceID, scope.CompanyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account " + accountID)
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+accountID, err)
	}
	account := mapping.ToDomainAccount(*m)
	return &account, nil
}

// FindAccountsByIDs retrieves the given accounts keyed by ID. Missing
// accounts are simply absent from the map; the caller decides whether that
// is an error.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, scope domain.Scope, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountSelectColumns + `
		FROM accounts
		WHERE account_id = ANY($1) AND workplace_id = $2 AND company_id = $3;`
	rows, err := r.Pool.Query(ctx, query, accountIDs, scope.WorkplaceID, scope.CompanyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating accounts", err)
	}
	return accounts, nil
}

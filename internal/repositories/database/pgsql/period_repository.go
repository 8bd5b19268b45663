package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
)

// PgxPeriodRepository answers accounting period checks. Period maintenance
// itself lives outside this engine.
type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPeriodRepository implements portsrepo.PeriodRepositoryFacade
var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

// IsPeriodOpen reports whether the company has an open period covering the
// given date.
func (r *PgxPeriodRepository) IsPeriodOpen(ctx context.Context, scope domain.Scope, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM accounting_periods
			WHERE workplace_id = $1 AND company_id = $2
				AND status = 'OPEN'
				AND start_date <= $3 AND end_date >= $3
		);`
	var open bool
	if err := r.Pool.QueryRow(ctx, query, scope.WorkplaceID, scope.CompanyID, date).Scan(&open); err != nil {
		return false, apperrors.NewAppError(500, "failed to check accounting period", err)
	}
	return open, nil
}

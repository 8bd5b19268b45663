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

// PgxWorkplaceRepository serves the membership and company lookups behind
// scoping and authorization. Tenant administration lives outside this engine.
type PgxWorkplaceRepository struct {
	BaseRepository
}

func newPgxWorkplaceRepository(pool *pgxpool.Pool) portsrepo.WorkplaceRepositoryFacade {
	return &PgxWorkplaceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxWorkplaceRepository implements portsrepo.WorkplaceRepositoryFacade
var _ portsrepo.WorkplaceRepositoryFacade = (*PgxWorkplaceRepository)(nil)

// FindWorkplaceByID retrieves a workplace (tenant) by identifier.
func (r *PgxWorkplaceRepository) FindWorkplaceByID(ctx context.Context, workplaceID string) (*domain.Workplace, error) {
	query := `
		SELECT workplace_id, name, description, default_currency_code, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		FROM workplaces
		WHERE workplace_id = $1;`
	var m models.Workplace
	err := r.Pool.QueryRow(ctx, query, workplaceID).Scan(
		&m.WorkplaceID, &m.Name, &m.Description, &m.DefaultCurrencyCode, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("workplace " + workplaceID)
		}
		return nil, apperrors.NewAppError(500, "failed to find workplace "+workplaceID, err)
	}
	workplace := mapping.ToDomainWorkplace(m)
	return &workplace, nil
}

// FindCompanyByID retrieves a company, verifying it belongs to the workplace.
func (r *PgxWorkplaceRepository) FindCompanyByID(ctx context.Context, workplaceID, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, workplace_id, name, currency_code, approval_threshold, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1 AND workplace_id = $2;`
	var m models.Company
	err := r.Pool.QueryRow(ctx, query, companyID, workplaceID).Scan(
		&m.CompanyID, &m.WorkplaceID, &m.Name, &m.CurrencyCode, &m.ApprovalThreshold, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("company " + companyID)
		}
		return nil, apperrors.NewAppError(500, "failed to find company "+companyID, err)
	}
	company := mapping.ToDomainCompany(m)
	return &company, nil
}

// FindMembership retrieves a user's membership in a workplace.
func (r *PgxWorkplaceRepository) FindMembership(ctx context.Context, userID, workplaceID string) (*domain.UserWorkplace, error) {
	query := `
		SELECT user_id, workplace_id, role, approver_level, joined_at
		FROM users_workplaces
		WHERE user_id = $1 AND workplace_id = $2;`
	var m models.UserWorkplace
	err := r.Pool.QueryRow(ctx, query, userID, workplaceID).Scan(
		&m.UserID, &m.WorkplaceID, &m.Role, &m.ApproverLevel, &m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("membership for user " + userID)
		}
		return nil, apperrors.NewAppError(500, "failed to find membership for user "+userID, err)
	}
	membership := mapping.ToDomainUserWorkplace(m)
	return &membership, nil
}

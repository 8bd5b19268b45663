package repositories

import (
	"context"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// WorkplaceRepositoryFacade defines the membership and company lookups the
// engine needs for scoping and authorization checks.
type WorkplaceRepositoryFacade interface {
	// FindWorkplaceByID retrieves a workplace (tenant) by identifier.
	FindWorkplaceByID(ctx context.Context, workplaceID string) (*domain.Workplace, error)

	// FindCompanyByID retrieves a company, verifying it belongs to the workplace.
	FindCompanyByID(ctx context.Context, workplaceID, companyID string) (*domain.Company, error)

	// FindMembership retrieves a user's membership in a workplace.
	FindMembership(ctx context.Context, userID, workplaceID string) (*domain.UserWorkplace, error)
}

package services

import (
	"context"
	"time"

	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
)

// accountDirectory adapts the read-only account repository to the lookup
// interface the validator consumes.
type accountDirectory struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountDirectory creates the account lookup service.
func NewAccountDirectory(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountDirectory {
	return &accountDirectory{accountRepo: accountRepo}
}

var _ portssvc.AccountDirectory = (*accountDirectory)(nil)

// GetAccountsByIDs retrieves accounts keyed by ID within a scope.
// Implements portssvc.AccountDirectory
func (s *accountDirectory) GetAccountsByIDs(ctx context.Context, scope domain.Scope, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	return s.accountRepo.FindAccountsByIDs(ctx, scope, accountIDs)
}

// periodPolicy adapts the period repository to the policy interface.
type periodPolicy struct {
	periodRepo portsrepo.PeriodRepositoryFacade
}

// NewPeriodPolicy creates the accounting period policy service.
func NewPeriodPolicy(periodRepo portsrepo.PeriodRepositoryFacade) portssvc.PeriodPolicy {
	return &periodPolicy{periodRepo: periodRepo}
}

var _ portssvc.PeriodPolicy = (*periodPolicy)(nil)

// IsPeriodOpen reports whether the company has an open period covering date.
// Implements portssvc.PeriodPolicy
func (s *periodPolicy) IsPeriodOpen(ctx context.Context, scope domain.Scope, date time.Time) (bool, error) {
	return s.periodRepo.IsPeriodOpen(ctx, scope, date)
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/utils/accounting"
)

// approvalGate enforces the per-company approval policy at posting time.
type approvalGate struct {
	workplaceRepo portsrepo.WorkplaceRepositoryFacade
	approvalRepo  portsrepo.ApprovalRepositoryFacade
}

// NewApprovalGate creates the posting-time approval policy check.
func NewApprovalGate(workplaceRepo portsrepo.WorkplaceRepositoryFacade, approvalRepo portsrepo.ApprovalRepositoryFacade) portssvc.ApprovalGate {
	return &approvalGate{workplaceRepo: workplaceRepo, approvalRepo: approvalRepo}
}

var _ portssvc.ApprovalGate = (*approvalGate)(nil)

// MayPost permits posting when the company carries no approval threshold, the
// entry's total debit stays below it, or an approved request already exists
// for the entry.
// Implements portssvc.ApprovalGate
func (g *approvalGate) MayPost(ctx context.Context, scope domain.Scope, entry domain.JournalEntry, lines []domain.JournalLine) error {
	company, err := g.workplaceRepo.FindCompanyByID(ctx, scope.WorkplaceID, scope.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to load company %s for approval policy: %w", scope.CompanyID, err)
	}
	if company.ApprovalThreshold == nil {
		return nil
	}

	totals := accounting.ComputeTotals(lines)
	if totals.Debit.LessThan(*company.ApprovalThreshold) {
		return nil
	}

	_, err = g.approvalRepo.FindRequestForEntry(ctx, scope, entry.EntryID, domain.ApprovalApproved)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: entry %s meets the company approval threshold %s and must be approved before posting",
				apperrors.ErrValidation, entry.EntryID, company.ApprovalThreshold.String())
		}
		return fmt.Errorf("failed to check approval for entry %s: %w", entry.EntryID, err)
	}
	return nil
}

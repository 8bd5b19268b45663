package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
)

// roleRank orders roles for the at-least-this-role check.
var roleRank = map[domain.UserWorkplaceRole]int{
	domain.RoleReadOnly: 1,
	domain.RoleMember:   2,
	domain.RoleAdmin:    3,
}

// workplaceService answers tenancy and authorization questions for every
// engine operation.
type workplaceService struct {
	workplaceRepo portsrepo.WorkplaceRepositoryFacade
}

// NewWorkplaceService creates a new WorkplaceService.
func NewWorkplaceService(workplaceRepo portsrepo.WorkplaceRepositoryFacade) portssvc.WorkplaceSvcFacade {
	return &workplaceService{workplaceRepo: workplaceRepo}
}

var _ portssvc.WorkplaceSvcFacade = (*workplaceService)(nil)

// AuthorizeUserAction verifies the user holds at least the required role in
// the workplace and that the company belongs to it. Cross-tenant access is
// an error, never an empty result.
// Implements portssvc.WorkplaceSvcFacade
func (s *workplaceService) AuthorizeUserAction(ctx context.Context, userID string, scope domain.Scope, requiredRole domain.UserWorkplaceRole) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: workplace and company identifiers are required", apperrors.ErrInvariant)
	}

	membership, err := s.workplaceRepo.FindMembership(ctx, userID, scope.WorkplaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user %s is not a member of workplace %s", apperrors.ErrForbidden, userID, scope.WorkplaceID)
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if membership.Role == domain.RoleRemoved {
		return fmt.Errorf("%w: user %s was removed from workplace %s", apperrors.ErrForbidden, userID, scope.WorkplaceID)
	}
	if roleRank[membership.Role] < roleRank[requiredRole] {
		return fmt.Errorf("%w: user %s lacks role %s in workplace %s", apperrors.ErrForbidden, userID, requiredRole, scope.WorkplaceID)
	}

	company, err := s.workplaceRepo.FindCompanyByID(ctx, scope.WorkplaceID, scope.CompanyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: company %s not found in workplace %s", apperrors.ErrNotFound, scope.CompanyID, scope.WorkplaceID)
		}
		return fmt.Errorf("failed to check company scope: %w", err)
	}
	if !company.IsActive {
		return fmt.Errorf("%w: company %s is inactive", apperrors.ErrForbidden, scope.CompanyID)
	}
	return nil
}

// IsAuthorizedApprover reports whether the user may decide requests at the
// given approval level. A member's approver level is the highest level they
// may decide; zero means not an approver at all.
// Implements portssvc.WorkplaceSvcFacade
func (s *workplaceService) IsAuthorizedApprover(ctx context.Context, userID string, workplaceID string, level int) (bool, error) {
	membership, err := s.workplaceRepo.FindMembership(ctx, userID, workplaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	if membership.Role == domain.RoleRemoved || membership.Role == domain.RoleReadOnly {
		return false, nil
	}
	return membership.ApproverLevel >= level, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/dto"
)

// auditService exposes the append-only audit trail. Records are written by
// the repositories inside the transactions that change entries; this service
// only reads them back.
type auditService struct {
	auditRepo    portsrepo.AuditRepositoryFacade
	workplaceSvc portssvc.WorkplaceSvcFacade
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade, workplaceSvc portssvc.WorkplaceSvcFacade) portssvc.AuditSvcFacade {
	return &auditService{
		auditRepo:    auditRepo,
		workplaceSvc: workplaceSvc,
	}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// GetAuditTrail retrieves an entry's audit records in sequence order.
// Implements portssvc.AuditSvcFacade
func (s *auditService) GetAuditTrail(ctx context.Context, scope domain.Scope, entryID string, userID string, params dto.ListAuditParams) (*dto.ListAuditResponse, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	// Deleted drafts keep their trail, so the entry lookup is deliberately
	// not a precondition for reading records.
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	records, nextToken, err := s.auditRepo.ListRecordsByEntryID(ctx, scope, entryID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records for entry %s: %w", entryID, err)
	}

	return &dto.ListAuditResponse{
		EntryID:   entryID,
		Records:   dto.ToAuditRecordResponses(records),
		NextToken: nextToken,
	}, nil
}

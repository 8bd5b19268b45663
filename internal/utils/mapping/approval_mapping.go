package mapping

import (
	"github.com/tallyworks/journal_engine/internal/core/domain"
	"github.com/tallyworks/journal_engine/internal/models"
)

// ToModelApprovalRequest converts a domain ApprovalRequest to its row model
func ToModelApprovalRequest(d domain.ApprovalRequest) models.ApprovalRequest {
	return models.ApprovalRequest{
		RequestID:         d.RequestID,
		EntryID:           d.EntryID,
		WorkplaceID:       d.WorkplaceID,
		CompanyID:         d.CompanyID,
		RequiredLevels:    d.RequiredLevels,
		CurrentLevel:      d.CurrentLevel,
		CurrentApproverID: d.CurrentApproverID,
		RequesterID:       d.RequesterID,
		Status:            string(d.Status),
		EscalationCount:   d.EscalationCount,
		EscalationReason:  d.EscalationReason,
		Comments:          d.Comments,
		DecidedAt:         d.DecidedAt,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainApprovalRequest converts a row model ApprovalRequest to domain
func ToDomainApprovalRequest(m models.ApprovalRequest) domain.ApprovalRequest {
	return domain.ApprovalRequest{
		RequestID:         m.RequestID,
		EntryID:           m.EntryID,
		WorkplaceID:       m.WorkplaceID,
		CompanyID:         m.CompanyID,
		RequiredLevels:    m.RequiredLevels,
		CurrentLevel:      m.CurrentLevel,
		CurrentApproverID: m.CurrentApproverID,
		RequesterID:       m.RequesterID,
		Status:            domain.ApprovalStatus(m.Status),
		EscalationCount:   m.EscalationCount,
		EscalationReason:  m.EscalationReason,
		Comments:          m.Comments,
		DecidedAt:         m.DecidedAt,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelApprovalDecision converts a domain ApprovalDecision to its row model
func ToModelApprovalDecision(d domain.ApprovalDecision) models.ApprovalDecision {
	return models.ApprovalDecision{
		DecisionID:  d.DecisionID,
		RequestID:   d.RequestID,
		Level:       d.Level,
		ActorID:     d.ActorID,
		Action:      string(d.Action),
		Comments:    d.Comments,
		DelegatedTo: d.DelegatedTo,
		DecidedAt:   d.DecidedAt,
	}
}

// ToDomainApprovalDecision converts a row model ApprovalDecision to domain
func ToDomainApprovalDecision(m models.ApprovalDecision) domain.ApprovalDecision {
	return domain.ApprovalDecision{
		DecisionID:  m.DecisionID,
		RequestID:   m.RequestID,
		Level:       m.Level,
		ActorID:     m.ActorID,
		Action:      domain.ApprovalAction(m.Action),
		Comments:    m.Comments,
		DelegatedTo: m.DelegatedTo,
		DecidedAt:   m.DecidedAt,
	}
}

// ToDomainApprovalDecisionSlice converts row model decisions to domain.
func ToDomainApprovalDecisionSlice(ms []models.ApprovalDecision) []domain.ApprovalDecision {
	ds := make([]domain.ApprovalDecision, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainApprovalDecision(m)
	}
	return ds
}

package mapping

import (
	"github.com/tallyworks/journal_engine/internal/core/domain"
	"github.com/tallyworks/journal_engine/internal/models"
)

// ToDomainWorkplace converts a row model Workplace to domain.
func ToDomainWorkplace(m models.Workplace) domain.Workplace {
	return domain.Workplace{
		WorkplaceID:         m.WorkplaceID,
		Name:                m.Name,
		Description:         m.Description,
		DefaultCurrencyCode: m.DefaultCurrencyCode,
		IsActive:            m.IsActive,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCompany converts a row model Company to domain.
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:         m.CompanyID,
		WorkplaceID:       m.WorkplaceID,
		Name:              m.Name,
		CurrencyCode:      m.CurrencyCode,
		ApprovalThreshold: m.ApprovalThreshold,
		IsActive:          m.IsActive,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUserWorkplace converts a row model membership to domain.
func ToDomainUserWorkplace(m models.UserWorkplace) domain.UserWorkplace {
	return domain.UserWorkplace{
		UserID:        m.UserID,
		WorkplaceID:   m.WorkplaceID,
		Role:          domain.UserWorkplaceRole(m.Role),
		ApproverLevel: m.ApproverLevel,
		JoinedAt:      m.JoinedAt,
	}
}

package mapping

import (
	"github.com/tallyworks/journal_engine/internal/core/domain"
	"github.com/tallyworks/journal_engine/internal/models"
)

// ToModelAuditRecord converts a domain AuditRecord to its row model.
func ToModelAuditRecord(d domain.AuditRecord) models.AuditRecord {
	m := models.AuditRecord{
		AuditID:     d.AuditID,
		EntryID:     d.EntryID,
		WorkplaceID: d.WorkplaceID,
		CompanyID:   d.CompanyID,
		Sequence:    d.Sequence,
		ActorID:     d.ActorID,
		Action:      string(d.Action),
		Diff:        d.Diff,
		OccurredAt:  d.OccurredAt,
	}
	if d.FromStatus != "" {
		from := string(d.FromStatus)
		m.FromStatus = &from
	}
	if d.ToStatus != "" {
		to := string(d.ToStatus)
		m.ToStatus = &to
	}
	return m
}

// ToDomainAuditRecord converts a row model AuditRecord to domain.
func ToDomainAuditRecord(m models.AuditRecord) domain.AuditRecord {
	d := domain.AuditRecord{
		AuditID:     m.AuditID,
		EntryID:     m.EntryID,
		WorkplaceID: m.WorkplaceID,
		CompanyID:   m.CompanyID,
		Sequence:    m.Sequence,
		ActorID:     m.ActorID,
		Action:      domain.AuditAction(m.Action),
		Diff:        m.Diff,
		OccurredAt:  m.OccurredAt,
	}
	if m.FromStatus != nil {
		d.FromStatus = domain.EntryStatus(*m.FromStatus)
	}
	if m.ToStatus != nil {
		d.ToStatus = domain.EntryStatus(*m.ToStatus)
	}
	return d
}

// ToModelAccount converts a domain Account to its row model.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		WorkplaceID:  d.WorkplaceID,
		CompanyID:    d.CompanyID,
		Code:         d.Code,
		Name:         d.Name,
		AccountType:  string(d.AccountType),
		CurrencyCode: d.CurrencyCode,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a row model Account to domain.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		WorkplaceID:  m.WorkplaceID,
		CompanyID:    m.CompanyID,
		Code:         m.Code,
		Name:         m.Name,
		AccountType:  domain.AccountType(m.AccountType),
		CurrencyCode: m.CurrencyCode,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

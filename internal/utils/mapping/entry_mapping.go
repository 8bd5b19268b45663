package mapping

import (
	"github.com/tallyworks/journal_engine/internal/core/domain"
	"github.com/tallyworks/journal_engine/internal/models"
)

// ToModelEntry converts a domain JournalEntry to a model JournalEntry
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		WorkplaceID:      d.WorkplaceID,
		CompanyID:        d.CompanyID,
		EntryDate:        d.EntryDate,
		Reference:        d.Reference,
		Description:      d.Description,
		EntryType:        string(d.EntryType),
		CurrencyCode:     d.CurrencyCode,
		Status:           models.EntryStatus(d.Status),
		PostedAt:         d.PostedAt,
		TemplateID:       d.TemplateID,
		ReversedFromID:   d.ReversedFromID,
		ReversingEntryID: d.ReversingEntryID,
		AdjustmentOfID:   d.AdjustmentOfID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		WorkplaceID:      m.WorkplaceID,
		CompanyID:        m.CompanyID,
		EntryDate:        m.EntryDate,
		Reference:        m.Reference,
		Description:      m.Description,
		EntryType:        domain.EntryType(m.EntryType),
		CurrencyCode:     m.CurrencyCode,
		Status:           domain.EntryStatus(m.Status),
		PostedAt:         m.PostedAt,
		TemplateID:       m.TemplateID,
		ReversedFromID:   m.ReversedFromID,
		ReversingEntryID: m.ReversingEntryID,
		AdjustmentOfID:   m.AdjustmentOfID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLine converts a domain JournalLine to a model JournalLine
func ToModelLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Memo:        d.Memo,
		Position:    d.Position,
		Department:  d.Department,
		Project:     d.Project,
		Location:    d.Location,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLine converts a model JournalLine to a domain JournalLine
func ToDomainLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:    m.LineID,
		EntryID:   m.EntryID,
		AccountID: m.AccountID,
		Debit:     m.Debit,
		Credit:    m.Credit,
		Memo:      m.Memo,
		Position:  m.Position,
		Dimensions: domain.Dimensions{
			Department: m.Department,
			Project:    m.Project,
			Location:   m.Location,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLineSlice converts a slice of model JournalLines to domain JournalLines
func ToDomainLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLine(m)
	}
	return ds
}

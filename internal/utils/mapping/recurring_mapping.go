package mapping

import (
	"github.com/tallyworks/journal_engine/internal/core/domain"
	"github.com/tallyworks/journal_engine/internal/models"
)

// ToModelRecurringDefinition converts a domain RecurringDefinition to its row model.
func ToModelRecurringDefinition(d domain.RecurringDefinition) models.RecurringDefinition {
	return models.RecurringDefinition{
		DefinitionID:   d.DefinitionID,
		WorkplaceID:    d.WorkplaceID,
		CompanyID:      d.CompanyID,
		TemplateID:     d.TemplateID,
		Name:           d.Name,
		Frequency:      string(d.Frequency),
		NextRunDate:    d.NextRunDate,
		EndDate:        d.EndDate,
		MaxOccurrences: d.MaxOccurrences,
		RunCount:       d.RunCount,
		BaseAmount:     d.BaseAmount,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecurringDefinition converts a row model RecurringDefinition to domain.
func ToDomainRecurringDefinition(m models.RecurringDefinition) domain.RecurringDefinition {
	return domain.RecurringDefinition{
		DefinitionID:   m.DefinitionID,
		WorkplaceID:    m.WorkplaceID,
		CompanyID:      m.CompanyID,
		TemplateID:     m.TemplateID,
		Name:           m.Name,
		Frequency:      domain.Frequency(m.Frequency),
		NextRunDate:    m.NextRunDate,
		EndDate:        m.EndDate,
		MaxOccurrences: m.MaxOccurrences,
		RunCount:       m.RunCount,
		BaseAmount:     m.BaseAmount,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRecurringRun converts a row model RecurringRun to domain.
func ToDomainRecurringRun(m models.RecurringRun) domain.RecurringRun {
	return domain.RecurringRun{
		RunID:         m.RunID,
		DefinitionID:  m.DefinitionID,
		RunDate:       m.RunDate,
		EntryID:       m.EntryID,
		Succeeded:     m.Succeeded,
		FailureReason: m.FailureReason,
		AttemptedAt:   m.AttemptedAt,
	}
}

// ToModelRecurringRun converts a domain RecurringRun to its row model.
func ToModelRecurringRun(d domain.RecurringRun) models.RecurringRun {
	return models.RecurringRun{
		RunID:         d.RunID,
		DefinitionID:  d.DefinitionID,
		RunDate:       d.RunDate,
		EntryID:       d.EntryID,
		Succeeded:     d.Succeeded,
		FailureReason: d.FailureReason,
		AttemptedAt:   d.AttemptedAt,
	}
}

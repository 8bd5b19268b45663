package mapping

import (
	"github.com/tallyworks/journal_engine/internal/core/domain"
	"github.com/tallyworks/journal_engine/internal/models"
)

// ToModelTemplate converts a domain Template to its row model (lines excluded).
func ToModelTemplate(d domain.Template) models.Template {
	return models.Template{
		TemplateID:   d.TemplateID,
		WorkplaceID:  d.WorkplaceID,
		CompanyID:    d.CompanyID,
		Name:         d.Name,
		Description:  d.Description,
		EntryType:    string(d.EntryType),
		CurrencyCode: d.CurrencyCode,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTemplate converts a row model Template to domain (lines excluded).
func ToDomainTemplate(m models.Template) domain.Template {
	return domain.Template{
		TemplateID:   m.TemplateID,
		WorkplaceID:  m.WorkplaceID,
		CompanyID:    m.CompanyID,
		Name:         m.Name,
		Description:  m.Description,
		EntryType:    domain.EntryType(m.EntryType),
		CurrencyCode: m.CurrencyCode,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTemplateLine converts a domain TemplateLine to its row model.
func ToModelTemplateLine(d domain.TemplateLine) models.TemplateLine {
	return models.TemplateLine{
		TemplateLineID: d.TemplateLineID,
		TemplateID:     d.TemplateID,
		AccountID:      d.AccountID,
		Side:           string(d.Side),
		AmountKind:     string(d.Amount.Kind),
		AmountLiteral:  d.Amount.Literal,
		AmountFormula:  d.Amount.Formula,
		Memo:           d.Memo,
		Position:       d.Position,
		Department:     d.Department,
		Project:        d.Project,
		Location:       d.Location,
	}
}

// ToDomainTemplateLine converts a row model TemplateLine to domain.
func ToDomainTemplateLine(m models.TemplateLine) domain.TemplateLine {
	return domain.TemplateLine{
		TemplateLineID: m.TemplateLineID,
		TemplateID:     m.TemplateID,
		AccountID:      m.AccountID,
		Side:           domain.LineSide(m.Side),
		Amount: domain.LineAmount{
			Kind:    domain.AmountKind(m.AmountKind),
			Literal: m.AmountLiteral,
			Formula: m.AmountFormula,
		},
		Memo:     m.Memo,
		Position: m.Position,
		Dimensions: domain.Dimensions{
			Department: m.Department,
			Project:    m.Project,
			Location:   m.Location,
		},
	}
}

// ToDomainTemplateLineSlice converts row model template lines to domain.
func ToDomainTemplateLineSlice(ms []models.TemplateLine) []domain.TemplateLine {
	ds := make([]domain.TemplateLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTemplateLine(m)
	}
	return ds
}

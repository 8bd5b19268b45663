package models

import "github.com/shopspring/decimal"

// Template is the row model for the templates table.
type Template struct {
	TemplateID   string `json:"templateID"`
	WorkplaceID  string `json:"workplaceID"`
	CompanyID    string `json:"companyID"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	EntryType    string `json:"entryType"`
	CurrencyCode string `json:"currencyCode"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// TemplateLine is the row model for the template_lines table. AmountKind
// discriminates between the literal and formula columns.
type TemplateLine struct {
	TemplateLineID string          `json:"templateLineID"`
	TemplateID     string          `json:"templateID"`
	AccountID      string          `json:"accountID"`
	Side           string          `json:"side"`
	AmountKind     string          `json:"amountKind"`
	AmountLiteral  decimal.Decimal `json:"amountLiteral"`
	AmountFormula  string          `json:"amountFormula"`
	Memo           string          `json:"memo"`
	Position       int             `json:"position"`
	Department     string          `json:"department"`
	Project        string          `json:"project"`
	Location       string          `json:"location"`
}

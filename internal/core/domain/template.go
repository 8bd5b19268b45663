package domain

import "github.com/shopspring/decimal"

// AmountKind tags how a template line amount is resolved at materialization.
type AmountKind string

const (
	AmountLiteral AmountKind = "LITERAL"
	AmountFormula AmountKind = "FORMULA"
)

// LineAmount is a tagged variant: either a literal decimal or a formula
// expression resolved against the materialization context.
type LineAmount struct {
	Kind    AmountKind      `json:"kind"`
	Literal decimal.Decimal `json:"literal,omitempty"`
	Formula string          `json:"formula,omitempty"`
}

// NewLiteralAmount creates a literal LineAmount.
func NewLiteralAmount(v decimal.Decimal) LineAmount {
	return LineAmount{Kind: AmountLiteral, Literal: v}
}

// NewFormulaAmount creates a formula LineAmount.
func NewFormulaAmount(expr string) LineAmount {
	return LineAmount{Kind: AmountFormula, Formula: expr}
}

// LineSide indicates which side of a template line carries the amount.
type LineSide string

const (
	SideDebit  LineSide = "DEBIT"
	SideCredit LineSide = "CREDIT"
)

// Template is a reusable skeleton of lines bound to an entry type. Entries
// created from a template reference it but never own it.
type Template struct {
	TemplateID  string         `json:"templateID"`  // Primary Key (UUID)
	WorkplaceID string         `json:"workplaceID"` // Tenant scope (Not Null)
	CompanyID   string         `json:"companyID"`   // Company scope (Not Null)
	Name        string         `json:"name"`
	Description string         `json:"description"`
	EntryType   EntryType      `json:"entryType"`
	CurrencyCode string        `json:"currencyCode"`
	Lines       []TemplateLine `json:"lines"`
	IsActive    bool           `json:"isActive"`
	AuditFields
}

// TemplateLine is one line skeleton within a template.
type TemplateLine struct {
	TemplateLineID string     `json:"templateLineID"`
	TemplateID     string     `json:"templateID"`
	AccountID      string     `json:"accountID"`
	Side           LineSide   `json:"side"`
	Amount         LineAmount `json:"amount"`
	Memo           string     `json:"memo"`
	Position       int        `json:"position"`
	Dimensions
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// TemplateLineRequest is one line skeleton in a template payload. Exactly one
// of AmountLiteral/AmountFormula must be set.
type TemplateLineRequest struct {
	AccountID     string           `json:"accountID" binding:"required"`
	Side          string           `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	AmountLiteral *decimal.Decimal `json:"amountLiteral"`
	AmountFormula *string          `json:"amountFormula"`
	Memo          string           `json:"memo"`
	Department    string           `json:"department"`
	Project       string           `json:"project"`
	Location      string           `json:"location"`
}

// CreateTemplateRequest is the payload for creating a template.
type CreateTemplateRequest struct {
	Name         string                `json:"name" binding:"required"`
	Description  string                `json:"description"`
	EntryType    string                `json:"entryType" binding:"omitempty,oneof=STANDARD ACCRUAL ADJUSTMENT RECURRING"`
	CurrencyCode string                `json:"currencyCode" binding:"required,len=3"`
	Lines        []TemplateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateTemplateRequest mutates a template. Nil fields are left unchanged;
// non-nil Lines replace the template's lines wholesale.
type UpdateTemplateRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Lines       []TemplateLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// ListTemplatesParams holds parameters for listing templates.
type ListTemplatesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// TemplateLineResponse is the API representation of a template line.
type TemplateLineResponse struct {
	TemplateLineID string           `json:"templateLineID"`
	AccountID      string           `json:"accountID"`
	Side           string           `json:"side"`
	AmountKind     string           `json:"amountKind"`
	AmountLiteral  *decimal.Decimal `json:"amountLiteral,omitempty"`
	AmountFormula  string           `json:"amountFormula,omitempty"`
	Memo           string           `json:"memo,omitempty"`
	Position       int              `json:"position"`
}

// TemplateResponse is the API representation of a template.
type TemplateResponse struct {
	TemplateID   string                 `json:"templateID"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	EntryType    string                 `json:"entryType"`
	CurrencyCode string                 `json:"currencyCode"`
	IsActive     bool                   `json:"isActive"`
	Lines        []TemplateLineResponse `json:"lines,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// ListTemplatesResponse is a page of templates plus the next page token.
type ListTemplatesResponse struct {
	Templates []TemplateResponse `json:"templates"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToTemplateResponse converts a domain template to its API representation.
func ToTemplateResponse(t *domain.Template) TemplateResponse {
	resp := TemplateResponse{
		TemplateID:   t.TemplateID,
		Name:         t.Name,
		Description:  t.Description,
		EntryType:    string(t.EntryType),
		CurrencyCode: t.CurrencyCode,
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt,
	}
	if len(t.Lines) > 0 {
		resp.Lines = make([]TemplateLineResponse, len(t.Lines))
		for i, l := range t.Lines {
			lineResp := TemplateLineResponse{
				TemplateLineID: l.TemplateLineID,
				AccountID:      l.AccountID,
				Side:           string(l.Side),
				AmountKind:     string(l.Amount.Kind),
				AmountFormula:  l.Amount.Formula,
				Memo:           l.Memo,
				Position:       l.Position,
			}
			if l.Amount.Kind == domain.AmountLiteral {
				literal := l.Amount.Literal
				lineResp.AmountLiteral = &literal
			}
			resp.Lines[i] = lineResp
		}
	}
	return resp
}

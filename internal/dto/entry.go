package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyworks/journal_engine/internal/core/domain"
	"github.com/tallyworks/journal_engine/internal/utils/accounting"
)

// CreateLineRequest is one candidate line in a create/update/adjust payload.
// Exactly one of Debit/Credit must be positive; the validator enforces this
// beyond what binding can express.
type CreateLineRequest struct {
	AccountID  string          `json:"accountID" binding:"required"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Memo       string          `json:"memo"`
	Department string          `json:"department"`
	Project    string          `json:"project"`
	Location   string          `json:"location"`
}

// CreateEntryRequest is the payload for creating a journal entry draft.
type CreateEntryRequest struct {
	Date         time.Time           `json:"date" binding:"required"`
	Reference    string              `json:"reference"`
	Description  string              `json:"description" binding:"required"`
	EntryType    string              `json:"entryType" binding:"omitempty,oneof=STANDARD ACCRUAL ADJUSTMENT RECURRING"`
	CurrencyCode string              `json:"currencyCode" binding:"required,len=3"`
	TemplateID   *string             `json:"templateID"`
	Lines        []CreateLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateEntryRequest is the payload for updating a DRAFT entry. Nil fields
// are left unchanged; non-nil Lines replace the draft's lines wholesale.
type UpdateEntryRequest struct {
	Date        *time.Time          `json:"date"`
	Reference   *string             `json:"reference"`
	Description *string             `json:"description"`
	Lines       []CreateLineRequest `json:"lines" binding:"omitempty,min=1,dive"`
}

// ReverseEntryRequest is the payload for reversing a POSTED entry.
type ReverseEntryRequest struct {
	Reason       string     `json:"reason" binding:"required"`
	ReversalDate *time.Time `json:"reversalDate"`
}

// AdjustEntryRequest is the payload for adjusting a POSTED entry with delta lines.
type AdjustEntryRequest struct {
	Reason string              `json:"reason" binding:"required"`
	Date   *time.Time          `json:"date"`
	Lines  []CreateLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ListEntriesParams holds parameters for listing entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status"`
}

// LineResponse is the API representation of a journal line.
type LineResponse struct {
	LineID     string          `json:"lineID"`
	AccountID  string          `json:"accountID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Memo       string          `json:"memo,omitempty"`
	Position   int             `json:"position"`
	Department string          `json:"department,omitempty"`
	Project    string          `json:"project,omitempty"`
	Location   string          `json:"location,omitempty"`
}

// TotalsResponse is the stateless debit/credit projection over an entry's lines.
type TotalsResponse struct {
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Difference decimal.Decimal `json:"difference"`
	Balanced   bool            `json:"balanced"`
}

// EntryResponse is the API representation of a journal entry.
type EntryResponse struct {
	EntryID          string         `json:"entryID"`
	WorkplaceID      string         `json:"workplaceID"`
	CompanyID        string         `json:"companyID"`
	Date             time.Time      `json:"date"`
	Reference        string         `json:"reference,omitempty"`
	Description      string         `json:"description"`
	EntryType        string         `json:"entryType"`
	CurrencyCode     string         `json:"currencyCode"`
	Status           string         `json:"status"`
	PostedAt         *time.Time     `json:"postedAt,omitempty"`
	TemplateID       *string        `json:"templateID,omitempty"`
	ReversedFromID   *string        `json:"reversedFromID,omitempty"`
	ReversingEntryID *string        `json:"reversingEntryID,omitempty"`
	AdjustmentOfID   *string        `json:"adjustmentOfID,omitempty"`
	Lines            []LineResponse `json:"lines,omitempty"`
	Totals           *TotalsResponse `json:"totals,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	CreatedBy        string         `json:"createdBy"`
	LastUpdatedAt    time.Time      `json:"lastUpdatedAt"`
	LastUpdatedBy    string         `json:"lastUpdatedBy"`
}

// ListEntriesResponse is a page of entries plus the next page token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain line to its API representation.
func ToLineResponse(l domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:     l.LineID,
		AccountID:  l.AccountID,
		Debit:      l.Debit,
		Credit:     l.Credit,
		Memo:       l.Memo,
		Position:   l.Position,
		Department: l.Department,
		Project:    l.Project,
		Location:   l.Location,
	}
}

// ToEntryResponse converts a domain entry to its API representation. When
// lines are loaded, the totals projection is included so the caller's balance
// display can never disagree with the server-side validator.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:          e.EntryID,
		WorkplaceID:      e.WorkplaceID,
		CompanyID:        e.CompanyID,
		Date:             e.EntryDate,
		Reference:        e.Reference,
		Description:      e.Description,
		EntryType:        string(e.EntryType),
		CurrencyCode:     e.CurrencyCode,
		Status:           string(e.Status),
		PostedAt:         e.PostedAt,
		TemplateID:       e.TemplateID,
		ReversedFromID:   e.ReversedFromID,
		ReversingEntryID: e.ReversingEntryID,
		AdjustmentOfID:   e.AdjustmentOfID,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
		LastUpdatedAt:    e.LastUpdatedAt,
		LastUpdatedBy:    e.LastUpdatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]LineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = ToLineResponse(l)
		}
		totals := accounting.ComputeTotals(e.Lines)
		resp.Totals = &TotalsResponse{
			Debit:      totals.Debit,
			Credit:     totals.Credit,
			Difference: totals.Difference(),
			Balanced:   totals.Balanced,
		}
	}
	return resp
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus mirrors domain.EntryStatus at the persistence boundary.
type EntryStatus string

// JournalEntry is the row model for the journal_entries table.
type JournalEntry struct {
	EntryID          string      `json:"entryID"`
	WorkplaceID      string      `json:"workplaceID"`
	CompanyID        string      `json:"companyID"`
	EntryDate        time.Time   `json:"entryDate"`
	Reference        string      `json:"reference"`
	Description      string      `json:"description"`
	EntryType        string      `json:"entryType"`
	CurrencyCode     string      `json:"currencyCode"`
	Status           EntryStatus `json:"status"`
	PostedAt         *time.Time  `json:"postedAt"`
	TemplateID       *string     `json:"templateID"`
	ReversedFromID   *string     `json:"reversedFromID"`
	ReversingEntryID *string     `json:"reversingEntryID"`
	AdjustmentOfID   *string     `json:"adjustmentOfID"`
	AuditFields
}

// JournalLine is the row model for the journal_lines table.
type JournalLine struct {
	LineID     string          `json:"lineID"`
	EntryID    string          `json:"entryID"`
	AccountID  string          `json:"accountID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Memo       string          `json:"memo"`
	Position   int             `json:"position"`
	Department string          `json:"department"`
	Project    string          `json:"project"`
	Location   string          `json:"location"`
	AuditFields
}

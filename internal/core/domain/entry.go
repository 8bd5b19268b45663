package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft           EntryStatus = "DRAFT"
	PendingApproval EntryStatus = "PENDING_APPROVAL"
	Posted          EntryStatus = "POSTED"
	Reversed        EntryStatus = "REVERSED"
	Adjusted        EntryStatus = "ADJUSTED"
)

// EntryType classifies a journal entry for approval policy and reporting.
type EntryType string

const (
	EntryTypeStandard   EntryType = "STANDARD"
	EntryTypeAccrual    EntryType = "ACCRUAL"
	EntryTypeReversal   EntryType = "REVERSAL"
	EntryTypeAdjustment EntryType = "ADJUSTMENT"
	EntryTypeRecurring  EntryType = "RECURRING"
)

// JournalEntry is the atomic double-entry bookkeeping record. Once posted it is
// immutable; corrections happen through linked reversal or adjustment entries.
type JournalEntry struct {
	EntryID        string        `json:"entryID"`      // Primary Key (UUID)
	WorkplaceID    string        `json:"workplaceID"`  // Tenant scope (Not Null)
	CompanyID      string        `json:"companyID"`    // Company scope within the tenant (Not Null)
	EntryDate      time.Time     `json:"entryDate"`    // Accounting date of the event
	Reference      string        `json:"reference"`    // Human reference (e.g. JE-2024-0042)
	Description    string        `json:"description"`  // Nullable user description
	EntryType      EntryType     `json:"entryType"`    // Classifier used by approval policy
	CurrencyCode   string        `json:"currencyCode"` // Primary currency of the entry (Not Null)
	Status         EntryStatus   `json:"status"`       // Default: DRAFT
	PostedAt       *time.Time    `json:"postedAt"`     // Stamped when the entry is posted
	TemplateID     *string       `json:"templateID"`   // Nullable FK -> templates.template_id
	ReversedFromID *string       `json:"reversedFromID"`
	// ReversingEntryID is set on the original entry once it has been reversed.
	ReversingEntryID *string     `json:"reversingEntryID"`
	AdjustmentOfID   *string     `json:"adjustmentOfID"`
	Lines            []JournalLine `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// JournalLine is one debit or credit row within an entry. Exactly one of
// Debit/Credit is non-zero; both are non-negative.
type JournalLine struct {
	LineID    string          `json:"lineID"`    // Primary Key (UUID)
	EntryID   string          `json:"entryID"`   // FK -> journal_entries.entry_id (Not Null)
	AccountID string          `json:"accountID"` // FK -> accounts.account_id (Not Null)
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`     // Nullable
	Position  int             `json:"position"` // Stable ordering within the entry
	Dimensions
	AuditFields
}

// Dimensions are optional analytic tags carried by a line.
type Dimensions struct {
	Department string `json:"department,omitempty"`
	Project    string `json:"project,omitempty"`
	Location   string `json:"location,omitempty"`
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// CanTransitionTo reports whether the status machine allows moving from the
// current status to the target.
func (s EntryStatus) CanTransitionTo(target EntryStatus) bool {
	switch s {
	case Draft:
		return target == PendingApproval || target == Posted
	case PendingApproval:
		return target == Draft || target == Posted
	case Posted:
		return target == Reversed || target == Adjusted
	default:
		// REVERSED and ADJUSTED are terminal.
		return false
	}
}

package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// Epsilon is the balance law tolerance: one cent in the smallest currency unit.
var Epsilon = decimal.NewFromFloat(0.01)

// Totals is the stateless projection over an entry's current lines. It is
// shared by the server-side validator and any caller-side balance display so
// the two can never disagree.
type Totals struct {
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Balanced bool            `json:"balanced"`
}

// Difference returns total debits minus total credits.
func (t Totals) Difference() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}

// ComputeTotals sums the debit and credit sides of the given lines and reports
// whether they balance within Epsilon.
func ComputeTotals(lines []domain.JournalLine) Totals {
	debit := decimal.Zero
	credit := decimal.Zero
	for _, line := range lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	return Totals{
		Debit:    debit,
		Credit:   credit,
		Balanced: debit.Sub(credit).Abs().LessThanOrEqual(Epsilon),
	}
}

// MirrorLines returns a copy of the given lines with debit and credit swapped,
// preserving account references, memos and dimensions. Used by reversals.
func MirrorLines(lines []domain.JournalLine) []domain.JournalLine {
	mirrored := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		mirrored[i] = line
		mirrored[i].Debit = line.Credit
		mirrored[i].Credit = line.Debit
	}
	return mirrored
}

package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    domain.EntryStatus
		to      domain.EntryStatus
		allowed bool
	}{
		{domain.Draft, domain.PendingApproval, true},
		{domain.Draft, domain.Posted, true},
		{domain.Draft, domain.Reversed, false},
		{domain.Draft, domain.Adjusted, false},
		{domain.PendingApproval, domain.Draft, true},
		{domain.PendingApproval, domain.Posted, true},
		{domain.PendingApproval, domain.Reversed, false},
		{domain.Posted, domain.Reversed, true},
		{domain.Posted, domain.Adjusted, true},
		{domain.Posted, domain.Draft, false},
		{domain.Posted, domain.PendingApproval, false},
		{domain.Reversed, domain.Draft, false},
		{domain.Reversed, domain.Posted, false},
		{domain.Adjusted, domain.Draft, false},
		{domain.Adjusted, domain.Reversed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestJournalLineSides(t *testing.T) {
	debit := domain.JournalLine{Debit: decimal.RequireFromString("99.50"), Credit: decimal.Zero}
	credit := domain.JournalLine{Debit: decimal.Zero, Credit: decimal.RequireFromString("99.50")}

	assert.True(t, debit.IsDebit())
	assert.False(t, credit.IsDebit())
	assert.Equal(t, "99.5", debit.Amount().String())
	assert.Equal(t, "99.5", credit.Amount().String())
}

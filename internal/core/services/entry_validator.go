package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/utils/accounting"
)

// requiredDimensions maps entry types to the dimension tags their lines must carry.
var requiredDimensions = map[domain.EntryType][]string{
	domain.EntryTypeAccrual: {"department"},
}

// EntryValidator checks structural and balance invariants on a candidate
// entry. Structural failures short-circuit; semantic failures accumulate so
// the caller sees every correctable problem at once.
type EntryValidator struct {
	accounts portssvc.AccountDirectory
	periods  portssvc.PeriodPolicy
}

// NewEntryValidator creates a validator backed by the given collaborators.
func NewEntryValidator(accounts portssvc.AccountDirectory, periods portssvc.PeriodPolicy) *EntryValidator {
	return &EntryValidator{accounts: accounts, periods: periods}
}

// ValidateStructural runs the checks a DRAFT save must pass: date in an open
// period, at least one line, valid active accounts, debit XOR credit per
// line. The balance law is deliberately excluded so work-in-progress drafts
// can be saved unbalanced.
func (v *EntryValidator) ValidateStructural(ctx context.Context, scope domain.Scope, entry domain.JournalEntry, lines []domain.JournalLine) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: workplace and company identifiers are required", apperrors.ErrInvariant)
	}
	if entry.EntryID == "" {
		return fmt.Errorf("%w: entry ID is required", apperrors.ErrInvariant)
	}

	var fieldErrs []apperrors.FieldError

	if entry.EntryDate.IsZero() {
		// Structural: nothing downstream is meaningful without a date.
		return apperrors.NewValidationError([]apperrors.FieldError{{Field: "date", Message: "entry date is required"}})
	}
	open, err := v.periods.IsPeriodOpen(ctx, scope, entry.EntryDate)
	if err != nil {
		return fmt.Errorf("failed to check accounting period: %w", err)
	}
	if !open {
		fieldErrs = append(fieldErrs, apperrors.FieldError{Field: "date", Message: "entry date is not within an open accounting period"})
	}

	if len(lines) == 0 {
		// Structural: line-level checks need lines.
		return apperrors.NewValidationError(append(fieldErrs, apperrors.FieldError{Field: "lines", Message: "entry must have at least one line"}))
	}

	accountIDs := make([]string, 0, len(lines))
	for i, line := range lines {
		field := "lines[" + strconv.Itoa(i) + "]"
		if line.AccountID == "" {
			fieldErrs = append(fieldErrs, apperrors.FieldError{Field: field + ".accountID", Message: "account is required"})
			continue
		}
		accountIDs = append(accountIDs, line.AccountID)

		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			fieldErrs = append(fieldErrs, apperrors.FieldError{Field: field, Message: "amounts must not be negative"})
		}
		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if debitSet == creditSet {
			// Covers both-zero and both-set.
			fieldErrs = append(fieldErrs, apperrors.FieldError{Field: field, Message: "line must carry exactly one of debit or credit"})
		}
	}

	if len(accountIDs) > 0 {
		accountsMap, err := v.accounts.GetAccountsByIDs(ctx, scope, uniqueStrings(accountIDs))
		if err != nil {
			return fmt.Errorf("failed to fetch accounts for validation: %w", err)
		}
		for i, line := range lines {
			if line.AccountID == "" {
				continue
			}
			field := "lines[" + strconv.Itoa(i) + "].accountID"
			acc, found := accountsMap[line.AccountID]
			if !found {
				fieldErrs = append(fieldErrs, apperrors.FieldError{Field: field, Message: "account " + line.AccountID + " not found"})
				continue
			}
			if !acc.IsActive {
				fieldErrs = append(fieldErrs, apperrors.FieldError{Field: field, Message: "account " + line.AccountID + " is inactive"})
			}
		}
	}

	fieldErrs = append(fieldErrs, checkRequiredDimensions(entry.EntryType, lines)...)

	if len(fieldErrs) > 0 {
		return apperrors.NewValidationError(fieldErrs)
	}
	return nil
}

// ValidateForPosting runs the full check set including the balance law. An
// unbalanced entry fails with an UnbalancedError carrying the difference.
func (v *EntryValidator) ValidateForPosting(ctx context.Context, scope domain.Scope, entry domain.JournalEntry, lines []domain.JournalLine) error {
	if err := v.ValidateStructural(ctx, scope, entry, lines); err != nil {
		return err
	}
	totals := accounting.ComputeTotals(lines)
	if !totals.Balanced {
		return apperrors.NewUnbalancedError(totals.Difference())
	}
	return nil
}

func checkRequiredDimensions(entryType domain.EntryType, lines []domain.JournalLine) []apperrors.FieldError {
	required, ok := requiredDimensions[entryType]
	if !ok {
		return nil
	}
	var errs []apperrors.FieldError
	for i, line := range lines {
		for _, dim := range required {
			var present bool
			switch dim {
			case "department":
				present = line.Department != ""
			case "project":
				present = line.Project != ""
			case "location":
				present = line.Location != ""
			}
			if !present {
				errs = append(errs, apperrors.FieldError{
					Field:   "lines[" + strconv.Itoa(i) + "]." + dim,
					Message: dim + " is required for " + string(entryType) + " entries",
				})
			}
		}
	}
	return errs
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}

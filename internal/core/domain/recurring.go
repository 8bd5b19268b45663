package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the cadence at which a recurring definition produces entries.
type Frequency string

const (
	FrequencyDaily     Frequency = "DAILY"
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

// NextAfter returns the run date following from, per the frequency.
func (f Frequency) NextAfter(from time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return from.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	case FrequencyYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from
	}
}

// RecurringDefinition is a template plus a cadence that periodically produces
// concrete journal entries. Generated entry references live in run history.
type RecurringDefinition struct {
	DefinitionID   string          `json:"definitionID"` // Primary Key (UUID)
	WorkplaceID    string          `json:"workplaceID"`  // Tenant scope (Not Null)
	CompanyID      string          `json:"companyID"`    // Company scope (Not Null)
	TemplateID     string          `json:"templateID"`   // FK -> templates.template_id (Not Null)
	Name           string          `json:"name"`
	Frequency      Frequency       `json:"frequency"`
	NextRunDate    time.Time       `json:"nextRunDate"`
	EndDate        *time.Time      `json:"endDate"`        // Nullable end condition
	MaxOccurrences *int            `json:"maxOccurrences"` // Nullable end condition
	RunCount       int             `json:"runCount"`       // Successful materializations so far
	BaseAmount     decimal.Decimal `json:"baseAmount"`     // Input for formula line amounts
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// RecurringRun is one materialization attempt recorded in history.
type RecurringRun struct {
	RunID        string    `json:"runID"`
	DefinitionID string    `json:"definitionID"`
	RunDate      time.Time `json:"runDate"` // The occurrence date that was attempted
	EntryID      *string   `json:"entryID"` // Set on success
	Succeeded    bool      `json:"succeeded"`
	FailureReason string   `json:"failureReason,omitempty"`
	AttemptedAt  time.Time `json:"attemptedAt"`
}

// Exhausted reports whether the definition has hit an end condition as of the
// given occurrence date.
func (d RecurringDefinition) Exhausted(occurrence time.Time) bool {
	if d.EndDate != nil && occurrence.After(*d.EndDate) {
		return true
	}
	if d.MaxOccurrences != nil && d.RunCount >= *d.MaxOccurrences {
		return true
	}
	return false
}

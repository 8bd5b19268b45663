package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringDefinition is the row model for the recurring_definitions table.
type RecurringDefinition struct {
	DefinitionID   string          `json:"definitionID"`
	WorkplaceID    string          `json:"workplaceID"`
	CompanyID      string          `json:"companyID"`
	TemplateID     string          `json:"templateID"`
	Name           string          `json:"name"`
	Frequency      string          `json:"frequency"`
	NextRunDate    time.Time       `json:"nextRunDate"`
	EndDate        *time.Time      `json:"endDate"`
	MaxOccurrences *int            `json:"maxOccurrences"`
	RunCount       int             `json:"runCount"`
	BaseAmount     decimal.Decimal `json:"baseAmount"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// RecurringRun is the row model for the recurring_runs history table.
type RecurringRun struct {
	RunID         string    `json:"runID"`
	DefinitionID  string    `json:"definitionID"`
	RunDate       time.Time `json:"runDate"`
	EntryID       *string   `json:"entryID"`
	Succeeded     bool      `json:"succeeded"`
	FailureReason string    `json:"failureReason"`
	AttemptedAt   time.Time `json:"attemptedAt"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// CreateRecurringRequest registers a template + cadence.
type CreateRecurringRequest struct {
	TemplateID     string          `json:"templateID" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Frequency      string          `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY"`
	StartDate      time.Time       `json:"startDate" binding:"required"`
	EndDate        *time.Time      `json:"endDate"`
	MaxOccurrences *int            `json:"maxOccurrences" binding:"omitempty,min=1"`
	BaseAmount     decimal.Decimal `json:"baseAmount"`
}

// UpdateRecurringRequest mutates a definition's cadence or activation.
type UpdateRecurringRequest struct {
	Name           *string          `json:"name"`
	Frequency      *string          `json:"frequency" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY"`
	NextRunDate    *time.Time       `json:"nextRunDate"`
	EndDate        *time.Time       `json:"endDate"`
	MaxOccurrences *int             `json:"maxOccurrences" binding:"omitempty,min=1"`
	BaseAmount     *decimal.Decimal `json:"baseAmount"`
	IsActive       *bool            `json:"isActive"`
}

// ListRecurringParams holds parameters for listing definitions.
type ListRecurringParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ProcessRecurringRequest triggers an on-demand materialization run.
type ProcessRecurringRequest struct {
	AsOf *time.Time `json:"asOf"`
}

// RecurringRunResponse is one materialization attempt.
type RecurringRunResponse struct {
	DefinitionID  string    `json:"definitionID"`
	RunDate       time.Time `json:"runDate"`
	EntryID       *string   `json:"entryID,omitempty"`
	Succeeded     bool      `json:"succeeded"`
	FailureReason string    `json:"failureReason,omitempty"`
}

// ProcessRecurringResponse summarizes a materialization sweep.
type ProcessRecurringResponse struct {
	Processed int                    `json:"processed"`
	Succeeded int                    `json:"succeeded"`
	Failed    int                    `json:"failed"`
	Runs      []RecurringRunResponse `json:"runs"`
}

// RecurringResponse is the API representation of a recurring definition.
type RecurringResponse struct {
	DefinitionID   string          `json:"definitionID"`
	TemplateID     string          `json:"templateID"`
	Name           string          `json:"name"`
	Frequency      string          `json:"frequency"`
	NextRunDate    time.Time       `json:"nextRunDate"`
	EndDate        *time.Time      `json:"endDate,omitempty"`
	MaxOccurrences *int            `json:"maxOccurrences,omitempty"`
	RunCount       int             `json:"runCount"`
	BaseAmount     decimal.Decimal `json:"baseAmount"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ListRecurringResponse is a page of definitions plus the next page token.
type ListRecurringResponse struct {
	Definitions []RecurringResponse `json:"definitions"`
	NextToken   *string             `json:"nextToken,omitempty"`
}

// ToRecurringResponse converts a domain definition to its API representation.
func ToRecurringResponse(d *domain.RecurringDefinition) RecurringResponse {
	return RecurringResponse{
		DefinitionID:   d.DefinitionID,
		TemplateID:     d.TemplateID,
		Name:           d.Name,
		Frequency:      string(d.Frequency),
		NextRunDate:    d.NextRunDate,
		EndDate:        d.EndDate,
		MaxOccurrences: d.MaxOccurrences,
		RunCount:       d.RunCount,
		BaseAmount:     d.BaseAmount,
		IsActive:       d.IsActive,
		CreatedAt:      d.CreatedAt,
	}
}

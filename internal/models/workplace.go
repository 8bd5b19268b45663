package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Workplace is the row model for the workplaces table.
type Workplace struct {
	WorkplaceID         string  `json:"workplaceID"`
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	DefaultCurrencyCode *string `json:"defaultCurrencyCode"`
	IsActive            bool    `json:"isActive"`
	AuditFields
}

// Company is the row model for the companies table.
type Company struct {
	CompanyID         string           `json:"companyID"`
	WorkplaceID       string           `json:"workplaceID"`
	Name              string           `json:"name"`
	CurrencyCode      string           `json:"currencyCode"`
	ApprovalThreshold *decimal.Decimal `json:"approvalThreshold"`
	IsActive          bool             `json:"isActive"`
	AuditFields
}

// UserWorkplace is the row model for the users_workplaces membership table.
type UserWorkplace struct {
	UserID        string    `json:"userID"`
	WorkplaceID   string    `json:"workplaceID"`
	Role          string    `json:"role"`
	ApproverLevel int       `json:"approverLevel"`
	JoinedAt      time.Time `json:"joinedAt"`
}

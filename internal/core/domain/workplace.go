package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Workplace is the tenant boundary. Companies, accounts, entries, templates
// and approvals all live beneath exactly one workplace.
type Workplace struct {
	WorkplaceID         string  `json:"workplaceID"` // Primary Key (e.g., UUID)
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	DefaultCurrencyCode *string `json:"defaultCurrencyCode"`
	IsActive            bool    `json:"isActive"`
	AuditFields
}

// Company is a legal/accounting unit within a workplace. Entries are scoped
// to a company; cross-company access within a workplace is still an error.
// ApprovalThreshold, when set, requires entries whose total debit reaches it
// to be approved before they may be posted.
type Company struct {
	CompanyID         string           `json:"companyID"` // Primary Key (e.g., UUID)
	WorkplaceID       string           `json:"workplaceID"`
	Name              string           `json:"name"`
	CurrencyCode      string           `json:"currencyCode"`
	ApprovalThreshold *decimal.Decimal `json:"approvalThreshold,omitempty"`
	IsActive          bool             `json:"isActive"`
	AuditFields
}

// UserWorkplaceRole defines the possible roles a user can have within a workplace.
type UserWorkplaceRole string

const (
	RoleAdmin    UserWorkplaceRole = "ADMIN"
	RoleMember   UserWorkplaceRole = "MEMBER"
	RoleReadOnly UserWorkplaceRole = "READONLY"
	RoleRemoved  UserWorkplaceRole = "REMOVED"
)

// UserWorkplace represents the membership of a user in a workplace.
// ApproverLevel is the highest approval level the member may decide;
// zero means the member is not an approver.
type UserWorkplace struct {
	UserID        string            `json:"userID"`
	WorkplaceID   string            `json:"workplaceID"`
	Role          UserWorkplaceRole `json:"role"`
	ApproverLevel int               `json:"approverLevel"`
	JoinedAt      time.Time         `json:"joinedAt"`
}

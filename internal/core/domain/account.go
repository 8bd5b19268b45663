package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is a chart-of-accounts record as seen by this engine. The engine
// only reads accounts; any balance side effects belong to the downstream
// ledger-posting consumer.
type Account struct {
	AccountID    string      `json:"accountID"`    // Primary Key (e.g., UUID)
	WorkplaceID  string      `json:"workplaceID"`  // Tenant scope (Not Null)
	CompanyID    string      `json:"companyID"`    // Company scope (Not Null)
	Code         string      `json:"code"`         // Chart-of-accounts code
	Name         string      `json:"name"`         // User-defined name
	AccountType  AccountType `json:"accountType"`  // ASSET, LIABILITY, etc.
	CurrencyCode string      `json:"currencyCode"` // Account currency (Not Null)
	IsActive     bool        `json:"isActive"`     // Inactive accounts reject new lines
	AuditFields
}

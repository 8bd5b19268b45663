package models

// Account is the row model for the accounts table. Read-only in this engine.
type Account struct {
	AccountID    string `json:"accountID"`
	WorkplaceID  string `json:"workplaceID"`
	CompanyID    string `json:"companyID"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	AccountType  string `json:"accountType"`
	CurrencyCode string `json:"currencyCode"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}

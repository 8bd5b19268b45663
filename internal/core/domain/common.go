package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // ActorID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // ActorID reference
}

// Scope identifies the tenant and company a record belongs to. Every engine
// call carries an explicit Scope; there is no ambient current-company state.
type Scope struct {
	WorkplaceID string `json:"workplaceID"`
	CompanyID   string `json:"companyID"`
}

// Valid reports whether both identifiers are present.
func (s Scope) Valid() bool {
	return s.WorkplaceID != "" && s.CompanyID != ""
}

// SystemActorID attributes background scheduler actions in audit records.
const SystemActorID = "system"

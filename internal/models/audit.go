package models

import (
	"encoding/json"
	"time"
)

// AuditRecord is the row model for the append-only audit_records table.
type AuditRecord struct {
	AuditID     string          `json:"auditID"`
	EntryID     string          `json:"entryID"`
	WorkplaceID string          `json:"workplaceID"`
	CompanyID   string          `json:"companyID"`
	Sequence    int64           `json:"sequence"`
	ActorID     string          `json:"actorID"`
	Action      string          `json:"action"`
	FromStatus  *string         `json:"fromStatus"`
	ToStatus    *string         `json:"toStatus"`
	Diff        json.RawMessage `json:"diff"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

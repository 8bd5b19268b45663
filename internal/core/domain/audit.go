package domain

import (
	"encoding/json"
	"time"
)

// AuditAction names a state-changing action recorded in the audit trail.
type AuditAction string

const (
	AuditCreated           AuditAction = "CREATED"
	AuditUpdated           AuditAction = "UPDATED"
	AuditDeleted           AuditAction = "DELETED"
	AuditPosted            AuditAction = "POSTED"
	AuditApprovalRequested AuditAction = "APPROVAL_REQUESTED"
	AuditApproved          AuditAction = "APPROVED"
	AuditRejected          AuditAction = "REJECTED"
	AuditDelegated         AuditAction = "DELEGATED"
	AuditApprovalCancelled AuditAction = "APPROVAL_CANCELLED"
	AuditReversed          AuditAction = "REVERSED"
	AuditAdjusted          AuditAction = "ADJUSTED"
)

// AuditRecord is an immutable append-only fact about one entry. Records are
// sequenced per entry and never mutated or deleted.
type AuditRecord struct {
	AuditID     string          `json:"auditID"`
	EntryID     string          `json:"entryID"`
	WorkplaceID string          `json:"workplaceID"`
	CompanyID   string          `json:"companyID"`
	Sequence    int64           `json:"sequence"` // 1-based per entry
	ActorID     string          `json:"actorID"`
	Action      AuditAction     `json:"action"`
	FromStatus  EntryStatus     `json:"fromStatus,omitempty"`
	ToStatus    EntryStatus     `json:"toStatus,omitempty"`
	Diff        json.RawMessage `json:"diff,omitempty"` // Optional payload describing the change
	OccurredAt  time.Time       `json:"occurredAt"`
}

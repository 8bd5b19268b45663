package dto

import (
	"encoding/json"
	"time"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// ListAuditParams holds parameters for listing an entry's audit trail.
type ListAuditParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// AuditRecordResponse is the API representation of one audit record.
type AuditRecordResponse struct {
	Sequence   int64           `json:"sequence"`
	ActorID    string          `json:"actorID"`
	Action     string          `json:"action"`
	FromStatus string          `json:"fromStatus,omitempty"`
	ToStatus   string          `json:"toStatus,omitempty"`
	Diff       json.RawMessage `json:"diff,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// ListAuditResponse is a page of audit records plus the next page token.
type ListAuditResponse struct {
	EntryID   string                `json:"entryID"`
	Records   []AuditRecordResponse `json:"records"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToAuditRecordResponses converts domain audit records to API representations.
func ToAuditRecordResponses(records []domain.AuditRecord) []AuditRecordResponse {
	out := make([]AuditRecordResponse, len(records))
	for i, r := range records {
		out[i] = AuditRecordResponse{
			Sequence:   r.Sequence,
			ActorID:    r.ActorID,
			Action:     string(r.Action),
			FromStatus: string(r.FromStatus),
			ToStatus:   string(r.ToStatus),
			Diff:       r.Diff,
			OccurredAt: r.OccurredAt,
		}
	}
	return out
}

package domain

import "time"

// ApprovalStatus indicates the state of an approval request.
type ApprovalStatus string

const (
	ApprovalOpen      ApprovalStatus = "OPEN"
	ApprovalApproved  ApprovalStatus = "APPROVED"
	ApprovalRejected  ApprovalStatus = "REJECTED"
	ApprovalCancelled ApprovalStatus = "CANCELLED"
)

// ApprovalAction is a decision recorded against an approval request.
type ApprovalAction string

const (
	ActionApprove  ApprovalAction = "APPROVE"
	ActionReject   ApprovalAction = "REJECT"
	ActionDelegate ApprovalAction = "DELEGATE"
	ActionCancel   ApprovalAction = "CANCEL"
)

// ApprovalRequest routes a PENDING_APPROVAL entry through N ordered approval
// levels. At most one request per entry is OPEN at a time. Delegation keeps
// the request OPEN under a new approver and increments EscalationCount.
type ApprovalRequest struct {
	RequestID         string         `json:"requestID"`   // Primary Key (UUID)
	EntryID           string         `json:"entryID"`     // FK -> journal_entries.entry_id (Not Null)
	WorkplaceID       string         `json:"workplaceID"` // Tenant scope (Not Null)
	CompanyID         string         `json:"companyID"`   // Company scope (Not Null)
	RequiredLevels    int            `json:"requiredLevels"`
	CurrentLevel      int            `json:"currentLevel"` // 1-based; advances per approval
	CurrentApproverID string         `json:"currentApproverID"`
	RequesterID       string         `json:"requesterID"`
	Status            ApprovalStatus `json:"status"`
	EscalationCount   int            `json:"escalationCount"`
	EscalationReason  string         `json:"escalationReason"` // Reason given on the latest delegation
	Comments          string         `json:"comments"`         // Comments from the latest decision
	DecidedAt         *time.Time     `json:"decidedAt"`        // Final decision timestamp
	AuditFields
}

// ApprovalDecision is one immutable decision row in a request's history.
type ApprovalDecision struct {
	DecisionID string         `json:"decisionID"`
	RequestID  string         `json:"requestID"`
	Level      int            `json:"level"`
	ActorID    string         `json:"actorID"`
	Action     ApprovalAction `json:"action"`
	Comments   string         `json:"comments"`
	// DelegatedTo is set when Action is DELEGATE.
	DelegatedTo string    `json:"delegatedTo,omitempty"`
	DecidedAt   time.Time `json:"decidedAt"`
}

// IsOpen reports whether the request can still receive decisions.
func (r ApprovalRequest) IsOpen() bool {
	return r.Status == ApprovalOpen
}

// IsFinalLevel reports whether the current level is the last required one.
func (r ApprovalRequest) IsFinalLevel() bool {
	return r.CurrentLevel >= r.RequiredLevels
}

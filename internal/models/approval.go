package models

import "time"

// ApprovalRequest is the row model for the approval_requests table.
type ApprovalRequest struct {
	RequestID         string     `json:"requestID"`
	EntryID           string     `json:"entryID"`
	WorkplaceID       string     `json:"workplaceID"`
	CompanyID         string     `json:"companyID"`
	RequiredLevels    int        `json:"requiredLevels"`
	CurrentLevel      int        `json:"currentLevel"`
	CurrentApproverID string     `json:"currentApproverID"`
	RequesterID       string     `json:"requesterID"`
	Status            string     `json:"status"`
	EscalationCount   int        `json:"escalationCount"`
	EscalationReason  string     `json:"escalationReason"`
	Comments          string     `json:"comments"`
	DecidedAt         *time.Time `json:"decidedAt"`
	AuditFields
}

// ApprovalDecision is the row model for the approval_decisions table.
type ApprovalDecision struct {
	DecisionID  string    `json:"decisionID"`
	RequestID   string    `json:"requestID"`
	Level       int       `json:"level"`
	ActorID     string    `json:"actorID"`
	Action      string    `json:"action"`
	Comments    string    `json:"comments"`
	DelegatedTo string    `json:"delegatedTo"`
	DecidedAt   time.Time `json:"decidedAt"`
}

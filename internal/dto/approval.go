package dto

import (
	"time"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// RequestApprovalRequest opens an approval request for a DRAFT entry.
type RequestApprovalRequest struct {
	EntryID        string `json:"entryID" binding:"required"`
	RequiredLevels int    `json:"requiredLevels" binding:"omitempty,min=1,max=10"`
	ApproverID     string `json:"approverID" binding:"required"`
}

// DecisionRequest carries the comments of an approve/reject decision.
type DecisionRequest struct {
	Comments string `json:"comments"`
}

// DelegateRequest reassigns an open request to another approver.
type DelegateRequest struct {
	DelegateToID string `json:"delegateToID" binding:"required"`
	Reason       string `json:"reason"`
}

// ApprovalDecisionResponse is one decision in a request's history.
type ApprovalDecisionResponse struct {
	Level       int       `json:"level"`
	ActorID     string    `json:"actorID"`
	Action      string    `json:"action"`
	Comments    string    `json:"comments,omitempty"`
	DelegatedTo string    `json:"delegatedTo,omitempty"`
	DecidedAt   time.Time `json:"decidedAt"`
}

// ApprovalRequestResponse is the API representation of an approval request.
type ApprovalRequestResponse struct {
	RequestID         string                     `json:"requestID"`
	EntryID           string                     `json:"entryID"`
	RequiredLevels    int                        `json:"requiredLevels"`
	CurrentLevel      int                        `json:"currentLevel"`
	CurrentApproverID string                     `json:"currentApproverID"`
	RequesterID       string                     `json:"requesterID"`
	Status            string                     `json:"status"`
	EscalationCount   int                        `json:"escalationCount"`
	EscalationReason  string                     `json:"escalationReason,omitempty"`
	Comments          string                     `json:"comments,omitempty"`
	DecidedAt         *time.Time                 `json:"decidedAt,omitempty"`
	Decisions         []ApprovalDecisionResponse `json:"decisions,omitempty"`
	CreatedAt         time.Time                  `json:"createdAt"`
}

// ToApprovalRequestResponse converts a domain request and optional decision
// history to the API representation.
func ToApprovalRequestResponse(r *domain.ApprovalRequest, decisions []domain.ApprovalDecision) ApprovalRequestResponse {
	resp := ApprovalRequestResponse{
		RequestID:         r.RequestID,
		EntryID:           r.EntryID,
		RequiredLevels:    r.RequiredLevels,
		CurrentLevel:      r.CurrentLevel,
		CurrentApproverID: r.CurrentApproverID,
		RequesterID:       r.RequesterID,
		Status:            string(r.Status),
		EscalationCount:   r.EscalationCount,
		EscalationReason:  r.EscalationReason,
		Comments:          r.Comments,
		DecidedAt:         r.DecidedAt,
		CreatedAt:         r.CreatedAt,
	}
	if len(decisions) > 0 {
		resp.Decisions = make([]ApprovalDecisionResponse, len(decisions))
		for i, d := range decisions {
			resp.Decisions[i] = ApprovalDecisionResponse{
				Level:       d.Level,
				ActorID:     d.ActorID,
				Action:      string(d.Action),
				Comments:    d.Comments,
				DelegatedTo: d.DelegatedTo,
				DecidedAt:   d.DecidedAt,
			}
		}
	}
	return resp
}

package dto

import "github.com/tallyworks/journal_engine/internal/core/domain"

// BatchRequest applies one operation to a list of entry identifiers.
type BatchRequest struct {
	Operation string   `json:"operation" binding:"required,oneof=POST REVERSE SUBMIT_APPROVAL APPROVE DELETE"`
	EntryIDs  []string `json:"entryIDs" binding:"required,min=1,max=500,dive,required"`
	// Reason is forwarded to reversals and as APPROVE decision comments.
	Reason string `json:"reason"`
	// ApproverID routes SUBMIT_APPROVAL operations.
	ApproverID string `json:"approverID"`
}

// BatchItemResponse is the isolated outcome for one entry.
type BatchItemResponse struct {
	EntryID      string `json:"entryID"`
	Succeeded    bool   `json:"succeeded"`
	Status       string `json:"status,omitempty"`
	ErrorKind    string `json:"errorKind,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// BatchResponse aggregates per-item outcomes in input order.
type BatchResponse struct {
	Operation string              `json:"operation"`
	Status    string              `json:"status"`
	Items     []BatchItemResponse `json:"items"`
}

// ToBatchResponse converts a domain batch result to the API representation.
func ToBatchResponse(r *domain.BatchResult) BatchResponse {
	resp := BatchResponse{
		Operation: string(r.Operation),
		Status:    string(r.Status),
		Items:     make([]BatchItemResponse, len(r.Items)),
	}
	for i, item := range r.Items {
		resp.Items[i] = BatchItemResponse{
			EntryID:      item.EntryID,
			Succeeded:    item.Succeeded,
			Status:       string(item.Status),
			ErrorKind:    item.ErrorKind,
			ErrorMessage: item.ErrorMessage,
		}
	}
	return resp
}

package domain

// BatchOperation is the single operation a batch applies to every entry.
type BatchOperation string

const (
	BatchPost           BatchOperation = "POST"
	BatchReverse        BatchOperation = "REVERSE"
	BatchSubmitApproval BatchOperation = "SUBMIT_APPROVAL"
	BatchApprove        BatchOperation = "APPROVE"
	BatchDelete         BatchOperation = "DELETE"
)

// BatchStatus is the aggregate outcome of a batch job.
type BatchStatus string

const (
	BatchPending  BatchStatus = "PENDING"
	BatchPartial  BatchStatus = "PARTIAL"
	BatchComplete BatchStatus = "COMPLETE"
)

// BatchItemResult is the isolated outcome for one entry in a batch. Either
// Status (success) or ErrorKind/ErrorMessage (failure) is populated.
type BatchItemResult struct {
	EntryID      string      `json:"entryID"`
	Succeeded    bool        `json:"succeeded"`
	Status       EntryStatus `json:"status,omitempty"` // Resulting status on success
	ErrorKind    string      `json:"errorKind,omitempty"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
}

// BatchResult aggregates per-item outcomes in input order. It is ephemeral and
// discarded once the caller retrieves it.
type BatchResult struct {
	Operation BatchOperation    `json:"operation"`
	Status    BatchStatus       `json:"status"`
	Items     []BatchItemResult `json:"items"`
}

// Finalize sets the aggregate status from the per-item outcomes.
func (b *BatchResult) Finalize() {
	b.Status = BatchComplete
	for _, item := range b.Items {
		if !item.Succeeded {
			b.Status = BatchPartial
			return
		}
	}
}

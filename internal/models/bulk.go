package models

// BulkOperationResult summarises a batch call. It is produced fresh per call
// and never persisted. Every requested id is accounted for exactly once:
// SuccessCount + FailureCount == TotalRequested.
type BulkOperationResult struct {
	SuccessCount   int      `json:"success_count"`
	FailureCount   int      `json:"failure_count"`
	TotalRequested int      `json:"total_requested"`
	Errors         []string `json:"errors,omitempty"`
}

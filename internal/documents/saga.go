package documents

// Outcome is the terminal state of an ingest across the blob and metadata stores.
type Outcome string

const (
	// OutcomeCommitted means both the blob and the record were written.
	OutcomeCommitted Outcome = "committed"
	// OutcomeCompensated means the record write failed and the blob was removed again.
	OutcomeCompensated Outcome = "compensated"
	// OutcomeFailed means nothing was committed. When OrphanKey is set the
	// compensating delete failed and that blob awaits reconciliation.
	OutcomeFailed Outcome = "failed"
)

// IngestResult reports what an ingest left behind.
type IngestResult struct {
	Document  Document
	Outcome   Outcome
	OrphanKey string
}

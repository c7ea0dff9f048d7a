package models

import "time"

// Bid is a generated proposal answering one RFP with one product. A bid
// exists only if matching succeeded and stock covered the quantity; it is
// immutable once committed.
type Bid struct {
	ID          string           `json:"id,omitempty"`
	RFPID       string           `json:"rfp_id"`
	Client      string           `json:"client,omitempty"`
	Product     Product          `json:"product"`
	Quantity    int              `json:"quantity"`
	Pricing     PricingBreakdown `json:"pricing"`
	Confidence  int              `json:"confidence"`
	Rationale   string           `json:"rationale"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// ProcessResult is the HTTP response body for a pipeline run: the run's
// outcome, the bid when one was assembled, and the full diagnostic trail.
type ProcessResult struct {
	Success bool            `json:"success"`
	Outcome PipelineOutcome `json:"outcome"`
	Bid     *Bid            `json:"bid"`
	Logs    []LogEntry      `json:"logs"`
}

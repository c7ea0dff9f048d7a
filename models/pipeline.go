package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtractedRequirements is the structured reading of an RFP produced by the
// extraction capability. It lives only for the duration of one pipeline run.
//
// Degraded marks the canned fallback produced when the model is unreachable
// or its output cannot be parsed. The fallback still carries the historical
// defaults (quantity 500, a sentinel requirement tag) so downstream output
// stays stable, but callers should check the flag instead of sniffing the
// sentinel string.
type ExtractedRequirements struct {
	Quantity     int      `json:"quantity"`
	Requirements []string `json:"requirements"`
	Budget       string   `json:"budget,omitempty"`
	Deadline     string   `json:"deadline,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	RawContent   string   `json:"-"`
	Degraded     bool     `json:"degraded"`
}

// MatchCandidate is one ranked product suggestion from the matching
// capability. Candidates arrive best-confidence-first.
type MatchCandidate struct {
	Product    Product `json:"product"`
	Confidence int     `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// PricingBreakdown carries the volume-discount calculation for a bid.
// All fields are derived by the pricing calculator; amounts are rounded to
// two decimal places when the breakdown is assembled.
type PricingBreakdown struct {
	BasePrice       decimal.Decimal `json:"base_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Total           decimal.Decimal `json:"total"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

// LogEntry is one structured diagnostic record emitted by a pipeline agent.
// Entries are for display only; the pipeline never reads them back.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Agent     string    `json:"agent"`
	Message   string    `json:"message"`
}

type PipelineOutcome string

const (
	// OutcomeAssembled means a bid was produced.
	OutcomeAssembled PipelineOutcome = "assembled"
	// OutcomeNoMatch means the matching capability returned no candidates.
	// This is a terminal non-error outcome.
	OutcomeNoMatch PipelineOutcome = "no_match"
	// OutcomeNoStock means the selected product could not cover the
	// requested quantity. Also terminal and non-error.
	OutcomeNoStock PipelineOutcome = "no_stock"
)

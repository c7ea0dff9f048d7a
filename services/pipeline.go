package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bidworks/rfp-api/models"
)

// Agent names used in run log entries.
const (
	AgentOrchestrator = "Orchestrator"
	AgentSales        = "Sales Agent"
	AgentTechnical    = "Technical Agent"
	AgentPricing      = "Pricing Agent"
)

// matchTopK is how many candidates the matching capability is asked for.
const matchTopK = 3

// RunLog is the per-run diagnostic sink passed through a pipeline
// invocation. Each run gets its own instance, so concurrent runs never share
// log state. An optional hook sees every entry as it is appended (used for
// the live websocket feed).
type RunLog struct {
	mu      sync.Mutex
	entries []models.LogEntry
	onEntry func(models.LogEntry)
}

func NewRunLog(onEntry func(models.LogEntry)) *RunLog {
	return &RunLog{onEntry: onEntry}
}

// Log appends a formatted entry attributed to agent.
func (l *RunLog) Log(agent, format string, args ...interface{}) {
	entry := models.LogEntry{
		Timestamp: time.Now(),
		Agent:     agent,
		Message:   fmt.Sprintf(format, args...),
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	hook := l.onEntry
	l.mu.Unlock()

	if hook != nil {
		hook(entry)
	}
}

// Entries returns a copy of everything logged so far.
func (l *RunLog) Entries() []models.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// PipelineResult is what one run produces: a terminal outcome, the bid draft
// when the outcome is assembled, and the diagnostic trail. The Bid is not
// yet persisted; committing it is the caller's job.
type PipelineResult struct {
	Outcome   models.PipelineOutcome
	Bid       *models.Bid
	Extracted models.ExtractedRequirements
	Logs      []models.LogEntry
}

// Orchestrator coordinates the agents through the fixed six-step sequence:
// extract, match, verify, stock check, price, assemble. Matching emptiness
// and insufficient stock short-circuit into non-error outcomes; only
// contract violations return an error.
type Orchestrator struct {
	extractor RequirementExtractor
	matcher   ProductMatcher
	pricing   *PricingAgent
}

func NewOrchestrator(extractor RequirementExtractor, matcher ProductMatcher, pricing *PricingAgent) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		matcher:   matcher,
		pricing:   pricing,
	}
}

// Run executes the pipeline for one RFP against a catalog snapshot. onEntry,
// when non-nil, observes log entries live.
func (o *Orchestrator) Run(ctx context.Context, rfp models.RFP, catalog []models.Product, onEntry func(models.LogEntry)) (*PipelineResult, error) {
	if len(catalog) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	rlog := NewRunLog(onEntry)
	rlog.Log(AgentOrchestrator, "Starting RFP processing workflow for %s...", rfp.ID)

	// Step 1: extraction. Never fails; worst case is a tagged default.
	extracted := o.extractor.Extract(ctx, rfp, rlog)
	if extracted.Degraded {
		rlog.Log(AgentOrchestrator, "Extraction capability degraded; continuing with defaults")
	}

	// Step 2: matching. Empty means no bid.
	matches := o.matcher.Match(ctx, rfp.Content, catalog, matchTopK, rlog)
	if len(matches) == 0 {
		rlog.Log(AgentOrchestrator, "No suitable products found")
		return &PipelineResult{
			Outcome:   models.OutcomeNoMatch,
			Extracted: extracted,
			Logs:      rlog.Entries(),
		}, nil
	}

	// Step 3: the capability returns best-first; the head wins ties.
	best := matches[0]
	o.matcher.VerifySpecs(best.Product, extracted.RawContent, rlog)

	// Step 4: stock gate against the snapshot.
	if !o.pricing.StockAvailable(best.Product, extracted.Quantity, rlog) {
		rlog.Log(AgentOrchestrator, "Insufficient stock for this bid")
		return &PipelineResult{
			Outcome:   models.OutcomeNoStock,
			Extracted: extracted,
			Logs:      rlog.Entries(),
		}, nil
	}

	// Step 5: pricing.
	pricing, err := o.pricing.Calculate(best.Product.Price, extracted.Quantity, rlog)
	if err != nil {
		return nil, err
	}

	// Step 6: assemble the bid draft.
	bid := &models.Bid{
		RFPID:       rfp.ID,
		Client:      rfp.Client,
		Product:     best.Product,
		Quantity:    extracted.Quantity,
		Pricing:     pricing,
		Confidence:  best.Confidence,
		Rationale:   best.Rationale,
		GeneratedAt: time.Now(),
	}

	rlog.Log(AgentOrchestrator, "Bid compilation complete. Ready for manager approval.")
	rlog.Log(AgentOrchestrator, "  Rationale: %s", best.Rationale)

	return &PipelineResult{
		Outcome:   models.OutcomeAssembled,
		Bid:       bid,
		Extracted: extracted,
		Logs:      rlog.Entries(),
	}, nil
}

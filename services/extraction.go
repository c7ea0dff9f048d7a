package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bidworks/rfp-api/models"
)

const (
	// fallbackQuantity is the canned quantity used when extraction degrades.
	fallbackQuantity = 500
	// degradedRequirementTag marks a degraded extraction in the requirement
	// list, kept for output compatibility with older consumers. New code
	// should look at the Degraded field instead.
	degradedRequirementTag = "(analysis unavailable)"
)

// textGenerator is the slice of LLMService the agents need. Tests substitute
// canned generators.
type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RequirementExtractor turns RFP free text into structured requirements.
// Implementations must not fail: any internal error degrades to a tagged
// default result.
type RequirementExtractor interface {
	Extract(ctx context.Context, rfp models.RFP, rlog *RunLog) models.ExtractedRequirements
}

// SalesAgent handles RFP intake and requirement extraction through the model.
type SalesAgent struct {
	llm textGenerator
}

func NewSalesAgent(llm textGenerator) *SalesAgent {
	return &SalesAgent{llm: llm}
}

type extractionPayload struct {
	Quantity     float64  `json:"quantity"`
	Requirements []string `json:"requirements"`
	Budget       string   `json:"budget"`
	Deadline     string   `json:"deadline"`
	Summary      string   `json:"summary"`
}

// Extract analyzes the RFP content. It never returns an error: when the
// model is unreachable or its output is unusable, the degraded default is
// returned with Degraded set.
func (a *SalesAgent) Extract(ctx context.Context, rfp models.RFP, rlog *RunLog) models.ExtractedRequirements {
	rlog.Log(AgentSales, "Received RFP %s from %s", rfp.ID, rfp.Client)
	rlog.Log(AgentSales, "Delegating analysis to the language model...")

	response, err := a.llm.Generate(ctx, buildExtractionPrompt(rfp.Content))
	if err != nil {
		rlog.Log(AgentSales, "Extraction degraded, using defaults: %v", err)
		return degradedRequirements(rfp.Content)
	}

	raw := extractJSONObject(stripFences(response))
	if raw == "" {
		rlog.Log(AgentSales, "No JSON object found in model output, using defaults")
		return degradedRequirements(rfp.Content)
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		rlog.Log(AgentSales, "Could not parse model output, using defaults: %v", err)
		return degradedRequirements(rfp.Content)
	}

	quantity := int(payload.Quantity)
	if quantity < 0 {
		rlog.Log(AgentSales, "Model returned negative quantity %d, using defaults", quantity)
		return degradedRequirements(rfp.Content)
	}

	rlog.Log(AgentSales, "Extracted quantity: %d liters", quantity)
	rlog.Log(AgentSales, "Extracted specs: %s", strings.Join(payload.Requirements, ", "))

	return models.ExtractedRequirements{
		Quantity:     quantity,
		Requirements: payload.Requirements,
		Budget:       payload.Budget,
		Deadline:     payload.Deadline,
		Summary:      payload.Summary,
		RawContent:   rfp.Content,
	}
}

func degradedRequirements(content string) models.ExtractedRequirements {
	return models.ExtractedRequirements{
		Quantity:     fallbackQuantity,
		Requirements: []string{degradedRequirementTag},
		RawContent:   content,
		Degraded:     true,
	}
}

func buildExtractionPrompt(content string) string {
	return fmt.Sprintf(`Analyze the following RFP text and extract structured data.

Example Output Format:
{
    "quantity": 1000,
    "requirements": ["high gloss", "weather resistant"],
    "budget": "$5000",
    "deadline": "2024-12-31",
    "summary": "Client needs 1000L of exterior paint."
}

Return ONLY a JSON object with these keys:
- quantity (integer, in liters)
- requirements (list of strings, key technical specs)
- budget (string or null)
- deadline (string or null)
- summary (string, 1 sentence summary)

RFP Text:
%s

Ensure valid JSON format. Do not use markdown code blocks.`, content)
}

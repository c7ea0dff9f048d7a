package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bidworks/rfp-api/models"
)

// fallbackConfidence is assigned to candidates recovered by the SKU-scan
// fallback and to parsed candidates missing a confidence value.
const fallbackConfidence = 70

const fallbackRationale = "Detected in model response (fallback match)"

// ProductMatcher ranks catalog products against RFP text. An empty result is
// a valid outcome meaning "no match or capability unavailable", never an
// error.
type ProductMatcher interface {
	Match(ctx context.Context, content string, products []models.Product, topK int, rlog *RunLog) []models.MatchCandidate
	VerifySpecs(product models.Product, requirements string, rlog *RunLog) bool
}

// TechnicalAgent matches products through the model, with layered fallbacks
// for the many ways small local models mangle structured output.
type TechnicalAgent struct {
	llm textGenerator
}

func NewTechnicalAgent(llm textGenerator) *TechnicalAgent {
	return &TechnicalAgent{llm: llm}
}

// rawCandidate mirrors a single model-suggested match. Confidence is a
// pointer so a missing field is distinguishable from zero.
type rawCandidate struct {
	SKU        string   `json:"sku"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

type wrappedCandidates struct {
	Matches []rawCandidate `json:"matches"`
}

// Match asks the model for the topK best products. Candidates referencing
// unknown SKUs are dropped; entries missing confidence or reasoning are
// default-filled. The returned slice is ordered best confidence first and
// may be empty.
func (a *TechnicalAgent) Match(ctx context.Context, content string, products []models.Product, topK int, rlog *RunLog) []models.MatchCandidate {
	if topK <= 0 {
		topK = 3
	}

	rlog.Log(AgentTechnical, "Asking model to match products against RFP requirements...")

	response, err := a.llm.Generate(ctx, buildMatchingPrompt(content, products, topK))
	if err != nil {
		rlog.Log(AgentTechnical, "Model call failed: %v", err)
		return nil
	}

	raws := parseCandidates(response, products, rlog)
	candidates := resolveCandidates(raws, products)

	// Stable sort keeps the model's order among equal confidences, so the
	// first-returned candidate still wins ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	if len(candidates) == 0 {
		rlog.Log(AgentTechnical, "Model returned no usable matches.")
		return nil
	}

	rlog.Log(AgentTechnical, "Model identified %d potential candidates.", len(candidates))
	for _, c := range candidates {
		rlog.Log(AgentTechnical, "  > %s: %s (%d%%)", c.Product.SKU, c.Rationale, c.Confidence)
	}
	return candidates
}

// VerifySpecs is a stub kept as the hook for real clause-by-clause
// verification; it currently always passes.
func (a *TechnicalAgent) VerifySpecs(product models.Product, requirements string, rlog *RunLog) bool {
	rlog.Log(AgentTechnical, "Verifying %s against requirements...", product.SKU)
	rlog.Log(AgentTechnical, "Verified by model assessment.")
	return true
}

// parseCandidates tries, in order: a JSON array, a JSON object (either a
// {"matches": [...]} wrapper or a single candidate), and finally a literal
// SKU scan over the raw response.
func parseCandidates(response string, products []models.Product, rlog *RunLog) []rawCandidate {
	cleaned := stripFences(response)

	if raw := extractJSONArray(cleaned); raw != "" {
		var list []rawCandidate
		if err := json.Unmarshal([]byte(raw), &list); err == nil && len(list) > 0 {
			return list
		}
	}

	if raw := extractJSONObject(cleaned); raw != "" {
		var wrapped wrappedCandidates
		if err := json.Unmarshal([]byte(raw), &wrapped); err == nil && len(wrapped.Matches) > 0 {
			return wrapped.Matches
		}

		var single rawCandidate
		if err := json.Unmarshal([]byte(raw), &single); err == nil && single.SKU != "" {
			return []rawCandidate{single}
		}
	}

	rlog.Log(AgentTechnical, "Structured output unusable, scanning response for SKUs...")
	var found []rawCandidate
	for _, p := range products {
		if strings.Contains(response, p.SKU) {
			found = append(found, rawCandidate{SKU: p.SKU})
		}
	}
	return found
}

// resolveCandidates maps raw candidates onto catalog products, silently
// dropping unknown SKUs and default-filling missing fields.
func resolveCandidates(raws []rawCandidate, products []models.Product) []models.MatchCandidate {
	bySKU := make(map[string]models.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU] = p
	}

	var candidates []models.MatchCandidate
	for _, raw := range raws {
		product, ok := bySKU[raw.SKU]
		if !ok {
			continue
		}

		confidence := fallbackConfidence
		if raw.Confidence != nil {
			confidence = int(*raw.Confidence)
		}
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 100 {
			confidence = 100
		}

		rationale := raw.Reasoning
		if rationale == "" {
			rationale = fallbackRationale
		}

		candidates = append(candidates, models.MatchCandidate{
			Product:    product,
			Confidence: confidence,
			Rationale:  rationale,
		})
	}
	return candidates
}

func buildMatchingPrompt(content string, products []models.Product, topK int) string {
	var catalog strings.Builder
	for _, p := range products {
		fmt.Fprintf(&catalog, "- SKU: %s, Name: %s, Specs: %s\n", p.SKU, p.Name, p.Specs)
	}

	return fmt.Sprintf(`Given the RFP below, select the top %d most suitable products from the catalog.

Example Output Format:
[
    {
        "sku": "PT-001",
        "confidence": 95,
        "reasoning": "Product matches specific requirement for exterior gloss."
    }
]

RFP Text:
%s

Product Catalog:
%s
Return ONLY a JSON array of objects. Each object must have:
- sku (string, matching the catalog)
- confidence (integer, 0-100)
- reasoning (string, why this product fits)

Ensure valid JSON format. Do not use markdown code blocks.`, topK, content, catalog.String())
}

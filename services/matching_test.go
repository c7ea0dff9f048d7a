package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidworks/rfp-api/models"
)

func testCatalog() []models.Product {
	return []models.Product{
		{SKU: "PT-001", Name: "Premium Exterior Gloss Paint", Price: decimal.RequireFromString("45.99"), Stock: 5000},
		{SKU: "CT-001", Name: "Marine Grade Protective Coating", Price: decimal.RequireFromString("125.00"), Stock: 1500},
		{SKU: "PT-004", Name: "High-Gloss Automotive Paint", Price: decimal.RequireFromString("67.80"), Stock: 4000},
	}
}

func TestMatchParsesJSONArray(t *testing.T) {
	agent := NewTechnicalAgent(&stubGenerator{response: `[
		{"sku": "CT-001", "confidence": 95, "reasoning": "Marine grade fits the hull coating requirement."},
		{"sku": "PT-001", "confidence": 60, "reasoning": "Exterior grade but not marine rated."}
	]`})

	got := agent.Match(context.Background(), "ship hull coating", testCatalog(), 3, NewRunLog(nil))

	require.Len(t, got, 2)
	assert.Equal(t, "CT-001", got[0].Product.SKU)
	assert.Equal(t, 95, got[0].Confidence)
	assert.Equal(t, "PT-001", got[1].Product.SKU)
}

func TestMatchUnwrapsMatchesObject(t *testing.T) {
	agent := NewTechnicalAgent(&stubGenerator{response: `{"matches": [
		{"sku": "PT-004", "confidence": 88, "reasoning": "Automotive grade."}
	]}`})

	got := agent.Match(context.Background(), "automotive paint", testCatalog(), 3, NewRunLog(nil))

	require.Len(t, got, 1)
	assert.Equal(t, "PT-004", got[0].Product.SKU)
	assert.Equal(t, 88, got[0].Confidence)
}

func TestMatchAcceptsSingleObject(t *testing.T) {
	agent := NewTechnicalAgent(&stubGenerator{response: `{"sku": "PT-001", "confidence": 72, "reasoning": "Best fit."}`})

	got := agent.Match(context.Background(), "exterior paint", testCatalog(), 3, NewRunLog(nil))

	require.Len(t, got, 1)
	assert.Equal(t, "PT-001", got[0].Product.SKU)
}

func TestMatchFallsBackToSKUScan(t *testing.T) {
	agent := NewTechnicalAgent(&stubGenerator{
		response: "Based on the requirements I would recommend CT-001 as the strongest option.",
	})

	got := agent.Match(context.Background(), "marine coating", testCatalog(), 3, NewRunLog(nil))

	require.Len(t, got, 1)
	assert.Equal(t, "CT-001", got[0].Product.SKU)
	assert.Equal(t, fallbackConfidence, got[0].Confidence)
	assert.Equal(t, fallbackRationale, got[0].Rationale)
}

func TestMatchDropsUnknownSKUs(t *testing.T) {
	agent := NewTechnicalAgent(&stubGenerator{response: `[
		{"sku": "XX-999", "confidence": 99, "reasoning": "Hallucinated."},
		{"sku": "PT-001", "confidence": 80, "reasoning": "Real."}
	]`})

	got := agent.Match(context.Background(), "paint", testCatalog(), 3, NewRunLog(nil))

	require.Len(t, got, 1)
	assert.Equal(t, "PT-001", got[0].Product.SKU)
}

func TestMatchDefaultFillsMissingFields(t *testing.T) {
	agent := NewTechnicalAgent(&stubGenerator{response: `[{"sku": "PT-001"}]`})

	got := agent.Match(context.Background(), "paint", testCatalog(), 3, NewRunLog(nil))

	require.Len(t, got, 1)
	assert.Equal(t, fallbackConfidence, got[0].Confidence)
	assert.Equal(t, fallbackRationale, got[0].Rationale)
}

func TestMatchClampsConfidence(t *testing.T) {
	agent := NewTechnicalAgent(&stubGenerator{response: `[
		{"sku": "PT-001", "confidence": 150, "reasoning": "Overconfident."},
		{"sku": "CT-001", "confidence": -20, "reasoning": "Undershoot."}
	]`})

	got := agent.Match(context.Background(), "paint", testCatalog(), 3, NewRunLog(nil))

	require.Len(t, got, 2)
	assert.Equal(t, 100, got[0].Confidence)
	assert.Equal(t, 0, got[1].Confidence)
}

func TestMatchCapsAtTopK(t *testing.T) {
	agent := NewTechnicalAgent(&stubGenerator{response: `[
		{"sku": "PT-001", "confidence": 90, "reasoning": "a"},
		{"sku": "CT-001", "confidence": 80, "reasoning": "b"},
		{"sku": "PT-004", "confidence": 70, "reasoning": "c"}
	]`})

	got := agent.Match(context.Background(), "paint", testCatalog(), 2, NewRunLog(nil))

	require.Len(t, got, 2)
	assert.Equal(t, "PT-001", got[0].Product.SKU)
	assert.Equal(t, "CT-001", got[1].Product.SKU)
}

func TestMatchOrdersByConfidenceStable(t *testing.T) {
	agent := NewTechnicalAgent(&stubGenerator{response: `[
		{"sku": "PT-001", "confidence": 70, "reasoning": "first at 70"},
		{"sku": "CT-001", "confidence": 90, "reasoning": "highest"},
		{"sku": "PT-004", "confidence": 70, "reasoning": "second at 70"}
	]`})

	got := agent.Match(context.Background(), "paint", testCatalog(), 3, NewRunLog(nil))

	require.Len(t, got, 3)
	assert.Equal(t, "CT-001", got[0].Product.SKU)
	// Ties keep the model's order.
	assert.Equal(t, "PT-001", got[1].Product.SKU)
	assert.Equal(t, "PT-004", got[2].Product.SKU)
}

func TestMatchEmptyOnModelError(t *testing.T) {
	agent := NewTechnicalAgent(&stubGenerator{err: errors.New("timeout")})

	got := agent.Match(context.Background(), "paint", testCatalog(), 3, NewRunLog(nil))

	assert.Empty(t, got)
}

func TestMatchEmptyOnUnusableOutput(t *testing.T) {
	agent := NewTechnicalAgent(&stubGenerator{response: "No catalog items mentioned here at all."})

	got := agent.Match(context.Background(), "paint", testCatalog(), 3, NewRunLog(nil))

	assert.Empty(t, got)
}

func TestVerifySpecsAlwaysPasses(t *testing.T) {
	agent := NewTechnicalAgent(&stubGenerator{})

	ok := agent.VerifySpecs(testCatalog()[0], "any requirements", NewRunLog(nil))

	assert.True(t, ok)
}

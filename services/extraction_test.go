package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bidworks/rfp-api/models"
)

// stubGenerator returns a canned model response, or an error.
type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func testRFP() models.RFP {
	return models.RFP{
		ID:      "RFP-2024-001",
		Client:  "Coastal Construction Ltd",
		Content: "We require 500 liters of high-gloss exterior paint.",
		Status:  models.RFPStatusPending,
	}
}

func TestExtractParsesModelOutput(t *testing.T) {
	agent := NewSalesAgent(&stubGenerator{response: `{
		"quantity": 800,
		"requirements": ["marine grade", "saltwater resistant"],
		"budget": "$100,000",
		"deadline": "2024-09-30",
		"summary": "Client needs 800L of marine coating."
	}`})

	got := agent.Extract(context.Background(), testRFP(), NewRunLog(nil))

	assert.False(t, got.Degraded)
	assert.Equal(t, 800, got.Quantity)
	assert.Equal(t, []string{"marine grade", "saltwater resistant"}, got.Requirements)
	assert.Equal(t, "$100,000", got.Budget)
	assert.Equal(t, "2024-09-30", got.Deadline)
}

func TestExtractStripsMarkdownFences(t *testing.T) {
	agent := NewSalesAgent(&stubGenerator{response: "```json\n" +
		`{"quantity": 1200, "requirements": ["fast-dry"], "summary": "ok"}` + "\n```"})

	got := agent.Extract(context.Background(), testRFP(), NewRunLog(nil))

	assert.False(t, got.Degraded)
	assert.Equal(t, 1200, got.Quantity)
}

func TestExtractDegradesOnModelError(t *testing.T) {
	agent := NewSalesAgent(&stubGenerator{err: errors.New("connection refused")})
	rfp := testRFP()

	got := agent.Extract(context.Background(), rfp, NewRunLog(nil))

	assert.True(t, got.Degraded)
	assert.Equal(t, fallbackQuantity, got.Quantity)
	assert.Equal(t, []string{degradedRequirementTag}, got.Requirements)
	assert.Equal(t, rfp.Content, got.RawContent)
}

func TestExtractDegradesOnGarbageOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no json at all", "I am sorry, I cannot help with that."},
		{"broken json", `{"quantity": 500, "requirements": [`},
		{"negative quantity", `{"quantity": -10, "requirements": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := NewSalesAgent(&stubGenerator{response: tt.response})

			got := agent.Extract(context.Background(), testRFP(), NewRunLog(nil))

			assert.True(t, got.Degraded)
			assert.Equal(t, fallbackQuantity, got.Quantity)
		})
	}
}

func TestExtractLogsUnderSalesAgent(t *testing.T) {
	agent := NewSalesAgent(&stubGenerator{response: `{"quantity": 100, "requirements": []}`})
	rlog := NewRunLog(nil)

	agent.Extract(context.Background(), testRFP(), rlog)

	entries := rlog.Entries()
	assert.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, AgentSales, e.Agent)
		assert.False(t, e.Timestamp.IsZero())
	}
}

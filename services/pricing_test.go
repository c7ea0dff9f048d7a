package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidworks/rfp-api/models"
)

func TestCalculateDiscountTiers(t *testing.T) {
	agent := NewPricingAgent()
	unitPrice := decimal.NewFromInt(100)

	tests := []struct {
		name        string
		quantity    int
		wantPercent string
		wantTotal   string
	}{
		{"below first tier", 499, "0.0", "49900.00"},
		{"first tier boundary", 500, "5.0", "47500.00"},
		{"inside first tier", 999, "5.0", "94905.00"},
		{"second tier boundary", 1000, "10.0", "90000.00"},
		{"inside second tier", 1999, "10.0", "179910.00"},
		{"top tier boundary", 2000, "15.0", "170000.00"},
		{"far above top tier", 10000, "15.0", "850000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breakdown, err := agent.Calculate(unitPrice, tt.quantity, NewRunLog(nil))
			require.NoError(t, err)

			assert.Equal(t, tt.wantPercent, breakdown.DiscountPercent.StringFixed(1))
			assert.Equal(t, tt.wantTotal, breakdown.Total.StringFixed(2))
			assert.True(t, breakdown.BasePrice.Sub(breakdown.DiscountAmount).Equal(breakdown.Total),
				"total must equal base minus discount")
		})
	}
}

func TestCalculateExactAmounts(t *testing.T) {
	agent := NewPricingAgent()

	// 500L of exterior gloss at $45.99: 5% tier.
	breakdown, err := agent.Calculate(decimal.RequireFromString("45.99"), 500, NewRunLog(nil))
	require.NoError(t, err)

	assert.Equal(t, "22995.00", breakdown.BasePrice.StringFixed(2))
	assert.Equal(t, "5.0", breakdown.DiscountPercent.StringFixed(1))
	assert.Equal(t, "1149.75", breakdown.DiscountAmount.StringFixed(2))
	assert.Equal(t, "21845.25", breakdown.Total.StringFixed(2))
	assert.Equal(t, "45.99", breakdown.UnitPrice.StringFixed(2))
}

func TestCalculateZeroQuantity(t *testing.T) {
	agent := NewPricingAgent()

	breakdown, err := agent.Calculate(decimal.RequireFromString("45.99"), 0, NewRunLog(nil))
	require.NoError(t, err)

	assert.True(t, breakdown.BasePrice.IsZero())
	assert.True(t, breakdown.DiscountAmount.IsZero())
	assert.True(t, breakdown.Total.IsZero())
	assert.True(t, breakdown.DiscountPercent.IsZero())
}

func TestCalculateNegativeQuantity(t *testing.T) {
	agent := NewPricingAgent()

	_, err := agent.Calculate(decimal.NewFromInt(10), -5, NewRunLog(nil))
	assert.Error(t, err)
}

func TestStockAvailable(t *testing.T) {
	agent := NewPricingAgent()
	product := models.Product{SKU: "PT-001", Stock: 500}

	assert.True(t, agent.StockAvailable(product, 499, NewRunLog(nil)))
	assert.True(t, agent.StockAvailable(product, 500, NewRunLog(nil)))
	assert.False(t, agent.StockAvailable(product, 501, NewRunLog(nil)))
}

func TestCalculateLogsBreakdown(t *testing.T) {
	agent := NewPricingAgent()
	rlog := NewRunLog(nil)

	_, err := agent.Calculate(decimal.NewFromInt(100), 2000, rlog)
	require.NoError(t, err)

	entries := rlog.Entries()
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, AgentPricing, e.Agent)
	}
}

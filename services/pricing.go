package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bidworks/rfp-api/models"
)

// discountTiers are evaluated top-down; the first threshold the quantity
// reaches wins. Non-cumulative.
var discountTiers = []struct {
	threshold int
	rate      decimal.Decimal
}{
	{2000, decimal.NewFromFloat(0.15)},
	{1000, decimal.NewFromFloat(0.10)},
	{500, decimal.NewFromFloat(0.05)},
}

// PricingAgent computes volume-discounted pricing and gates on stock.
// Calculate is pure; StockAvailable only reads the snapshot it is given.
type PricingAgent struct{}

func NewPricingAgent() *PricingAgent {
	return &PricingAgent{}
}

// Calculate prices quantity units at unitPrice. Quantity zero is a valid
// all-zeros breakdown; negative quantity is a caller contract violation.
// Amounts are exact until the final rounding into the breakdown.
func (a *PricingAgent) Calculate(unitPrice decimal.Decimal, quantity int, rlog *RunLog) (models.PricingBreakdown, error) {
	if quantity < 0 {
		return models.PricingBreakdown{}, fmt.Errorf("quantity must not be negative, got %d", quantity)
	}

	rlog.Log(AgentPricing, "Calculating costs and applying volume discounts...")

	base := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	rlog.Log(AgentPricing, "Base cost: $%s (%dL x $%s/L)", base.StringFixed(2), quantity, unitPrice.StringFixed(2))

	rate := decimal.Zero
	for _, tier := range discountTiers {
		if quantity >= tier.threshold {
			rate = tier.rate
			break
		}
	}

	discountAmount := base.Mul(rate)
	total := base.Sub(discountAmount)

	if rate.IsPositive() {
		rlog.Log(AgentPricing, "Volume discount applied: %s%% ($%s)",
			rate.Mul(decimal.NewFromInt(100)).StringFixed(1), discountAmount.StringFixed(2))
	} else {
		rlog.Log(AgentPricing, "No volume discount applicable")
	}
	rlog.Log(AgentPricing, "Final bid total: $%s", total.StringFixed(2))

	return models.PricingBreakdown{
		BasePrice:       base.Round(2),
		DiscountPercent: rate.Mul(decimal.NewFromInt(100)).Round(1),
		DiscountAmount:  discountAmount.Round(2),
		Total:           total.Round(2),
		UnitPrice:       unitPrice,
	}, nil
}

// StockAvailable reports whether the product snapshot covers the quantity.
// Read-only; the authoritative reservation happens at commit time.
func (a *PricingAgent) StockAvailable(product models.Product, quantity int, rlog *RunLog) bool {
	available := product.Stock >= quantity

	if available {
		rlog.Log(AgentPricing, "Stock available: %dL in inventory", product.Stock)
	} else {
		rlog.Log(AgentPricing, "Insufficient stock: need %dL, only %dL available", quantity, product.Stock)
	}

	return available
}

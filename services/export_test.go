package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidworks/rfp-api/models"
)

func sampleBid() *models.Bid {
	return &models.Bid{
		ID:       "7a318cde-9f07-4a41-b2a4-2e9a4d1f2c55",
		RFPID:    "RFP-2024-002",
		Client:   "Marine Industries Corp",
		Quantity: 800,
		Product: models.Product{
			SKU:   "CT-001",
			Name:  "Marine Grade Protective Coating",
			Specs: "Saltwater-resistant, high-durability, weatherproof, marine grade",
			Price: decimal.RequireFromString("125.00"),
			Stock: 1500,
		},
		Pricing: models.PricingBreakdown{
			BasePrice:       decimal.RequireFromString("100000.00"),
			DiscountPercent: decimal.RequireFromString("5.0"),
			DiscountAmount:  decimal.RequireFromString("5000.00"),
			Total:           decimal.RequireFromString("95000.00"),
			UnitPrice:       decimal.RequireFromString("125.00"),
		},
		Confidence:  95,
		Rationale:   "Marine grade coating matches hull requirements.",
		GeneratedAt: time.Date(2024, 12, 10, 14, 30, 0, 0, time.UTC),
	}
}

func TestBidSummaryContents(t *testing.T) {
	summary := NewExportService().BidSummary(sampleBid())

	assert.Contains(t, summary, "RFP-2024-002")
	assert.Contains(t, summary, "Marine Industries Corp")
	assert.Contains(t, summary, "CT-001")
	assert.Contains(t, summary, "800 liters")
	assert.Contains(t, summary, "$125.00 per liter")
	assert.Contains(t, summary, "5.0% ($5000.00)")
	assert.Contains(t, summary, "TOTAL BID:           $95000.00")
	assert.Contains(t, summary, "Confidence Score:    95%")
}

func TestBidPDFRenders(t *testing.T) {
	data, err := NewExportService().BidPDF(sampleBid())
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output must be a PDF document")
}

func TestCatalogCSV(t *testing.T) {
	products := []models.Product{
		{SKU: "PT-001", Name: "Premium Exterior Gloss Paint",
			Specs: "Water-resistant, high-gloss", Price: decimal.RequireFromString("45.99"), Stock: 5000},
		{SKU: "SV-002", Name: "Paint Thinner Professional Grade",
			Specs: "Quick-dry formula", Price: decimal.RequireFromString("28.50"), Stock: 6000},
	}

	data, err := NewExportService().CatalogCSV(products)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"SKU", "Product_Name", "Technical_Specs", "Unit_Price", "Stock_Level"}, records[0])
	assert.Equal(t, []string{"PT-001", "Premium Exterior Gloss Paint", "Water-resistant, high-gloss", "45.99", "5000"}, records[1])
	assert.Equal(t, []string{"SV-002", "Paint Thinner Professional Grade", "Quick-dry formula", "28.50", "6000"}, records[2])
}

func TestCatalogXLSX(t *testing.T) {
	products := []models.Product{
		{SKU: "PT-001", Name: "Premium Exterior Gloss Paint",
			Specs: "Water-resistant", Price: decimal.RequireFromString("45.99"), Stock: 5000},
	}

	data, err := NewExportService().CatalogXLSX(products)
	require.NoError(t, err)

	// XLSX files are zip archives.
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "output must be a zip-based workbook")
}

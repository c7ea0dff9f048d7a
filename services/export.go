package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/bidworks/rfp-api/models"
)

// ExportService renders bids and the catalog into downloadable formats.
// Everything is built in memory; handlers stream the bytes with the right
// content type.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

func (s *ExportService) BidSummary(bid *models.Bid) string {
	var b strings.Builder
	line := strings.Repeat("-", 80)

	b.WriteString("BID PROPOSAL SUMMARY\n")
	b.WriteString(line + "\n\n")
	fmt.Fprintf(&b, "RFP ID:              %s\n", bid.RFPID)
	fmt.Fprintf(&b, "Client:              %s\n", bid.Client)
	fmt.Fprintf(&b, "Generated:           %s\n\n", bid.GeneratedAt.Format("2006-01-02 15:04:05"))

	b.WriteString(line + "\n")
	b.WriteString("PRODUCT DETAILS\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "SKU:                 %s\n", bid.Product.SKU)
	fmt.Fprintf(&b, "Product:             %s\n", bid.Product.Name)
	fmt.Fprintf(&b, "Specifications:      %s\n", bid.Product.Specs)
	fmt.Fprintf(&b, "Quantity:            %d liters\n\n", bid.Quantity)

	b.WriteString(line + "\n")
	b.WriteString("PRICING BREAKDOWN\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Unit Price:          $%s per liter\n", bid.Pricing.UnitPrice.StringFixed(2))
	fmt.Fprintf(&b, "Base Price:          $%s\n", bid.Pricing.BasePrice.StringFixed(2))
	fmt.Fprintf(&b, "Discount:            %s%% ($%s)\n\n",
		bid.Pricing.DiscountPercent.StringFixed(1), bid.Pricing.DiscountAmount.StringFixed(2))
	fmt.Fprintf(&b, "TOTAL BID:           $%s\n", bid.Pricing.Total.StringFixed(2))
	b.WriteString(line + "\n\n")

	fmt.Fprintf(&b, "Confidence Score:    %d%%\n", bid.Confidence)
	fmt.Fprintf(&b, "Stock Available:     %d liters\n", bid.Product.Stock)
	return b.String()
}

// BidPDF renders a four-section bid proposal document.
func (s *ExportService) BidPDF(bid *models.Bid) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, "Bid Proposal", "", 1, "C", false, 0, "")
		pdf.Ln(2)
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, title, "", 1, "", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
	}
	row := func(format string, args ...interface{}) {
		pdf.CellFormat(0, 6, fmt.Sprintf(format, args...), "", 1, "", false, 0, "")
	}

	section("RFP Details")
	row("RFP ID: %s", bid.RFPID)
	row("Client: %s", bid.Client)
	row("Generated At: %s", bid.GeneratedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(4)

	section("Product Details")
	pdf.MultiCell(0, 6, fmt.Sprintf("SKU: %s", bid.Product.SKU), "", "", false)
	pdf.MultiCell(0, 6, fmt.Sprintf("Product: %s", bid.Product.Name), "", "", false)
	pdf.MultiCell(0, 6, fmt.Sprintf("Specifications: %s", bid.Product.Specs), "", "", false)
	row("Quantity: %d liters", bid.Quantity)
	pdf.Ln(4)

	section("Pricing Breakdown")
	row("Unit Price: $%s per liter", bid.Pricing.UnitPrice.StringFixed(2))
	row("Base Price: $%s", bid.Pricing.BasePrice.StringFixed(2))
	row("Discount: %s%% ($%s)", bid.Pricing.DiscountPercent.StringFixed(1),
		bid.Pricing.DiscountAmount.StringFixed(2))
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Bid: $%s", bid.Pricing.Total.StringFixed(2)),
		"", 1, "", false, 0, "")
	pdf.Ln(4)

	section("Technical Match & Notes")
	row("Match Confidence: %d%%", bid.Confidence)
	row("Stock Available: %d liters", bid.Product.Stock)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Match Rationale:", "", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 5, bid.Rationale, "", "", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 5, "Note: This is an auto-generated bid based on current catalog, "+
		"stock levels, and configured discount rules. "+
		"Final approval is required from the Sales Manager.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render bid pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExportService) CatalogCSV(products []models.Product) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"SKU", "Product_Name", "Technical_Specs", "Unit_Price", "Stock_Level"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, p := range products {
		record := []string{p.SKU, p.Name, p.Specs, p.Price.StringFixed(2), strconv.Itoa(p.Stock)}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExportService) CatalogXLSX(products []models.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalog"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"SKU", "Product Name", "Technical Specs", "Unit Price", "Stock Level"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, p := range products {
		price, _ := p.Price.Float64()
		values := []interface{}{p.SKU, p.Name, p.Specs, price, p.Stock}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

package models

import "github.com/shopspring/decimal"

// Product is a catalog item. The catalog is read-only for the pipeline; the
// only mutation path for stock is the conditional decrement performed when a
// bid is committed.
type Product struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Specs string          `json:"specs"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bidworks/rfp-api/models"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogService reads the product catalog. Products are seeded once and
// never edited through this service; stock changes only via BidService.
type CatalogService struct {
	db *sql.DB
}

func NewCatalogService(db *sql.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sku, name, specs, price, stock
		FROM products
		ORDER BY sku
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.SKU, &p.Name, &p.Specs, &p.Price, &p.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *CatalogService) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT sku, name, specs, price, stock
		FROM products
		WHERE sku = $1
	`, sku).Scan(&p.SKU, &p.Name, &p.Specs, &p.Price, &p.Stock)

	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return &p, nil
}

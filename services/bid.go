package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bidworks/rfp-api/models"
	"github.com/bidworks/rfp-api/utils"
)

var (
	ErrBidNotFound       = errors.New("bid not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type BidService struct {
	db *sql.DB
}

func NewBidService(db *sql.DB) *BidService {
	return &BidService{db: db}
}

// CommitBid persists a pipeline draft. Stock is decremented with a
// conditional update inside the same transaction, so two concurrent runs
// against the same product cannot both win the last units; the loser gets
// ErrInsufficientStock and the pipeline reports a no-stock outcome.
func (s *BidService) CommitBid(ctx context.Context, bid *models.Bid) error {
	if bid.ID == "" {
		bid.ID = uuid.New().String()
	}

	pricingJSON, err := json.Marshal(bid.Pricing)
	if err != nil {
		return fmt.Errorf("failed to marshal pricing: %w", err)
	}

	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1
			WHERE sku = $2 AND stock >= $1
		`, bid.Quantity, bid.Product.SKU)
		if err != nil {
			return fmt.Errorf("failed to reserve stock: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check stock update: %w", err)
		}
		if affected == 0 {
			return ErrInsufficientStock
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO bids (id, rfp_id, product_sku, quantity, pricing, confidence, rationale, generated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, bid.ID, bid.RFPID, bid.Product.SKU, bid.Quantity, pricingJSON,
			bid.Confidence, bid.Rationale, bid.GeneratedAt)
		if err != nil {
			return fmt.Errorf("failed to insert bid: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE rfps SET status = $1 WHERE id = $2
		`, models.RFPStatusProcessed, bid.RFPID)
		if err != nil {
			return fmt.Errorf("failed to mark rfp processed: %w", err)
		}
		return nil
	})
}

const bidSelect = `
	SELECT b.id, b.rfp_id, r.client, b.quantity, b.pricing, b.confidence,
	       b.rationale, b.generated_at,
	       p.sku, p.name, p.specs, p.price, p.stock
	FROM bids b
	JOIN rfps r ON r.id = b.rfp_id
	JOIN products p ON p.sku = b.product_sku
`

func scanBid(row interface{ Scan(...interface{}) error }) (*models.Bid, error) {
	var b models.Bid
	var pricingRaw []byte
	err := row.Scan(&b.ID, &b.RFPID, &b.Client, &b.Quantity, &pricingRaw,
		&b.Confidence, &b.Rationale, &b.GeneratedAt,
		&b.Product.SKU, &b.Product.Name, &b.Product.Specs,
		&b.Product.Price, &b.Product.Stock)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(pricingRaw, &b.Pricing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pricing for bid %s: %w", b.ID, err)
	}
	return &b, nil
}

func (s *BidService) List(ctx context.Context) ([]models.Bid, error) {
	rows, err := s.db.QueryContext(ctx, bidSelect+` ORDER BY b.generated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bids: %w", err)
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, *b)
	}
	return bids, rows.Err()
}

func (s *BidService) GetByID(ctx context.Context, id string) (*models.Bid, error) {
	b, err := scanBid(s.db.QueryRowContext(ctx, bidSelect+` WHERE b.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, ErrBidNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bid: %w", err)
	}
	return b, nil
}

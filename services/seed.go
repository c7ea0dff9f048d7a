package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/bidworks/rfp-api/config"
	"github.com/bidworks/rfp-api/models"
	"github.com/bidworks/rfp-api/utils"
)

// SeedDemoData loads the demo catalog, demo RFPs and a default admin user
// into an empty database. Tables that already hold rows are left alone, so
// restarts never duplicate or reset demo state.
func SeedDemoData(ctx context.Context, db *sql.DB) error {
	log := config.GetLogger()

	seeded, err := seedProducts(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if seeded > 0 {
		log.Infof("Seeded %d demo products", seeded)
	}

	seeded, err = seedRFPs(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to seed rfps: %w", err)
	}
	if seeded > 0 {
		log.Infof("Seeded %d demo RFPs", seeded)
	}

	if err := seedAdminUser(ctx, db); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}

func demoProducts() []models.Product {
	price := decimal.RequireFromString
	return []models.Product{
		{SKU: "PT-001", Name: "Premium Exterior Gloss Paint",
			Specs: "Water-resistant, high-gloss, UV protection, exterior grade",
			Price: price("45.99"), Stock: 5000},
		{SKU: "PT-002", Name: "Industrial Anti-Corrosion Coating",
			Specs: "High-viscosity, rust-proof, industrial grade, chemical resistant",
			Price: price("89.50"), Stock: 3000},
		{SKU: "PT-003", Name: "Eco-Friendly Interior Paint",
			Specs: "Low-VOC, matte finish, interior use, quick-dry",
			Price: price("38.75"), Stock: 8000},
		{SKU: "SV-001", Name: "Heavy-Duty Industrial Solvent",
			Specs: "Fast-evaporating, industrial grade, multi-purpose cleaner",
			Price: price("52.30"), Stock: 2500},
		{SKU: "CT-001", Name: "Marine Grade Protective Coating",
			Specs: "Saltwater-resistant, high-durability, weatherproof, marine grade",
			Price: price("125.00"), Stock: 1500},
		{SKU: "PT-004", Name: "High-Gloss Automotive Paint",
			Specs: "High-gloss, fast-dry, automotive grade, color-stable",
			Price: price("67.80"), Stock: 4000},
		{SKU: "PT-005", Name: "Warehouse Floor Epoxy Coating",
			Specs: "Industrial strength, chemical resistant, non-slip, heavy-traffic",
			Price: price("95.25"), Stock: 2200},
		{SKU: "SV-002", Name: "Paint Thinner Professional Grade",
			Specs: "Quick-dry formula, low odor, professional grade",
			Price: price("28.50"), Stock: 6000},
		{SKU: "PT-006", Name: "Fire-Resistant Industrial Coating",
			Specs: "Flame-retardant, high-temperature resistant, industrial grade",
			Price: price("156.00"), Stock: 1200},
		{SKU: "CT-002", Name: "Waterproofing Membrane Coating",
			Specs: "100% waterproof, flexible, crack-bridging, long-lasting",
			Price: price("78.90"), Stock: 3500},
	}
}

func demoRFPs() []models.RFP {
	return []models.RFP{
		{ID: "RFP-2024-001", Client: "Coastal Construction Ltd",
			Content: "We require 500 liters of high-gloss exterior paint suitable for coastal conditions. " +
				"Must be weather-resistant and UV protected. Delivery needed by Q3 2024.",
			Date: "2024-12-01", Status: models.RFPStatusPending},
		{ID: "RFP-2024-002", Client: "Marine Industries Corp",
			Content: "Looking for 800 liters of marine-grade protective coating for ship hulls. " +
				"Must be saltwater-resistant and highly durable. Budget: $100,000.",
			Date: "2024-12-03", Status: models.RFPStatusPending},
		{ID: "RFP-2024-003", Client: "AutoTech Manufacturing",
			Content: "Need 1200 liters of automotive-grade high-gloss paint for production line. " +
				"Fast-dry formula essential. Delivery within 30 days.",
			Date: "2024-12-05", Status: models.RFPStatusPending},
		{ID: "RFP-2024-004", Client: "Industrial Warehouse Solutions",
			Content: "Require 2000 liters of epoxy floor coating for warehouse facility. " +
				"Must be chemical resistant and suitable for heavy forklift traffic.",
			Date: "2024-12-07", Status: models.RFPStatusPending},
		{ID: "RFP-2024-005", Client: "FireSafe Construction",
			Content: "Need 600 liters of fire-resistant coating for industrial building project. " +
				"Must meet fire safety regulations and high-temperature specifications.",
			Date: "2024-12-09", Status: models.RFPStatusPending},
	}
}

func seedProducts(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	products := demoProducts()
	err := utils.WithTransaction(db, func(tx *sql.Tx) error {
		for _, p := range products {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO products (sku, name, specs, price, stock)
				VALUES ($1, $2, $3, $4, $5)
			`, p.SKU, p.Name, p.Specs, p.Price, p.Stock)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

func seedRFPs(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rfps`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	rfps := demoRFPs()
	err := utils.WithTransaction(db, func(tx *sql.Tx) error {
		for _, r := range rfps {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO rfps (id, client, content, date, status)
				VALUES ($1, $2, $3, $4, $5)
			`, r.ID, r.Client, r.Content, r.Date, r.Status)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rfps), nil
}

func seedAdminUser(ctx context.Context, db *sql.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = $1`, email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
	`, email, hash, "Administrator")
	if err != nil {
		return err
	}
	config.GetLogger().Infof("Seeded admin user %s", email)
	return nil
}

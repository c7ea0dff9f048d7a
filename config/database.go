package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS products (
			sku VARCHAR(32) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			specs TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL CHECK (price > 0),
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0)
		)`,

		`CREATE TABLE IF NOT EXISTS rfps (
			id VARCHAR(32) PRIMARY KEY,
			client VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			date VARCHAR(32) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending'
		)`,

		`CREATE TABLE IF NOT EXISTS bids (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			rfp_id VARCHAR(32) NOT NULL REFERENCES rfps(id) ON DELETE CASCADE,
			product_sku VARCHAR(32) NOT NULL REFERENCES products(sku),
			quantity INTEGER NOT NULL CHECK (quantity >= 0),
			pricing JSONB NOT NULL,
			confidence INTEGER NOT NULL,
			rationale TEXT NOT NULL DEFAULT '',
			generated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bids_rfp_id ON bids(rfp_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bids_product_sku ON bids(product_sku)`,
		`CREATE INDEX IF NOT EXISTS idx_rfps_status ON rfps(status)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}

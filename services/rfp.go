package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/bidworks/rfp-api/models"
)

var ErrRFPNotFound = errors.New("rfp not found")

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, e.g. two uploads racing for the same allocated id.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

type RFPService struct {
	db *sql.DB
}

func NewRFPService(db *sql.DB) *RFPService {
	return &RFPService{db: db}
}

func (s *RFPService) List(ctx context.Context) ([]models.RFP, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client, content, date, status
		FROM rfps
		ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rfps: %w", err)
	}
	defer rows.Close()

	var rfps []models.RFP
	for rows.Next() {
		var r models.RFP
		if err := rows.Scan(&r.ID, &r.Client, &r.Content, &r.Date, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan rfp: %w", err)
		}
		rfps = append(rfps, r)
	}
	return rfps, rows.Err()
}

func (s *RFPService) GetByID(ctx context.Context, id string) (*models.RFP, error) {
	var r models.RFP
	err := s.db.QueryRowContext(ctx, `
		SELECT id, client, content, date, status
		FROM rfps
		WHERE id = $1
	`, id).Scan(&r.ID, &r.Client, &r.Content, &r.Date, &r.Status)

	if err == sql.ErrNoRows {
		return nil, ErrRFPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rfp: %w", err)
	}
	return &r, nil
}

// Create stores an uploaded RFP. The id must come from NextID so uploads
// keep the RFP-<year>-NNN numbering used by the seed data.
func (s *RFPService) Create(ctx context.Context, rfp *models.RFP) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rfps (id, client, content, date, status)
		VALUES ($1, $2, $3, $4, $5)
	`, rfp.ID, rfp.Client, rfp.Content, rfp.Date, rfp.Status)
	if err != nil {
		return fmt.Errorf("failed to insert rfp: %w", err)
	}
	return nil
}

// NextID allocates the next id in the RFP-<year>-NNN sequence for the
// current year. Concurrent uploads may collide on the unique constraint;
// callers retry on conflict.
func (s *RFPService) NextID(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("RFP-%d-", year)

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rfps WHERE id LIKE $1
	`, prefix+"%").Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count rfps: %w", err)
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

func (s *RFPService) UpdateStatus(ctx context.Context, id string, status models.RFPStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid rfp status %q", status)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE rfps SET status = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update rfp status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrRFPNotFound
	}
	return nil
}

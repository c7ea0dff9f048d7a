package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/bidworks/rfp-api/models"
)

type AnalyticsHandler struct {
	DB *sql.DB
}

type statusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type analyticsResponse struct {
	TotalRFPs          int             `json:"total_rfps"`
	TotalValue         decimal.Decimal `json:"total_value"`
	ApprovalRate       decimal.Decimal `json:"approval_rate"`
	AvgConfidence      decimal.Decimal `json:"avg_confidence"`
	StatusDistribution []statusCount   `json:"status_distribution"`
}

// GetAnalytics aggregates dashboard figures. Bid totals live inside the
// pricing JSONB column, so the sum is computed by Postgres with a cast.
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	var totalRFPs int
	if err := h.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM rfps`).Scan(&totalRFPs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	var totalValue decimal.Decimal
	err := h.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM((pricing->>'total')::numeric), 0) FROM bids
	`).Scan(&totalValue)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	var avgConfidence decimal.Decimal
	err = h.DB.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(confidence), 0) FROM bids
	`).Scan(&avgConfidence)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	var approvedCount int
	err = h.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rfps WHERE status = $1
	`, models.RFPStatusApproved).Scan(&approvedCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	approvalRate := decimal.Zero
	if totalRFPs > 0 {
		approvalRate = decimal.NewFromInt(int64(approvedCount)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(totalRFPs)))
	}

	distribution, err := h.statusDistribution(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, analyticsResponse{
		TotalRFPs:          totalRFPs,
		TotalValue:         totalValue.Round(2),
		ApprovalRate:       approvalRate.Round(1),
		AvgConfidence:      avgConfidence.Round(1),
		StatusDistribution: distribution,
	})
}

func (h *AnalyticsHandler) statusDistribution(ctx context.Context) ([]statusCount, error) {
	counts := map[models.RFPStatus]int{}
	rows, err := h.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM rfps GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status models.RFPStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Fixed presentation order so every status appears even at zero.
	order := []struct {
		status models.RFPStatus
		label  string
	}{
		{models.RFPStatusPending, "Pending"},
		{models.RFPStatusProcessed, "Processed"},
		{models.RFPStatusApproved, "Approved"},
		{models.RFPStatusRejected, "Rejected"},
	}
	distribution := make([]statusCount, 0, len(order))
	for _, o := range order {
		distribution = append(distribution, statusCount{Name: o.label, Value: counts[o.status]})
	}
	return distribution, nil
}

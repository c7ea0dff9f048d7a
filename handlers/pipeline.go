package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bidworks/rfp-api/config"
	"github.com/bidworks/rfp-api/models"
	"github.com/bidworks/rfp-api/services"
)

type PipelineHandler struct {
	Orchestrator *services.Orchestrator
	RFPs         *services.RFPService
	Catalog      *services.CatalogService
	Bids         *services.BidService
	WS           *WSHandler
}

// ProcessRFP runs the full bid pipeline for one RFP. A run that ends
// without a bid (no match, no stock) is a normal result, not an error;
// callers inspect outcome and logs.
func (h *PipelineHandler) ProcessRFP(c *gin.Context) {
	var req models.ProcessRFPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	log := config.GetLogger()

	rfp, err := h.RFPs.GetByID(ctx, req.RFPID)
	if errors.Is(err, services.ErrRFPNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "RFP not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load RFP"})
		return
	}

	catalog, err := h.Catalog.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	var onEntry func(models.LogEntry)
	if h.WS != nil {
		onEntry = func(e models.LogEntry) {
			h.WS.BroadcastLogEntry(rfp.ID, e)
		}
	}

	result, err := h.Orchestrator.Run(ctx, *rfp, catalog, onEntry)
	if err != nil {
		log.Errorf("Pipeline run failed for %s: %v", rfp.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if result.Outcome != models.OutcomeAssembled {
		c.JSON(http.StatusOK, models.ProcessResult{
			Success: false,
			Outcome: result.Outcome,
			Logs:    result.Logs,
		})
		return
	}

	// Stock is re-checked atomically at commit; a concurrent run may have
	// taken the last units since the pipeline's read-only gate.
	err = h.Bids.CommitBid(ctx, result.Bid)
	if errors.Is(err, services.ErrInsufficientStock) {
		log.Warnf("Stock exhausted between check and commit for %s", rfp.ID)
		c.JSON(http.StatusOK, models.ProcessResult{
			Success: false,
			Outcome: models.OutcomeNoStock,
			Logs:    result.Logs,
		})
		return
	}
	if err != nil {
		log.Errorf("Failed to commit bid for %s: %v", rfp.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store bid"})
		return
	}

	c.JSON(http.StatusOK, models.ProcessResult{
		Success: true,
		Outcome: models.OutcomeAssembled,
		Bid:     result.Bid,
		Logs:    result.Logs,
	})
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bidworks/rfp-api/models"
	"github.com/bidworks/rfp-api/services"
)

type BidHandler struct {
	Bids   *services.BidService
	Export *services.ExportService
}

func (h *BidHandler) GetBids(c *gin.Context) {
	bids, err := h.Bids.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bids"})
		return
	}
	if bids == nil {
		bids = []models.Bid{}
	}
	c.JSON(http.StatusOK, bids)
}

func (h *BidHandler) GetBid(c *gin.Context) {
	bid, ok := h.loadBid(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, bid)
}

func (h *BidHandler) GetBidSummary(c *gin.Context) {
	bid, ok := h.loadBid(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, h.Export.BidSummary(bid))
}

func (h *BidHandler) ExportBidJSON(c *gin.Context) {
	bid, ok := h.loadBid(c)
	if !ok {
		return
	}
	filename := fmt.Sprintf("bid_%s_%s.json", bid.RFPID, time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, bid)
}

func (h *BidHandler) ExportBidPDF(c *gin.Context) {
	bid, ok := h.loadBid(c)
	if !ok {
		return
	}

	data, err := h.Export.BidPDF(bid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF"})
		return
	}
	filename := fmt.Sprintf("bid_%s_%s.pdf", bid.RFPID, time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *BidHandler) loadBid(c *gin.Context) (*models.Bid, bool) {
	bid, err := h.Bids.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrBidNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bid not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bid"})
		return nil, false
	}
	return bid, true
}

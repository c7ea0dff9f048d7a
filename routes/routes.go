package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/bidworks/rfp-api/handlers"
	"github.com/bidworks/rfp-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupCatalogRoutes sets up product catalog routes.
func SetupCatalogRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := &handlers.CatalogHandler{
		Catalog: services.NewCatalogService(db),
		Export:  services.NewExportService(),
	}

	rg.GET("/products", h.GetProducts)
	rg.GET("/products/export", h.ExportProducts)
	rg.GET("/products/:sku", h.GetProduct)
}

// SetupRFPRoutes sets up RFP listing and upload routes. Status changes are
// an approval action and stay behind auth.
func SetupRFPRoutes(rg, protected *gin.RouterGroup, db *sql.DB) {
	h := &handlers.RFPHandler{RFPs: services.NewRFPService(db)}

	rg.GET("/rfps", h.GetRFPs)
	rg.POST("/rfps/upload", h.UploadRFP)
	protected.PUT("/rfps/:id/status", h.UpdateStatus)
}

// SetupPipelineRoutes sets up the bid pipeline trigger.
func SetupPipelineRoutes(rg *gin.RouterGroup, db *sql.DB, orchestrator *services.Orchestrator, ws *handlers.WSHandler) {
	h := &handlers.PipelineHandler{
		Orchestrator: orchestrator,
		RFPs:         services.NewRFPService(db),
		Catalog:      services.NewCatalogService(db),
		Bids:         services.NewBidService(db),
		WS:           ws,
	}

	rg.POST("/rfps/process", h.ProcessRFP)
}

// SetupBidRoutes sets up bid retrieval and export routes.
func SetupBidRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := &handlers.BidHandler{
		Bids:   services.NewBidService(db),
		Export: services.NewExportService(),
	}

	rg.GET("/bids", h.GetBids)
	rg.GET("/bids/:id", h.GetBid)
	rg.GET("/bids/:id/summary", h.GetBidSummary)
	rg.GET("/bids/:id/export.json", h.ExportBidJSON)
	rg.GET("/bids/:id/export.pdf", h.ExportBidPDF)
}

// SetupAnalyticsRoutes sets up the dashboard aggregate route.
func SetupAnalyticsRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := &handlers.AnalyticsHandler{DB: db}

	rg.GET("/analytics", h.GetAnalytics)
}

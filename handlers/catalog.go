package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bidworks/rfp-api/models"
	"github.com/bidworks/rfp-api/services"
)

// productCatalog is the slice of CatalogService this handler needs.
type productCatalog interface {
	List(ctx context.Context) ([]models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
}

type CatalogHandler struct {
	Catalog productCatalog
	Export  *services.ExportService
}

func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.Catalog.GetBySKU(c.Request.Context(), c.Param("sku"))
	if errors.Is(err, services.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) ExportProducts(c *gin.Context) {
	products, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}

	stamp := time.Now().Format("20060102_150405")

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, err := h.Export.CatalogCSV(products)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export catalog"})
			return
		}
		filename := fmt.Sprintf("product_catalog_%s.csv", stamp)
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/csv", data)

	case "xlsx":
		data, err := h.Export.CatalogXLSX(products)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export catalog"})
			return
		}
		filename := fmt.Sprintf("product_catalog_%s.xlsx", stamp)
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format, use csv or xlsx"})
	}
}

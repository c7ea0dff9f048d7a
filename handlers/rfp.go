package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledongthuc/pdf"

	"github.com/bidworks/rfp-api/models"
	"github.com/bidworks/rfp-api/services"
)

const maxUploadSize = 10 << 20 // 10 MiB

type RFPHandler struct {
	RFPs *services.RFPService
}

func (h *RFPHandler) GetRFPs(c *gin.Context) {
	rfps, err := h.RFPs.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load RFPs"})
		return
	}
	if rfps == nil {
		rfps = []models.RFP{}
	}
	c.JSON(http.StatusOK, rfps)
}

// UploadRFP accepts a PDF or plain-text document, extracts its text and
// registers it as a pending RFP. The client name defaults to the filename
// unless a "client" form field is provided.
func (h *RFPHandler) UploadRFP(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}

	var text string
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".pdf":
		text, err = extractPDFText(data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to extract text from PDF"})
			return
		}
	case ".txt":
		text = string(data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and TXT files are supported"})
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document contains no extractable text"})
		return
	}

	client := c.PostForm("client")
	if client == "" {
		client = fmt.Sprintf("Uploaded: %s", fileHeader.Filename)
	}

	ctx := c.Request.Context()

	// Concurrent uploads can race for the same sequential id; the unique
	// constraint catches the loser, who re-allocates and tries again.
	var rfp *models.RFP
	for attempt := 0; attempt < 3; attempt++ {
		id, err := h.RFPs.NextID(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate RFP id"})
			return
		}

		rfp = &models.RFP{
			ID:      id,
			Client:  client,
			Content: text,
			Date:    time.Now().Format("2006-01-02"),
			Status:  models.RFPStatusPending,
		}

		err = h.RFPs.Create(ctx, rfp)
		if err == nil {
			c.JSON(http.StatusCreated, rfp)
			return
		}
		if !services.IsUniqueViolation(err) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store RFP"})
			return
		}
	}

	c.JSON(http.StatusConflict, gin.H{"error": "Could not allocate a unique RFP id, try again"})
}

func (h *RFPHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateRFPStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.RFPStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	err := h.RFPs.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if errors.Is(err, services.ErrRFPNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "RFP not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rfp_id": c.Param("id"), "status": status})
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

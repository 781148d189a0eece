package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/docuwave/receipt-ocr/internal/common"
	"github.com/docuwave/receipt-ocr/internal/ocr"
	"github.com/docuwave/receipt-ocr/internal/receipt"
	"github.com/docuwave/receipt-ocr/internal/repository"
)

// ReceiptPipeline is the processing surface the handlers depend on.
type ReceiptPipeline interface {
	ProcessImage(ctx context.Context, content []byte, mimeType, source string) (*repository.StoredReceipt, error)
	ExtractRecord(res ocr.Result) receipt.Record
}

// Messenger sends replies and fetches media from the WhatsApp Cloud API.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	DownloadMedia(ctx context.Context, mediaID string) ([]byte, string, error)
}

// Exporter produces XLSX workbooks of stored receipts.
type Exporter interface {
	ExportReceiptsXLSX(ctx context.Context, from, to *time.Time) ([]byte, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Logger      *slog.Logger
	Pipeline    ReceiptPipeline
	Receipts    repository.ReceiptRepository
	Export      Exporter
	Messenger   Messenger
	VerifyToken string
}

func NewHandler(logger *slog.Logger, p ReceiptPipeline, recs repository.ReceiptRepository, exp Exporter, msg Messenger, verifyToken string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Logger:      logger,
		Pipeline:    p,
		Receipts:    recs,
		Export:      exp,
		Messenger:   msg,
		VerifyToken: verifyToken,
	}
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "receiptd",
	})
}

// ExtractReceipt runs field extraction on a caller-supplied OCR result
// without persisting anything.
func (h *Handler) ExtractReceipt(c *gin.Context) {
	var res ocr.Result
	if err := c.ShouldBindJSON(&res); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ocr result: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.Pipeline.ExtractRecord(res))
}

// ListReceipts returns stored receipts, optionally windowed by
// from/to (YYYY-MM-DD) query params.
func (h *Handler) ListReceipts(c *gin.Context) {
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	recs, err := h.Receipts.List(c.Request.Context(), from, to)
	if err != nil {
		h.Logger.Error("list receipts failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list receipts failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipts": recs, "count": len(recs)})
}

// GetReceipt fetches one stored receipt by ID.
func (h *Handler) GetReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receipt id"})
		return
	}
	sr, err := h.Receipts.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "receipt not found"})
			return
		}
		h.Logger.Error("get receipt failed", "receipt_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get receipt failed"})
		return
	}
	c.JSON(http.StatusOK, sr)
}

// ExportReceipts streams an XLSX workbook of stored receipts.
func (h *Handler) ExportReceipts(c *gin.Context) {
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	b, err := h.Export.ExportReceiptsXLSX(c.Request.Context(), from, to)
	if err != nil {
		h.Logger.Error("export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="receipts.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
}

func parseDateParam(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return &t, nil
}

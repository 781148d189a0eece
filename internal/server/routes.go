package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/docuwave/receipt-ocr/internal/common"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg *common.Config, h *Handler, logger *slog.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", h.HealthCheck)

	// WhatsApp Cloud API webhook surface
	router.GET("/webhook", h.VerifyWebhook)
	router.POST("/webhook", h.ReceiveWebhook)

	v1 := router.Group("/api/v1")
	{
		receipts := v1.Group("/receipts")
		{
			receipts.POST("/extract", h.ExtractReceipt)
			receipts.GET("", h.ListReceipts)
			receipts.GET("/export", h.ExportReceipts)
			receipts.GET("/:id", h.GetReceipt)
		}
	}

	return router
}

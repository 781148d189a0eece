package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docuwave/receipt-ocr/internal/common"
	"github.com/docuwave/receipt-ocr/internal/docai"
	"github.com/docuwave/receipt-ocr/internal/export"
	"github.com/docuwave/receipt-ocr/internal/pipeline"
	"github.com/docuwave/receipt-ocr/internal/repository"
	"github.com/docuwave/receipt-ocr/internal/server"
	"github.com/docuwave/receipt-ocr/internal/whatsapp"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.Database.Path)
	if err != nil {
		logger.Error("open database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("close database", "error", cerr)
		}
	}()
	logger.Info("database ready", "path", cfg.Database.Path)

	receiptsRepo := repository.NewReceiptRepository(db, logger)
	ocrClient := docai.NewClient(cfg.DocAI, logger)
	waClient := whatsapp.NewClient(cfg.WhatsApp, logger)
	proc := pipeline.NewProcessor(logger, pipeline.Config{
		MinConfidence: cfg.Extract.MinConfidence,
	}, ocrClient, receiptsRepo)
	exporter := export.NewService(receiptsRepo, logger)

	handler := server.NewHandler(logger, proc, receiptsRepo, exporter, waClient, cfg.WhatsApp.VerifyToken)
	router := server.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/docuwave/receipt-ocr/constants"
	"github.com/docuwave/receipt-ocr/internal/extractor"
	"github.com/docuwave/receipt-ocr/internal/ocr"
	"github.com/docuwave/receipt-ocr/internal/receipt"
	"github.com/docuwave/receipt-ocr/internal/repository"
)

// DocumentProcessor is Stage 1: document bytes -> raw OCR result.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, content []byte, mimeType string) (ocr.Result, error)
}

// Config holds thresholds and behavior flags for the pipeline.
type Config struct {
	MinConfidence float32 // default 0.60
}

// Processor coordinates OCR (Document AI) then field extraction, flags
// records for human review, and persists them.
type Processor struct {
	Logger   *slog.Logger
	Cfg      Config
	OCR      DocumentProcessor
	Receipts repository.ReceiptRepository
}

func NewProcessor(logger *slog.Logger, cfg Config, docp DocumentProcessor, recs repository.ReceiptRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.60
	}
	return &Processor{Logger: logger, Cfg: cfg, OCR: docp, Receipts: recs}
}

// ProcessImage runs the full pipeline for one document: OCR, extract,
// review heuristic, persist. Extraction itself never fails; errors here come
// from the OCR provider or storage.
func (p *Processor) ProcessImage(ctx context.Context, content []byte, mimeType, source string) (*repository.StoredReceipt, error) {
	start := time.Now()

	res, err := p.OCR.ProcessDocument(ctx, content, mimeType)
	if err != nil {
		p.Logger.Error("pipeline.ocr.failed", "source", source, "error", err)
		return nil, fmt.Errorf("ocr stage: %w", err)
	}
	p.Logger.Info("pipeline.ocr.ok",
		"source", source,
		"text_bytes", len(res.Text),
		"entities", len(res.Entities),
	)

	rec := p.ExtractRecord(res)
	needsReview := p.needsReview(rec)

	sr := &repository.StoredReceipt{
		Record:      rec,
		NeedsReview: needsReview,
		Source:      source,
	}
	if err := p.Receipts.Save(ctx, sr); err != nil {
		p.Logger.Error("pipeline.save.failed", "source", source, "error", err)
		return nil, fmt.Errorf("save receipt: %w", err)
	}

	p.Logger.Info("pipeline.extract.ok",
		"receipt_id", sr.ID,
		"merchant", rec.MerchantName,
		"date", rec.TxDate,
		"total", rec.TotalAmount,
		"needs_review", needsReview,
		"confidence", rec.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return sr, nil
}

// ExtractRecord is the pure path: normalize the recognized text and run field
// extraction. Exposed for callers that already hold an OCR result.
func (p *Processor) ExtractRecord(res ocr.Result) receipt.Record {
	res.Text = ocr.Normalize(res.Text)
	return extractor.Extract(res)
}

// needsReview flags records that downstream flows should confirm with the
// user: unresolved merchant or total, a low confidence score, or a record
// that fails schema validation.
func (p *Processor) needsReview(rec receipt.Record) bool {
	if rec.MerchantName == constants.UnknownMerchant || rec.TotalAmount == "" {
		return true
	}
	if rec.Confidence < p.Cfg.MinConfidence {
		return true
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return true
	}
	if err := receipt.ValidateJSONAgainstSchema(receipt.BuildRecordJSONSchema(), b); err != nil {
		p.Logger.Warn("pipeline.schema.mismatch", "error", err)
		return true
	}
	return false
}

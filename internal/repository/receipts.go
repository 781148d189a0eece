package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/docuwave/receipt-ocr/internal/common"
	"github.com/docuwave/receipt-ocr/internal/receipt"
)

// StoredReceipt is a persisted extraction result.
type StoredReceipt struct {
	ID          uuid.UUID      `json:"id"`
	Record      receipt.Record `json:"record"`
	NeedsReview bool           `json:"needs_review"`
	Source      string         `json:"source"` // "whatsapp" | "api"
	CreatedAt   time.Time      `json:"created_at"`
}

// ReceiptRepository is the persistence interface the pipeline and server
// depend on.
type ReceiptRepository interface {
	Save(ctx context.Context, r *StoredReceipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*StoredReceipt, error)
	List(ctx context.Context, from, to *time.Time) ([]*StoredReceipt, error)
}

type receiptRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewReceiptRepository(db *sql.DB, logger *slog.Logger) ReceiptRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &receiptRepository{db: db, logger: logger}
}

func (r *receiptRepository) Save(ctx context.Context, sr *StoredReceipt) error {
	if sr.ID == uuid.Nil {
		sr.ID = uuid.New()
	}
	if sr.CreatedAt.IsZero() {
		sr.CreatedAt = time.Now().UTC()
	}
	items, err := json.Marshal(sr.Record.LineItems)
	if err != nil {
		return fmt.Errorf("marshal line items: %w", err)
	}

	const q = `
INSERT OR REPLACE INTO receipts
	(id, merchant_name, total_amount, tax_amount, subtotal_amount,
	 tx_date, tx_time, currency_code, payment_method, line_items,
	 confidence, needs_review, source, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		sr.ID.String(),
		sr.Record.MerchantName,
		sr.Record.TotalAmount,
		sr.Record.TaxAmount,
		sr.Record.SubtotalAmount,
		sr.Record.TxDate,
		sr.Record.TxTime,
		sr.Record.CurrencyCode,
		sr.Record.PaymentMethod,
		string(items),
		sr.Record.Confidence,
		sr.NeedsReview,
		sr.Source,
		sr.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return common.WrapError(err, "save receipt")
	}
	r.logger.Info("repository.receipt.saved",
		"receipt_id", sr.ID, "merchant", sr.Record.MerchantName,
		"total", sr.Record.TotalAmount, "needs_review", sr.NeedsReview)
	return nil
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*StoredReceipt, error) {
	const q = selectColumns + ` WHERE id = ?`
	sr, err := scanReceipt(r.db.QueryRowContext(ctx, q, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("RECEIPT_NOT_FOUND", id.String(), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "get receipt")
	}
	return sr, nil
}

func (r *receiptRepository) List(ctx context.Context, from, to *time.Time) ([]*StoredReceipt, error) {
	q := selectColumns + ` WHERE 1=1`
	args := make([]any, 0, 2)
	if from != nil {
		q += ` AND tx_date >= ?`
		args = append(args, from.Format("2006-01-02"))
	}
	if to != nil {
		q += ` AND tx_date <= ?`
		args = append(args, to.Format("2006-01-02"))
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, common.WrapError(err, "list receipts")
	}
	defer rows.Close()

	var out []*StoredReceipt
	for rows.Next() {
		sr, err := scanReceipt(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan receipt")
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

const selectColumns = `
SELECT id, merchant_name, total_amount, tax_amount, subtotal_amount,
       tx_date, tx_time, currency_code, payment_method, line_items,
       confidence, needs_review, source, created_at
FROM receipts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (*StoredReceipt, error) {
	var (
		sr        StoredReceipt
		id        string
		items     string
		createdAt string
	)
	if err := row.Scan(
		&id,
		&sr.Record.MerchantName,
		&sr.Record.TotalAmount,
		&sr.Record.TaxAmount,
		&sr.Record.SubtotalAmount,
		&sr.Record.TxDate,
		&sr.Record.TxTime,
		&sr.Record.CurrencyCode,
		&sr.Record.PaymentMethod,
		&items,
		&sr.Record.Confidence,
		&sr.NeedsReview,
		&sr.Source,
		&createdAt,
	); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse receipt id %q: %w", id, err)
	}
	sr.ID = parsed
	if err := json.Unmarshal([]byte(items), &sr.Record.LineItems); err != nil {
		return nil, fmt.Errorf("unmarshal line items: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		sr.CreatedAt = ts
	}
	return &sr, nil
}

package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuwave/receipt-ocr/internal/receipt"
)

func newTestRepo(t *testing.T) ReceiptRepository {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewReceiptRepository(db, nil)
}

func sample(txDate string) *StoredReceipt {
	return &StoredReceipt{
		Record: receipt.Record{
			MerchantName: "Demo Restaurant",
			TotalAmount:  "17.82",
			TaxAmount:    "1.32",
			TxDate:       txDate,
			CurrencyCode: "USD",
			LineItems: []receipt.LineItem{
				{Description: "Coffee", Amount: "4.50", Quantity: 1},
				{Description: "Sandwich", Amount: "12.00", Quantity: 1},
			},
			Confidence: 0.9,
		},
		Source: "api",
	}
}

func TestSaveAndGetReceipt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	sr := sample("2024-03-15")
	require.NoError(t, repo.Save(ctx, sr))
	require.NotEqual(t, uuid.Nil, sr.ID, "Save assigns an ID")

	got, err := repo.GetByID(ctx, sr.ID)
	require.NoError(t, err)
	assert.Equal(t, sr.Record, got.Record)
	assert.Equal(t, "api", got.Source)
	assert.False(t, got.NeedsReview)
}

func TestGetMissingReceipt(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestListReceiptsByDateRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, d := range []string{"2024-03-01", "2024-03-15", "2024-04-01"} {
		require.NoError(t, repo.Save(ctx, sample(d)))
	}

	all, err := repo.List(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	window, err := repo.List(ctx, &from, &to)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "2024-03-15", window[0].Record.TxDate)
}

func TestSaveIsIdempotentPerID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	sr := sample("2024-03-15")
	require.NoError(t, repo.Save(ctx, sr))
	sr.NeedsReview = true
	require.NoError(t, repo.Save(ctx, sr))

	all, err := repo.List(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].NeedsReview)
}

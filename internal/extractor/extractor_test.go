package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuwave/receipt-ocr/internal/ocr"
	"github.com/docuwave/receipt-ocr/internal/receipt"
)

func f32(v float32) *float32 { return &v }

const demoText = `Demo Restaurant
Coffee               $4.50
Sandwich            $12.00
Tax                  $1.32
Total              $17.82`

func TestExtractDemoReceipt(t *testing.T) {
	rec := Extract(ocr.Result{Text: demoText})

	assert.Equal(t, "Demo Restaurant", rec.MerchantName)
	assert.Equal(t, "17.82", rec.TotalAmount)
	assert.Equal(t, "1.32", rec.TaxAmount)
	assert.Equal(t, "USD", rec.CurrencyCode)
	require.Len(t, rec.LineItems, 2)
	assert.Equal(t, receipt.LineItem{Description: "Coffee", Amount: "4.50", Quantity: 1}, rec.LineItems[0])
	assert.Equal(t, receipt.LineItem{Description: "Sandwich", Amount: "12.00", Quantity: 1}, rec.LineItems[1])
}

func TestExtractNeverFailsOnEmptyInput(t *testing.T) {
	for _, res := range []ocr.Result{
		{},
		{Text: ""},
		{Text: "\n\n\n"},
	} {
		rec := Extract(res)
		assert.Equal(t, "Unknown Merchant", rec.MerchantName)
		assert.Equal(t, "USD", rec.CurrencyCode)
		assert.Equal(t, time.Now().Format("2006-01-02"), rec.TxDate)
		assert.Empty(t, rec.LineItems)
	}

	// malformed entities degrade to not-found, never an error
	rec := Extract(ocr.Result{
		Text:     "?!#%",
		Entities: []ocr.Entity{{Type: "total_amount", MentionText: "not-a-number"}},
	})
	assert.Empty(t, rec.TotalAmount)
}

func TestEntityTierTakesPrecedence(t *testing.T) {
	rec := Extract(ocr.Result{
		Text:     "Total: $99.00",
		Entities: []ocr.Entity{{Type: "total_amount", MentionText: "$12.34"}},
	})
	assert.Equal(t, "12.34", rec.TotalAmount)
}

func TestUnparsableEntityFallsBackToText(t *testing.T) {
	rec := Extract(ocr.Result{
		Text:     "Total: $9.99",
		Entities: []ocr.Entity{{Type: "total_amount", MentionText: "N/A"}},
	})
	assert.Equal(t, "9.99", rec.TotalAmount)
}

func TestFirstMatchingEntityWins(t *testing.T) {
	rec := Extract(ocr.Result{
		Entities: []ocr.Entity{
			{Type: "supplier_name", MentionText: "First Store"},
			{Type: "supplier_name", MentionText: "Second Store"},
		},
	})
	assert.Equal(t, "First Store", rec.MerchantName)
}

func TestLargestAmountFallbackForTotal(t *testing.T) {
	rec := Extract(ocr.Result{Text: "4.50 12.00 1.32 17.82"})
	assert.Equal(t, "17.82", rec.TotalAmount)
}

func TestMerchantSkipRules(t *testing.T) {
	t.Run("address and header lines are skipped", func(t *testing.T) {
		rec := Extract(ocr.Result{Text: "123 Main Street\nRECEIPT\nJoe's Diner\nThanks for visiting"})
		assert.Equal(t, "Joe's Diner", rec.MerchantName)
	})

	t.Run("phone lines are skipped", func(t *testing.T) {
		rec := Extract(ocr.Result{Text: "(555) 123-4567\nCorner Bakery"})
		assert.Equal(t, "Corner Bakery", rec.MerchantName)
	})

	t.Run("too short and too long lines are skipped", func(t *testing.T) {
		long := "This line is way too long to plausibly be the name of any merchant at all"
		rec := Extract(ocr.Result{Text: "ab\n" + long + "\nTaco Stand"})
		assert.Equal(t, "Taco Stand", rec.MerchantName)
	})

	t.Run("no surviving line defaults to sentinel", func(t *testing.T) {
		rec := Extract(ocr.Result{Text: "123 Elm St\n456 Oak Ave"})
		assert.Equal(t, "Unknown Merchant", rec.MerchantName)
	})
}

func TestSummaryLinesExcludedFromLineItems(t *testing.T) {
	rec := Extract(ocr.Result{Text: "Bagel   $2.25\nTotal                $17.82\nBalance Due   $17.82\nSubtotal   $16.50"})
	require.Len(t, rec.LineItems, 1)
	assert.Equal(t, "Bagel", rec.LineItems[0].Description)
}

func TestAmountRegexFallbacks(t *testing.T) {
	cases := []struct {
		name             string
		text             string
		total, tax, subt string
	}{
		{"labeled fields", "Amount Due: 21.00\nSubtotal: 20.00\nGST: 1.00", "21.00", "1.00", "20.00"},
		{"vat label", "VAT 3.10\nBalance 19.10", "19.10", "3.10", ""},
		{"sub-total spelling", "Total: 8.64\nSub-Total: 8.00\nHST: 0.64", "8.64", "0.64", "8.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := Extract(ocr.Result{Text: tc.text})
			assert.Equal(t, tc.total, rec.TotalAmount, "total")
			assert.Equal(t, tc.tax, rec.TaxAmount, "tax")
			assert.Equal(t, tc.subt, rec.SubtotalAmount, "subtotal")
		})
	}
}

func TestDateResolution(t *testing.T) {
	cases := []struct {
		name string
		res  ocr.Result
		want string
	}{
		{"entity date", ocr.Result{Entities: []ocr.Entity{{Type: "receipt_date", MentionText: "2024-03-15"}}}, "2024-03-15"},
		{"entity date alternate layout", ocr.Result{Entities: []ocr.Entity{{Type: "date", MentionText: "03/15/2024"}}}, "2024-03-15"},
		{"slash date in text", ocr.Result{Text: "Visited on 03/15/2024 at noon"}, "2024-03-15"},
		{"two digit year", ocr.Result{Text: "03/15/24"}, "2024-03-15"},
		{"dash date in text", ocr.Result{Text: "3-5-2024"}, "2024-03-05"},
		{"iso date in text", ocr.Result{Text: "2024-03-15"}, "2024-03-15"},
		{"month name date", ocr.Result{Text: "March 15, 2024"}, "2024-03-15"},
		{"unparsable entity falls back to text", ocr.Result{Text: "2024-03-15", Entities: []ocr.Entity{{Type: "date", MentionText: "sometime"}}}, "2024-03-15"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract(tc.res).TxDate)
		})
	}

	t.Run("no date defaults to today", func(t *testing.T) {
		rec := Extract(ocr.Result{Text: "no dates here"})
		assert.Equal(t, time.Now().Format("2006-01-02"), rec.TxDate)
	})
}

func TestTimeExtraction(t *testing.T) {
	assert.Equal(t, "02:34 PM", Extract(ocr.Result{Text: "Checkout 02:34 PM"}).TxTime)
	assert.Equal(t, "14:34:10", Extract(ocr.Result{Text: "at 14:34:10 sharp"}).TxTime)
	assert.Empty(t, Extract(ocr.Result{Text: "no clock"}).TxTime)
}

func TestCurrencySniff(t *testing.T) {
	assert.Equal(t, "USD", Extract(ocr.Result{Text: "Total $5.00"}).CurrencyCode)
	assert.Equal(t, "EUR", Extract(ocr.Result{Text: "Gesamt €5,00"}).CurrencyCode)
	assert.Equal(t, "GBP", Extract(ocr.Result{Text: "Amount £5.00"}).CurrencyCode)
	assert.Equal(t, "JPY", Extract(ocr.Result{Text: "¥500"}).CurrencyCode)
	assert.Equal(t, "USD", Extract(ocr.Result{Text: "no symbol"}).CurrencyCode)
	// dollar wins when multiple symbols appear
	assert.Equal(t, "USD", Extract(ocr.Result{Text: "€5,00 then $5.00"}).CurrencyCode)
}

func TestPaymentMethod(t *testing.T) {
	cases := []struct {
		text, want string
	}{
		{"Paid with VISA ****1234", "Credit Card"},
		{"MASTERCARD auth 0042", "Credit Card"},
		{"DEBIT tend 20.00", "Debit Card"},
		{"CASH tendered", "Cash"},
		{"via PayPal", "PayPal"},
		{"Apple Pay contactless", "Mobile Payment"},
		{"no payment words", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Extract(ocr.Result{Text: tc.text}).PaymentMethod, tc.text)
	}
}

func TestConfidenceScore(t *testing.T) {
	t.Run("averages entity confidences with 0.5 for missing", func(t *testing.T) {
		rec := Extract(ocr.Result{Entities: []ocr.Entity{
			{Type: "total_amount", MentionText: "1.00", Confidence: f32(0.9)},
			{Type: "tax_amount", MentionText: "0.10"},
		}})
		assert.InDelta(t, 0.7, rec.Confidence, 0.0001)
	})

	t.Run("passes through document confidence without entities", func(t *testing.T) {
		rec := Extract(ocr.Result{Text: "x", Confidence: f32(0.42)})
		assert.InDelta(t, 0.42, rec.Confidence, 0.0001)
	})

	t.Run("defaults to 0.5 when nothing is present", func(t *testing.T) {
		assert.InDelta(t, 0.5, Extract(ocr.Result{}).Confidence, 0.0001)
	})
}

func TestExtractIsIdempotent(t *testing.T) {
	res := ocr.Result{
		Text: demoText,
		Entities: []ocr.Entity{
			{Type: "supplier_name", MentionText: "Demo Restaurant", Confidence: f32(0.95)},
			{Type: "total_amount", MentionText: "17.82", Confidence: f32(0.91)},
		},
	}
	first := Extract(res)
	second := Extract(res)
	assert.Equal(t, first, second)
}

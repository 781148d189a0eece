package extractor

import (
	"regexp"
	"strings"

	"github.com/docuwave/receipt-ocr/constants"
	"github.com/docuwave/receipt-ocr/internal/ocr"
	"github.com/docuwave/receipt-ocr/internal/receipt"
)

// Extract turns a raw OCR result into a normalized receipt record.
//
// Resolution per field is a two-tier fallback: a typed entity with a parseable
// mention wins over pattern-matching the free text, because entity extraction
// is higher-confidence than regex scanning when both are available. Any parse
// miss resolves to the field's documented default rather than an error, so the
// caller always receives a well-formed record; extraction quality surfaces
// only through the confidence score.
//
// Extract is a pure function of its input: no I/O, no shared state, safe for
// concurrent use. The only wall-clock dependency is the current-date default
// when no transaction date can be resolved.
func Extract(res ocr.Result) receipt.Record {
	return receipt.Record{
		MerchantName:   extractMerchant(res),
		TotalAmount:    extractTotal(res),
		TaxAmount:      extractAmount(res, constants.EntityTaxAmount, reTax),
		SubtotalAmount: extractAmount(res, constants.EntitySubtotalAmount, reSubtotal),
		TxDate:         extractDate(res),
		TxTime:         extractTime(res.Text),
		LineItems:      extractLineItems(res.Text),
		CurrencyCode:   extractCurrency(res.Text),
		PaymentMethod:  extractPaymentMethod(res.Text),
		Confidence:     confidenceScore(res),
	}
}

var paymentPatterns = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)credit|visa|mastercard|amex`), constants.PaymentCreditCard},
	{regexp.MustCompile(`(?i)debit`), constants.PaymentDebitCard},
	{regexp.MustCompile(`(?i)cash`), constants.PaymentCash},
	{regexp.MustCompile(`(?i)paypal`), constants.PaymentPayPal},
	{regexp.MustCompile(`(?i)apple pay|google pay`), constants.PaymentMobile},
}

func extractPaymentMethod(text string) string {
	for _, p := range paymentPatterns {
		if p.re.MatchString(text) {
			return p.label
		}
	}
	return ""
}

func extractCurrency(text string) string {
	for _, c := range constants.CurrencySymbols {
		if strings.Contains(text, c.Symbol) {
			return c.Code
		}
	}
	return constants.DefaultCurrency
}

// confidenceScore averages per-entity confidences when the provider supplied
// entities (a missing entity confidence counts as 0.5); otherwise it passes
// through the document confidence, defaulting to 0.5 when absent.
func confidenceScore(res ocr.Result) float32 {
	if len(res.Entities) > 0 {
		var sum float32
		for _, e := range res.Entities {
			if e.Confidence != nil {
				sum += *e.Confidence
			} else {
				sum += 0.5
			}
		}
		return sum / float32(len(res.Entities))
	}
	if res.Confidence != nil {
		return *res.Confidence
	}
	return 0.5
}

package extractor

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/docuwave/receipt-ocr/constants"
	"github.com/docuwave/receipt-ocr/internal/ocr"
)

var (
	reTotal       = regexp.MustCompile(`(?i)(?:total|amount due|balance)[:\s]*\$?(\d+\.?\d*)`)
	reTax         = regexp.MustCompile(`(?i)(?:tax|hst|gst|vat)[:\s]*\$?(\d+\.?\d*)`)
	reSubtotal    = regexp.MustCompile(`(?i)(?:subtotal|sub[- ]total)[:\s]*\$?(\d+\.?\d*)`)
	reAmountToken = regexp.MustCompile(`\$?(\d+\.\d{1,2})\b`)
)

// extractAmount resolves one monetary field: entity tier first, then the
// field's text pattern. An unparsable match counts as not-found, never zero.
func extractAmount(res ocr.Result, entityType string, re *regexp.Regexp) string {
	if v, ok := res.FirstEntity(entityType); ok {
		if amt := normalizeAmount(v); amt != "" {
			return amt
		}
	}
	if m := re.FindStringSubmatch(res.Text); m != nil {
		return normalizeAmount(m[1])
	}
	return ""
}

// extractTotal adds a tertiary heuristic for the grand total: when neither
// tier resolves, the largest positive decimal token in the text wins.
// Receipts usually print the total as the largest figure; this is inherited
// behavior, not a guarantee (a quantity x price line could exceed the total).
func extractTotal(res ocr.Result) string {
	if amt := extractAmount(res, constants.EntityTotalAmount, reTotal); amt != "" {
		return amt
	}
	return largestAmount(res.Text)
}

func largestAmount(text string) string {
	var best decimal.Decimal
	found := false
	for _, m := range reAmountToken.FindAllStringSubmatch(text, -1) {
		d, err := decimal.NewFromString(m[1])
		if err != nil || d.Sign() <= 0 {
			continue
		}
		if !found || d.GreaterThan(best) {
			best = d
			found = true
		}
	}
	if !found {
		return ""
	}
	return best.StringFixed(2)
}

// normalizeAmount parses a free-form money string (e.g. "$1,234.5") into a
// non-negative two-decimal representation, or "" when it does not parse.
func normalizeAmount(s string) string {
	s = strings.TrimLeft(strings.TrimSpace(s), "$€£¥ ")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.Sign() < 0 {
		return ""
	}
	return d.StringFixed(2)
}

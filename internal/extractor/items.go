package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/docuwave/receipt-ocr/internal/receipt"
)

var (
	reLineItem    = regexp.MustCompile(`^(.+?)\s+\$?(\d+\.?\d*)$`)
	reItemExclude = regexp.MustCompile(`(?i)total|tax|subtotal|balance`)
)

// extractLineItems scans every physical line for a description followed by a
// trailing amount. Summary lines (total/tax/subtotal/balance) are excluded so
// they never double-count against the item list; order is preserved.
func extractLineItems(text string) []receipt.LineItem {
	var items []receipt.LineItem
	for _, line := range strings.Split(text, "\n") {
		m := reLineItem.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		desc := strings.TrimSpace(m[1])
		if utf8.RuneCountInString(desc) <= 2 || reItemExclude.MatchString(desc) {
			continue
		}
		amt := normalizeAmount(m[2])
		if amt == "" {
			continue
		}
		items = append(items, receipt.LineItem{Description: desc, Amount: amt, Quantity: 1})
	}
	return items
}

package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/docuwave/receipt-ocr/constants"
	"github.com/docuwave/receipt-ocr/internal/ocr"
)

var (
	reHeaderWord = regexp.MustCompile(`(?i)receipt|invoice|bill`)
	rePhone      = regexp.MustCompile(`\(\d{3}\)`)
)

// extractMerchant scans the first 5 non-empty lines for a plausible store
// name, skipping street addresses (leading digit), header boilerplate,
// phone-number lines, and lines too short or too long to be a name.
func extractMerchant(res ocr.Result) string {
	if v, ok := res.FirstEntity(constants.MerchantEntityTypes...); ok {
		if name := strings.TrimSpace(v); name != "" {
			return name
		}
	}
	seen := 0
	for _, line := range strings.Split(res.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > 5 {
			break
		}
		if line[0] >= '0' && line[0] <= '9' {
			continue
		}
		if reHeaderWord.MatchString(line) || rePhone.MatchString(line) {
			continue
		}
		if n := utf8.RuneCountInString(line); n < 3 || n > 50 {
			continue
		}
		return line
	}
	return constants.UnknownMerchant
}

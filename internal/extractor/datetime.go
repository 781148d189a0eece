package extractor

import (
	"regexp"
	"strings"
	"time"

	"github.com/docuwave/receipt-ocr/constants"
	"github.com/docuwave/receipt-ocr/internal/ocr"
)

const dateFormat = "2006-01-02"

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006", "1/2/2006", "01/02/06", "1/2/06",
	"01-02-2006", "1-2-2006",
	"January 2, 2006", "Jan 2, 2006", "January 2 2006", "Jan 2 2006",
	"02 Jan 2006", "2 January 2006",
	"2006/01/02",
}

// Ordered text patterns tried after the entity tier: US slash dates, US dash
// dates, ISO dates, then written-out month names.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}`),
}

var reTime = regexp.MustCompile(`(?i)\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM)?`)

// extractDate resolves the transaction date, normalized to YYYY-MM-DD. When
// nothing parses it defaults to the current local date; a documented default,
// not an error.
func extractDate(res ocr.Result) string {
	if v, ok := res.FirstEntity(constants.DateEntityTypes...); ok {
		if t, ok := parseLenientDate(v); ok {
			return t.Format(dateFormat)
		}
	}
	for _, re := range datePatterns {
		if m := re.FindString(res.Text); m != "" {
			if t, ok := parseLenientDate(m); ok {
				return t.Format(dateFormat)
			}
		}
	}
	return time.Now().Format(dateFormat)
}

func parseLenientDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, candidate := range []string{s, strings.ReplaceAll(s, ".", "")} {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func extractTime(text string) string {
	return strings.TrimSpace(reTime.FindString(text))
}

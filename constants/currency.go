package constants

// DefaultCurrency is assumed when no symbol appears in the text.
const DefaultCurrency = "USD"

// CurrencySymbol maps a printed symbol to its ISO 4217 code.
type CurrencySymbol struct {
	Symbol string
	Code   string
}

// CurrencySymbols is scanned in priority order; the first symbol found in the
// document wins.
var CurrencySymbols = []CurrencySymbol{
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
}

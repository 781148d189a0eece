package receipt

// LineItem is one purchased product/service entry parsed from a single
// physical text line.
type LineItem struct {
	Description string `json:"description"`
	Amount      string `json:"amount"` // decimal, two fraction digits
	Quantity    int    `json:"quantity"`
}

// Record is the normalized shape produced by field extraction. Monetary
// amounts are decimal strings with exactly two fraction digits; optional
// fields are empty (and omitted from JSON) when not found.
type Record struct {
	MerchantName   string     `json:"merchant_name"`
	TotalAmount    string     `json:"total_amount,omitempty"`
	TaxAmount      string     `json:"tax_amount,omitempty"`
	SubtotalAmount string     `json:"subtotal_amount,omitempty"`
	TxDate         string     `json:"tx_date"` // YYYY-MM-DD
	TxTime         string     `json:"tx_time,omitempty"`
	LineItems      []LineItem `json:"line_items,omitempty"`
	CurrencyCode   string     `json:"currency_code"` // ISO 4217
	PaymentMethod  string     `json:"payment_method,omitempty"`
	Confidence     float32    `json:"confidence"` // 0..1
}

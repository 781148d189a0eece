package constants

// Canonical entity type names emitted by document-understanding providers.
// Providers disagree on naming, so merchant and date carry synonym lists;
// lookups try them in order.
const (
	EntityTotalAmount    = "total_amount"
	EntityTaxAmount      = "tax_amount"
	EntitySubtotalAmount = "subtotal_amount"
)

var (
	MerchantEntityTypes = []string{"supplier_name", "merchant_name", "supplier"}
	DateEntityTypes     = []string{"receipt_date", "date"}
)

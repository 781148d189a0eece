package constants

// Payment method labels stored on receipts.
const (
	PaymentCreditCard = "Credit Card"
	PaymentDebitCard  = "Debit Card"
	PaymentCash       = "Cash"
	PaymentPayPal     = "PayPal"
	PaymentMobile     = "Mobile Payment"
)

// UnknownMerchant is the sentinel merchant name when no line survives the
// merchant heuristics.
const UnknownMerchant = "Unknown Merchant"

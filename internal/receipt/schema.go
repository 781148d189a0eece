package receipt

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// The pipeline validates serialized records against it before persisting.
func BuildRecordJSONSchema() map[string]any {
	props := map[string]any{
		"merchant_name":   map[string]any{"type": "string", "minLength": 1},
		"tx_date":         map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"tx_time":         map[string]any{"type": "string"},
		"total_amount":    decimalProp(),
		"tax_amount":      decimalProp(),
		"subtotal_amount": decimalProp(),
		"currency_code":   map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
		"payment_method":  map[string]any{"type": "string"},
		"confidence":      map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		"line_items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"description": map[string]any{"type": "string", "minLength": 1},
					"amount":      decimalProp(),
					"quantity":    map[string]any{"type": "integer", "minimum": 1},
				},
				"required": []string{"description", "amount", "quantity"},
			},
		},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"merchant_name", "tx_date", "currency_code", "confidence"},
	}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^\d+\.\d{2}$`, // amounts are non-negative with two fraction digits
	}
}

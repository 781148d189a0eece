package ocr

// Entity is one typed field recognized by the document-understanding provider,
// e.g. {type:"total_amount", mentionText:"$17.82"}. Types may repeat and order
// is provider-defined, so lookups are filtered scans over the slice.
type Entity struct {
	Type        string   `json:"type"`
	MentionText string   `json:"mentionText"`
	Confidence  *float32 `json:"confidence,omitempty"`
}

// Result is the raw output of a document OCR pass: the full recognized text
// (newline-separated lines) plus an optional structured entity list.
type Result struct {
	Text       string   `json:"text"`
	Entities   []Entity `json:"entities,omitempty"`
	Confidence *float32 `json:"confidence,omitempty"`
}

// FirstEntity returns the mention text of the first entity whose type matches
// any of the given canonical names, scanning in document order.
func (r Result) FirstEntity(types ...string) (string, bool) {
	for _, e := range r.Entities {
		for _, t := range types {
			if e.Type == t {
				return e.MentionText, true
			}
		}
	}
	return "", false
}

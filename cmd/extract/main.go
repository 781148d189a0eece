// Command extract runs receipt field extraction on a saved OCR result and
// prints the normalized record. Useful for debugging extraction heuristics
// without a Document AI round trip.
//
// Usage:
//
//	extract result.json     # JSON-shaped OCR result {text, entities, confidence}
//	extract --text dump.txt # plain recognized text, no entities
package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/docuwave/receipt-ocr/internal/extractor"
	"github.com/docuwave/receipt-ocr/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	args := os.Args[1:]
	plainText := false
	if len(args) > 0 && args[0] == "--text" {
		plainText = true
		args = args[1:]
	}
	if len(args) != 1 {
		logger.Error("usage", "cmd", "extract [--text] <file>")
		os.Exit(2)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("read input", "path", args[0], "error", err)
		os.Exit(1)
	}

	var res ocr.Result
	if plainText {
		res.Text = string(data)
	} else if err := json.Unmarshal(data, &res); err != nil {
		logger.Error("decode ocr result", "path", args[0], "error", err)
		os.Exit(1)
	}

	res.Text = ocr.Normalize(res.Text)
	rec := extractor.Extract(res)

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		logger.Error("encode record", "error", err)
		os.Exit(1)
	}
	if _, err := os.Stdout.Write(append(out, '\n')); err != nil {
		os.Exit(1)
	}
}

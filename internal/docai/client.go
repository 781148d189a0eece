package docai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/docuwave/receipt-ocr/internal/common"
	"github.com/docuwave/receipt-ocr/internal/ocr"
)

// Client calls a Document AI processor over REST and maps the response into
// the raw OCR result consumed by the extraction pipeline.
type Client struct {
	cfg        common.DocAIConfig
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg common.DocAIConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://us-documentai.googleapis.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

type processResponse struct {
	Document struct {
		Text     string `json:"text"`
		Entities []struct {
			Type        string   `json:"type"`
			MentionText string   `json:"mentionText"`
			Confidence  *float32 `json:"confidence,omitempty"`
		} `json:"entities"`
		Pages []struct {
			Layout struct {
				Confidence *float32 `json:"confidence,omitempty"`
			} `json:"layout"`
		} `json:"pages"`
	} `json:"document"`
}

// ProcessDocument sends raw document bytes to the configured processor.
// Transient failures (network, 5xx) are retried; client errors are not.
func (c *Client) ProcessDocument(ctx context.Context, content []byte, mimeType string) (ocr.Result, error) {
	start := time.Now()
	c.log.Info("docai.process.start",
		"processor", c.cfg.ProcessorID,
		"mime_type", mimeType,
		"bytes", len(content),
	)

	body := map[string]any{
		"rawDocument": map[string]any{
			"content":  base64.StdEncoding.EncodeToString(content),
			"mimeType": mimeType,
		},
	}
	endpoint := strings.TrimRight(c.cfg.Endpoint, "/") + "/" + c.cfg.ProcessorID + ":process"

	var raw []byte
	err := retry.Do(
		func() error {
			var postErr error
			raw, postErr = c.post(ctx, endpoint, body)
			return postErr
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.code >= 500
			}
			return true
		}),
	)
	if err != nil {
		c.log.Error("docai.process.failed",
			"error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return ocr.Result{}, fmt.Errorf("document ai process: %w", err)
	}

	var pr processResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		c.log.Error("docai.process.decode_error", "error", err, "raw_bytes", len(raw))
		return ocr.Result{}, fmt.Errorf("decode document ai response: %w", err)
	}

	res := ocr.Result{Text: pr.Document.Text}
	for _, e := range pr.Document.Entities {
		res.Entities = append(res.Entities, ocr.Entity{
			Type:        e.Type,
			MentionText: e.MentionText,
			Confidence:  e.Confidence,
		})
	}
	if conf := pageConfidence(pr); conf != nil {
		res.Confidence = conf
	}

	c.log.Info("docai.process.ok",
		"text_bytes", len(res.Text),
		"entities", len(res.Entities),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// pageConfidence averages the page layout confidences when present.
func pageConfidence(pr processResponse) *float32 {
	var sum float32
	n := 0
	for _, p := range pr.Document.Pages {
		if p.Layout.Confidence != nil {
			sum += *p.Layout.Confidence
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float32(n)
	return &avg
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("document ai status %d: %s", e.code, e.body)
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("document ai http error: %w", err)
	}
	defer func(rc io.ReadCloser) {
		if cerr := rc.Close(); cerr != nil {
			c.log.Warn("docai response body close error", "error", cerr)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, body: buf.String()}
	}
	return buf.Bytes(), nil
}

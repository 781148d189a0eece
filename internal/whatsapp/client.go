package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/docuwave/receipt-ocr/internal/common"
)

// Client talks to the WhatsApp Business Cloud (Graph) API. Message sends are
// single-attempt: a dropped confirmation is recoverable by the user re-sending
// the receipt, so no retry policy lives here.
type Client struct {
	cfg        common.WhatsAppConfig
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg common.WhatsAppConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://graph.facebook.com/v19.0"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger,
	}
}

// SendText sends a plain text message to a WhatsApp user.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]any{"body": body},
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + c.cfg.PhoneNumberID + "/messages"
	raw, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		c.log.Error("whatsapp.send.failed", "to", to, "error", err)
		return fmt.Errorf("send message: %w", err)
	}
	c.log.Info("whatsapp.send.ok", "to", to, "bytes", len(raw))
	return nil
}

// DownloadMedia resolves a media ID to its temporary URL and fetches the
// bytes. Returns content and mime type.
func (c *Client) DownloadMedia(ctx context.Context, mediaID string) ([]byte, string, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + mediaID
	raw, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("resolve media %s: %w", mediaID, err)
	}

	var meta struct {
		URL      string `json:"url"`
		MimeType string `json:"mime_type"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, "", fmt.Errorf("decode media metadata: %w", err)
	}
	if meta.URL == "" {
		return nil, "", fmt.Errorf("media %s has no download url", mediaID)
	}

	content, err := c.do(ctx, http.MethodGet, meta.URL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("download media %s: %w", mediaID, err)
	}
	c.log.Info("whatsapp.media.downloaded",
		"media_id", mediaID, "mime_type", meta.MimeType, "bytes", len(content))
	return content, meta.MimeType, nil
}

func (c *Client) do(ctx context.Context, method, url string, body map[string]any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph api http error: %w", err)
	}
	defer func(rc io.ReadCloser) {
		if cerr := rc.Close(); cerr != nil {
			c.log.Warn("graph api response body close error", "error", cerr)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("graph api status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}

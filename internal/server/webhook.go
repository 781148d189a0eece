package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docuwave/receipt-ocr/internal/repository"
	"github.com/docuwave/receipt-ocr/internal/whatsapp"
)

// VerifyWebhook answers the Cloud API subscription handshake: echo the
// challenge when the verify token matches.
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.VerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	h.Logger.Warn("webhook verification rejected", "mode", mode)
	c.Status(http.StatusForbidden)
}

// ReceiveWebhook handles inbound WhatsApp notifications. Media messages run
// the extraction pipeline and get a summary reply; everything else is
// acknowledged and dropped. The endpoint always answers 200 so the Cloud API
// does not re-deliver payloads we already logged as failed.
func (h *Handler) ReceiveWebhook(c *gin.Context) {
	var payload whatsapp.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.Logger.Warn("webhook payload decode failed", "error", err)
		c.Status(http.StatusOK)
		return
	}

	ctx := c.Request.Context()
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				media := msg.ReceiptMedia()
				if media == nil {
					h.Logger.Info("webhook.message.skipped", "type", msg.Type, "from", msg.From)
					continue
				}

				content, mime, err := h.Messenger.DownloadMedia(ctx, media.ID)
				if err != nil {
					h.Logger.Error("webhook.media.download_failed",
						"media_id", media.ID, "from", msg.From, "error", err)
					h.reply(c, msg.From, "Sorry, I couldn't read that image. Please try sending it again.")
					continue
				}

				sr, err := h.Pipeline.ProcessImage(ctx, content, mime, "whatsapp")
				if err != nil {
					h.Logger.Error("webhook.process_failed",
						"media_id", media.ID, "from", msg.From, "error", err)
					h.reply(c, msg.From, "Sorry, something went wrong processing your receipt. Please try again.")
					continue
				}
				h.reply(c, msg.From, summarize(sr))
			}
		}
	}
	c.Status(http.StatusOK)
}

func (h *Handler) reply(c *gin.Context, to, body string) {
	if err := h.Messenger.SendText(c.Request.Context(), to, body); err != nil {
		h.Logger.Error("webhook.reply_failed", "to", to, "error", err)
	}
}

// summarize renders the confirmation message sent back to the user.
func summarize(sr *repository.StoredReceipt) string {
	rec := sr.Record
	var b strings.Builder
	b.WriteString("Receipt recorded: ")
	b.WriteString(rec.MerchantName)
	if rec.TotalAmount != "" {
		fmt.Fprintf(&b, ", %s %s", rec.TotalAmount, rec.CurrencyCode)
	}
	fmt.Fprintf(&b, " on %s", rec.TxDate)
	if rec.TaxAmount != "" {
		fmt.Fprintf(&b, " (tax %s)", rec.TaxAmount)
	}
	if len(rec.LineItems) > 0 {
		fmt.Fprintf(&b, ", %d item(s)", len(rec.LineItems))
	}
	b.WriteString(".")
	if sr.NeedsReview {
		b.WriteString(" I wasn't fully confident reading it — please reply to confirm or correct the details.")
	}
	return b.String()
}

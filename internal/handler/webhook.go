package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"siteship/internal/domain"
	"siteship/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// turnTimeout bounds one background conversation turn, generation included
const turnTimeout = 5 * time.Minute

// MessageHandler runs one conversation turn for an inbound message
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg domain.InboundMessage) error
}

// WebhookHandler receives inbound messages over HTTP
type WebhookHandler struct {
	conversation MessageHandler
	logger       *zap.Logger
}

// NewWebhookHandler creates the webhook handler
func NewWebhookHandler(conversation MessageHandler, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		conversation: conversation,
		logger:       logger,
	}
}

// Router builds the HTTP router with all routes registered
func (h *WebhookHandler) Router() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(h.logger))
	router.Use(middleware.Recovery(h.logger))

	router.POST("/whatsapp-webhook", h.WhatsAppWebhook)
	router.GET("/healthz", h.Healthz)

	return router
}

// WhatsAppWebhook handles Twilio's inbound message callback. The payload is
// validated synchronously; the conversation turn itself runs in the
// background so Twilio gets its response well inside its callback deadline.
// Invalid payloads are acknowledged with 200 so Twilio does not retry what
// can never succeed.
func (h *WebhookHandler) WhatsAppWebhook(c *gin.Context) {
	msg := domain.InboundMessage{
		MessageID:   c.PostForm("SmsMessageSid"),
		From:        stripWhatsAppPrefix(c.PostForm("From")),
		To:          stripWhatsAppPrefix(c.PostForm("To")),
		ProfileName: c.PostForm("ProfileName"),
		Body:        c.PostForm("Body"),
		Platform:    domain.PlatformWhatsApp,
	}

	if err := msg.Validate(); err != nil {
		h.logger.Warn("Rejected webhook payload",
			zap.Error(err),
			zap.String("message_id", msg.MessageID),
		)
		c.JSON(http.StatusOK, gin.H{"ok": false, "reason": "invalid payload"})
		return
	}

	// detach from the request context: the HTTP response goes out now, the
	// turn keeps running
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()

		if err := h.conversation.HandleMessage(ctx, msg); err != nil {
			h.logger.Error("Conversation turn failed",
				zap.Error(err),
				zap.String("message_id", msg.MessageID),
				zap.String("from", msg.From),
			)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Healthz reports process liveness
func (h *WebhookHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func stripWhatsAppPrefix(number string) string {
	return strings.TrimPrefix(number, "whatsapp:")
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"siteship/internal/domain"
	"siteship/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingHandler records HandleMessage calls on a channel so tests can
// observe the background turn
type capturingHandler struct {
	messages chan domain.InboundMessage
}

func newCapturingHandler() *capturingHandler {
	return &capturingHandler{messages: make(chan domain.InboundMessage, 1)}
}

func (h *capturingHandler) HandleMessage(ctx context.Context, msg domain.InboundMessage) error {
	h.messages <- msg
	return nil
}

func (h *capturingHandler) wait(t *testing.T) domain.InboundMessage {
	t.Helper()
	select {
	case msg := <-h.messages:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("conversation turn was never started")
		return domain.InboundMessage{}
	}
}

func postForm(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/whatsapp-webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWhatsAppWebhook_ValidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	conversation := newCapturingHandler()
	router := NewWebhookHandler(conversation, testutil.NewTestLogger()).Router()

	rec := postForm(router, url.Values{
		"SmsMessageSid": {"SM123"},
		"From":          {"whatsapp:+15550001111"},
		"To":            {"whatsapp:+15559998888"},
		"ProfileName":   {"Ada"},
		"Body":          {"menu"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	msg := conversation.wait(t)
	assert.Equal(t, "SM123", msg.MessageID)
	assert.Equal(t, "+15550001111", msg.From)
	assert.Equal(t, "+15559998888", msg.To)
	assert.Equal(t, "Ada", msg.ProfileName)
	assert.Equal(t, "menu", msg.Body)
	assert.Equal(t, domain.PlatformWhatsApp, msg.Platform)
}

func TestWhatsAppWebhook_InvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		form url.Values
	}{
		{
			name: "empty form",
			form: url.Values{},
		},
		{
			name: "missing body",
			form: url.Values{
				"SmsMessageSid": {"SM123"},
				"From":          {"whatsapp:+15550001111"},
			},
		},
		{
			name: "missing sender",
			form: url.Values{
				"SmsMessageSid": {"SM123"},
				"Body":          {"hello"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conversation := newCapturingHandler()
			router := NewWebhookHandler(conversation, testutil.NewTestLogger()).Router()

			rec := postForm(router, tt.form)

			// acknowledged so the sender does not retry
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"ok":false,"reason":"invalid payload"}`, rec.Body.String())

			select {
			case <-conversation.messages:
				t.Fatal("invalid payload must not start a conversation turn")
			case <-time.After(100 * time.Millisecond):
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := NewWebhookHandler(newCapturingHandler(), testutil.NewTestLogger()).Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

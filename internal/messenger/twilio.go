package messenger

import (
	"context"
	"fmt"
	"time"

	"siteship/internal/config"

	"github.com/go-resty/resty/v2"
)

const twilioBaseURL = "https://api.twilio.com"

// TwilioMessenger sends WhatsApp messages through the Twilio REST API
type TwilioMessenger struct {
	client     *resty.Client
	accountSID string
	from       string
}

// NewTwilioMessenger creates a WhatsApp messenger
func NewTwilioMessenger(cfg config.TwilioConfig) *TwilioMessenger {
	client := resty.New().
		SetBaseURL(twilioBaseURL).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetTimeout(30 * time.Second)

	return &TwilioMessenger{
		client:     client,
		accountSID: cfg.AccountSID,
		from:       cfg.FromNumber,
	}
}

// Send delivers one WhatsApp text message
func (m *TwilioMessenger) Send(ctx context.Context, to, text string) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From": "whatsapp:" + m.from,
			"To":   "whatsapp:" + to,
			"Body": text,
		}).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", m.accountSID))
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("twilio send: unexpected status %d", resp.StatusCode())
	}

	return nil
}

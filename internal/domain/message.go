package domain

import "errors"

// Chat platforms
const (
	PlatformWhatsApp = "whatsapp"
	PlatformTelegram = "telegram"
)

// ErrInvalidPayload marks an inbound message that is missing required fields
var ErrInvalidPayload = errors.New("invalid payload")

// InboundMessage is the normalized form of one chat-platform callback,
// produced by the transport layer before any conversation logic runs
type InboundMessage struct {
	MessageID   string
	From        string
	To          string
	ProfileName string
	Body        string
	Platform    string
}

// Validate rejects messages without a message id, sender or body.
// The profile name is optional.
func (m InboundMessage) Validate() error {
	if m.MessageID == "" || m.From == "" || m.Body == "" {
		return ErrInvalidPayload
	}
	return nil
}

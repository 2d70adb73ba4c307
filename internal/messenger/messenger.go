package messenger

import (
	"context"

	"siteship/internal/domain"
)

// Messenger sends one outbound text message to a channel address
type Messenger interface {
	Send(ctx context.Context, to, text string) error
}

// InboundHandler consumes one normalized inbound message. Channel adapters
// call it for every message they receive.
type InboundHandler func(ctx context.Context, msg domain.InboundMessage) error

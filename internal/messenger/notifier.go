package messenger

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers status messages to users across channels. Sends happen
// in call order, and a failed send is logged and swallowed: by the time a
// notice goes out the state change behind it is already durable, so delivery
// is best-effort and must never roll a turn back.
type Notifier struct {
	channels map[string]Messenger
	logger   *zap.Logger
}

// NewNotifier creates an empty notifier
func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{
		channels: make(map[string]Messenger),
		logger:   logger,
	}
}

// Register binds a messenger to a platform tag
func (n *Notifier) Register(platform string, m Messenger) {
	n.channels[platform] = m
}

// Notify sends one text message to the user on the given platform
func (n *Notifier) Notify(ctx context.Context, platform, to, text string) {
	m, ok := n.channels[platform]
	if !ok {
		n.logger.Error("No messenger registered for platform",
			zap.String("platform", platform),
		)
		return
	}

	if err := m.Send(ctx, to, text); err != nil {
		n.logger.Error("Failed to send notification",
			zap.Error(err),
			zap.String("platform", platform),
			zap.String("to", to),
		)
	}
}

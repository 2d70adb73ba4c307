package messenger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"siteship/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// TelegramChannel bridges Telegram to the conversation flow: inbound text
// updates are normalized into InboundMessage records, and replies are sent
// back through the same bot. The chat id doubles as the channel address.
type TelegramChannel struct {
	bot    *tele.Bot
	handle InboundHandler
	logger *zap.Logger
}

// NewTelegramChannel creates the Telegram bridge
func NewTelegramChannel(token string, handle InboundHandler, logger *zap.Logger) (*TelegramChannel, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	ch := &TelegramChannel{bot: bot, handle: handle, logger: logger}
	bot.Handle(tele.OnText, ch.onText)

	return ch, nil
}

func (ch *TelegramChannel) onText(c tele.Context) error {
	msg := domain.InboundMessage{
		MessageID:   strconv.Itoa(c.Message().ID),
		From:        strconv.FormatInt(c.Chat().ID, 10),
		ProfileName: c.Sender().FirstName,
		Body:        c.Text(),
		Platform:    domain.PlatformTelegram,
	}

	// handled off the poller goroutine so one slow turn does not stall
	// every other chat
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := ch.handle(ctx, msg); err != nil {
			ch.logger.Error("Failed to handle telegram message",
				zap.Error(err),
				zap.String("chat_id", msg.From),
			)
		}
	}()

	return nil
}

// Send delivers one Telegram text message; to is the chat id
func (ch *TelegramChannel) Send(ctx context.Context, to, text string) error {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram send: invalid chat id %q", to)
	}

	if _, err := ch.bot.Send(&tele.Chat{ID: chatID}, text); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Start begins long polling; it blocks until Stop is called
func (ch *TelegramChannel) Start() {
	ch.bot.Start()
}

// Stop shuts the poller down
func (ch *TelegramChannel) Stop() {
	ch.bot.Stop()
}

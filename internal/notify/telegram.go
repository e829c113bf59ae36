package notify

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/go-telegram/bot"

	"github.com/Zaki4gg/asiq-tix/internal/models"
	"github.com/Zaki4gg/asiq-tix/pkg/logger"
)

// TelegramNotifier posts sale and redemption notices to a configured
// operations chat. Delivery is best effort and never blocks or fails the
// originating request.
type TelegramNotifier struct {
	logger *logger.Logger
	bot    *bot.Bot
	chatID string
}

func NewTelegramNotifier(logger *logger.Logger, token, chatID string) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{logger: logger, bot: b, chatID: chatID}, nil
}

func (t *TelegramNotifier) send(text string) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Telegram notification panicked", " panic ", r, " stack ", string(debug.Stack()))
		}
	}()

	_, err := t.bot.SendMessage(context.Background(), &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   text,
	})
	if err != nil {
		t.logger.Error("Failed to send telegram notification: ", err)
	}
}

func (t *TelegramNotifier) NotifyPurchase(event *models.Event, buyer string, quantity int) {
	go t.send(fmt.Sprintf("Sold %d ticket(s) for %q to %s", quantity, event.Title, buyer))
}

func (t *TelegramNotifier) NotifyScan(event *models.Event, ticketID, promoter string) {
	go t.send(fmt.Sprintf("Ticket %s redeemed at %q by %s", ticketID, event.Title, promoter))
}

package messaging

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"marquee/internal/config"
)

// Inbound is one received chat message.
type Inbound struct {
	ID   int64
	Text string
}

// Messenger is the messaging-channel surface the core calls. Message text may
// use the restricted Telegram HTML subset (bold, hyperlink).
type Messenger interface {
	SendMessage(ctx context.Context, text string) error
	PollInboundSince(ctx context.Context, cursor int64) ([]Inbound, error)
	TestConnection(ctx context.Context) error
}

// Telegram implements Messenger against the Telegram Bot API.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

var _ Messenger = (*Telegram)(nil)

// NewTelegram connects a bot client for the configured channel.
func NewTelegram(cfg *config.Config) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: cfg.Telegram.ChatID}, nil
}

// SendMessage delivers one HTML-formatted message to the configured chat.
func (t *Telegram) SendMessage(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// PollInboundSince fetches messages newer than the cursor from the configured
// chat. Updates from other chats still advance the cursor upstream but are not
// returned.
func (t *Telegram) PollInboundSince(ctx context.Context, cursor int64) ([]Inbound, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	updateCfg := tgbotapi.NewUpdate(int(cursor) + 1)
	updateCfg.Timeout = 0
	updates, err := t.bot.GetUpdates(updateCfg)
	if err != nil {
		return nil, fmt.Errorf("poll telegram updates: %w", err)
	}

	inbound := make([]Inbound, 0, len(updates))
	for _, update := range updates {
		if update.Message == nil || update.Message.Chat == nil {
			continue
		}
		if update.Message.Chat.ID != t.chatID {
			continue
		}
		inbound = append(inbound, Inbound{
			ID:   int64(update.UpdateID),
			Text: update.Message.Text,
		})
	}
	return inbound, nil
}

// TestConnection verifies the bot token by asking Telegram who the bot is.
func (t *Telegram) TestConnection(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.GetMe(); err != nil {
		return fmt.Errorf("telegram connection test: %w", err)
	}
	return nil
}

package human

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramAsker sends the agent's question to a Telegram chat and waits, via
// long polling, for the next text message from that chat.
type TelegramAsker struct {
	token  string
	chatID int64

	mu      sync.Mutex
	bot     *tgbotapi.BotAPI
	updates tgbotapi.UpdatesChannel
}

// NewTelegramAsker creates a TelegramAsker for the given bot token and chat.
func NewTelegramAsker(token string, chatID int64) *TelegramAsker {
	return &TelegramAsker{token: token, chatID: chatID}
}

// Ask posts the question to the chat and blocks until a reply arrives from
// the same chat or ctx is cancelled. Messages from other chats are ignored.
func (t *TelegramAsker) Ask(ctx context.Context, question string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.connectLocked(); err != nil {
		return "", err
	}

	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, question)); err != nil {
		return "", fmt.Errorf("telegram: send question: %w", err)
	}

	for {
		select {
		case update, ok := <-t.updates:
			if !ok {
				return "", fmt.Errorf("telegram: update stream closed")
			}
			msg := update.Message
			if msg == nil || msg.Chat == nil || msg.Chat.ID != t.chatID {
				continue
			}
			text := strings.TrimSpace(msg.Text)
			if text == "" {
				continue
			}
			return text, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// connectLocked lazily creates the bot and starts the update channel.
func (t *TelegramAsker) connectLocked() error {
	if t.bot != nil {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(t.token)
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}
	slog.Info("telegram asker connected", "username", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	t.bot = bot
	t.updates = bot.GetUpdatesChan(u)
	return nil
}

// Close stops the long-polling loop.
func (t *TelegramAsker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bot != nil {
		t.bot.StopReceivingUpdates()
	}
}

package human

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	slackgo "github.com/slack-go/slack"
)

// slackPollInterval is how often the asker checks the channel for a reply.
const slackPollInterval = 2 * time.Second

// SlackAsker posts the agent's question to a Slack channel and polls the
// channel history until a person (anyone who is not a bot) replies after it.
type SlackAsker struct {
	client    *slackgo.Client
	channelID string

	mu        sync.Mutex
	botUserID string
}

// NewSlackAsker creates a SlackAsker for the given bot token and channel.
func NewSlackAsker(token, channelID string) *SlackAsker {
	return &SlackAsker{
		client:    slackgo.New(token),
		channelID: channelID,
	}
}

// Ask posts the question and blocks until a human reply shows up in the
// channel or ctx is cancelled.
func (s *SlackAsker) Ask(ctx context.Context, question string) (string, error) {
	s.resolveBotUser(ctx)

	_, ts, err := s.client.PostMessageContext(ctx, s.channelID,
		slackgo.MsgOptionText(question, false))
	if err != nil {
		return "", fmt.Errorf("slack: post question: %w", err)
	}

	ticker := time.NewTicker(slackPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			reply, err := s.findReplyAfter(ctx, ts)
			if err != nil {
				slog.Warn("slack: history poll failed", "err", err)
				continue
			}
			if reply != "" {
				return reply, nil
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// findReplyAfter returns the earliest human message posted after the given
// timestamp, or "" when none has arrived yet.
func (s *SlackAsker) findReplyAfter(ctx context.Context, ts string) (string, error) {
	history, err := s.client.GetConversationHistoryContext(ctx, &slackgo.GetConversationHistoryParameters{
		ChannelID: s.channelID,
		Oldest:    ts,
		Limit:     20,
	})
	if err != nil {
		return "", err
	}

	// History is newest-first; walk backwards for the earliest reply.
	for i := len(history.Messages) - 1; i >= 0; i-- {
		msg := history.Messages[i]
		if msg.Timestamp == ts || msg.BotID != "" || msg.SubType != "" {
			continue
		}
		if s.botUserID != "" && msg.User == s.botUserID {
			continue
		}
		if text := strings.TrimSpace(msg.Text); text != "" {
			return text, nil
		}
	}
	return "", nil
}

func (s *SlackAsker) resolveBotUser(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.botUserID != "" {
		return
	}
	if resp, err := s.client.AuthTestContext(ctx); err == nil {
		s.botUserID = resp.UserID
		slog.Info("slack asker connected", "bot_user_id", s.botUserID)
	}
}

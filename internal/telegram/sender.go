package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
)

const MaxMessageLen = 4096

// Sender delivers drained pipeline payloads to Telegram chats. Summaries
// can exceed the message length limit and are split; notifications are
// short operational texts sent as-is.
type Sender struct {
	bot *bot.Bot
}

func NewSender(b *bot.Bot) *Sender {
	return &Sender{bot: b}
}

func (s *Sender) SendSummary(ctx context.Context, chatID int64, text string) error {
	for _, part := range SplitMessage(text, MaxMessageLen) {
		_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   part,
		})
		if err != nil {
			return fmt.Errorf("send summary part: %w", err)
		}
	}
	return nil
}

func (s *Sender) SendNotification(ctx context.Context, chatID int64, text string) error {
	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// SplitMessage splits text into chunks of at most maxLen runes, preferring
// to break at a newline in the second half of a chunk.
func SplitMessage(text string, maxLen int) []string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return []string{text}
	}

	var parts []string
	for len(runes) > 0 {
		if len(runes) <= maxLen {
			parts = append(parts, string(runes))
			break
		}

		splitAt := maxLen
		if i := strings.LastIndex(string(runes[:maxLen]), "\n"); i >= 0 {
			if n := len([]rune(string(runes[:maxLen])[:i])); n > maxLen/2 {
				splitAt = n + 1
			}
		}

		parts = append(parts, string(runes[:splitAt]))
		runes = runes[splitAt:]
	}

	return parts
}

package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramMaxText is the Bot API limit on message text, counted in UTF-16
// code units after HTML entities are parsed.
const telegramMaxText = 4096

// messageSender is the subset of *tgbotapi.BotAPI the notifier uses.
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts reminders to a fixed Telegram chat.
type TelegramNotifier struct {
	bot    messageSender
	chatID int64
}

// NewTelegramNotifier connects to the Bot API with token.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if token == "" {
		return nil, errors.New("telegram token is required")
	}
	if chatID == 0 {
		return nil, errors.New("telegram chat id is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: api, chatID: chatID}, nil
}

var _ Notifier = (*TelegramNotifier)(nil)

// Send implements Notifier. The recipient is included in the message text
// because the destination chat is fixed.
func (n *TelegramNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return deliveryError("telegram", recipient, err)
	}

	subject = truncateUTF16(subject, telegramMaxText/4)
	header := utf16Len(subject) + utf16Len(recipient) + len("\nfor \n\n")
	content := truncateUTF16(plainText(body), telegramMaxText-header)

	text := fmt.Sprintf("<b>%s</b>\n<i>for %s</i>\n\n%s",
		html.EscapeString(subject),
		html.EscapeString(recipient),
		html.EscapeString(content))

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		return deliveryError("telegram", recipient, err)
	}
	return nil
}

var (
	blockEnd   = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</li>|</h[1-6]>`)
	anyTag     = regexp.MustCompile(`<[^>]*>`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// plainText reduces an HTML body to text for chat delivery.
func plainText(body string) string {
	s := blockEnd.ReplaceAllString(body, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// truncateUTF16 shortens s to at most max UTF-16 code units, marking the cut
// with an ellipsis.
func truncateUTF16(s string, max int) string {
	if utf16Len(s) <= max {
		return s
	}
	if max <= 0 {
		return ""
	}
	n := 0
	for i, r := range s {
		w := utf16.RuneLen(r)
		if n+w > max-1 {
			return strings.TrimRightFunc(s[:i], unicode.IsSpace) + "…"
		}
		n += w
	}
	return s
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

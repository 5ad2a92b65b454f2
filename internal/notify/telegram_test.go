package notify

import (
	"context"
	"errors"
	"html"
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestTelegramNotifier_Send(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	n := &TelegramNotifier{bot: sender, chatID: 42}

	body := "<html><body><p>Task: <strong>Fix &lt;tag&gt;</strong></p><p>Deadline: soon</p></body></html>"
	require.NoError(t, n.Send(context.Background(), "u@x.com", "Reminder: Fix <tag>", body))

	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Equal(t,
		"<b>Reminder: Fix &lt;tag&gt;</b>\n<i>for u@x.com</i>\n\nTask: Fix &lt;tag&gt;\nDeadline: soon",
		msg.Text)
}

func TestTelegramNotifier_SendTruncatesLongText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		subject string
		body    string
	}{
		{"ascii body", "Reminder: Report", "<p>" + strings.Repeat("x", 5000) + "</p>"},
		{"entities in body", "Reminder: Report", strings.Repeat("&lt;", 5000)},
		{"astral runes", "Reminder: " + strings.Repeat("😀", 1500), strings.Repeat("😀", 3000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := &fakeSender{}
			n := &TelegramNotifier{bot: sender, chatID: 42}
			require.NoError(t, n.Send(context.Background(), "u@x.com", tt.subject, tt.body))

			require.Len(t, sender.sent, 1)
			msg := sender.sent[0].(tgbotapi.MessageConfig)
			visible := html.UnescapeString(anyTag.ReplaceAllString(msg.Text, ""))

			assert.True(t, utf8.ValidString(msg.Text))
			assert.LessOrEqual(t, utf16Len(visible), telegramMaxText)
			assert.True(t, strings.HasSuffix(visible, "…"))
			assert.Contains(t, visible, "for u@x.com")
		})
	}
}

func TestTruncateUTF16(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncateUTF16("short", 5))
	assert.Equal(t, "shor…", truncateUTF16("shorter", 5))
	assert.Equal(t, "a…", truncateUTF16("a 😀😀", 4), "trailing space is dropped before the ellipsis")
	assert.Equal(t, "😀…", truncateUTF16("😀😀😀", 4), "a surrogate pair is never split")
	assert.Equal(t, "", truncateUTF16("abc", 0))
}

func TestTelegramNotifier_SendError(t *testing.T) {
	t.Parallel()

	cause := errors.New("Too Many Requests: retry after 5")
	n := &TelegramNotifier{bot: &fakeSender{err: cause}, chatID: 42}

	err := n.Send(context.Background(), "u@x.com", "s", "b")
	assert.True(t, IsDeliveryError(err))
	assert.ErrorIs(t, err, cause)
}

func TestNewTelegramNotifier_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTelegramNotifier("", 1)
	assert.Error(t, err)
	_, err = NewTelegramNotifier("token", 0)
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"paragraphs", "<p>a</p><p>b</p>", "a\nb"},
		{"breaks", "a<br>b<br/>c", "a\nb\nc"},
		{"entities", "<p>&amp; &lt;x&gt;</p>", "& <x>"},
		{"blank lines collapse", "<p>a</p>\n\n\n\n<p>b</p>", "a\n\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plainText(tt.in))
		})
	}
}

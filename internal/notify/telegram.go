package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultTelegramAPIBase is the Telegram Bot API endpoint.
const DefaultTelegramAPIBase = "https://api.telegram.org"

// TelegramMessenger sends messages to a fixed chat via the Bot API.
type TelegramMessenger struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// NewTelegramMessenger creates a messenger for the given bot token and
// destination chat. A missing token or chat id returns the no-op
// messenger (relay disabled, skipped silently).
func NewTelegramMessenger(botToken, chatID, baseURL string) Messenger {
	if botToken == "" || chatID == "" {
		return NopMessenger{}
	}
	if baseURL == "" {
		baseURL = DefaultTelegramAPIBase
	}
	return &TelegramMessenger{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   outboundClient,
	}
}

type telegramSendMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Send posts text to the configured chat.
func (m *TelegramMessenger) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(telegramSendMessage{ChatID: m.chatID, Text: text})
	if err != nil {
		return fmt.Errorf("telegram send marshal: %w", err)
	}

	endpoint := m.baseURL + "/bot" + m.botToken + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram send: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

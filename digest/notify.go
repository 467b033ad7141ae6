// ABOUTME: Notification sinks for digests and reminders
// ABOUTME: Plain writer output and Telegram Bot API delivery to each configured chat
package digest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/harperreed/voss/logging"
)

// Notifier delivers one message.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// WriterNotifier prints messages, separated by a blank line.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(_ context.Context, text string) error {
	_, err := fmt.Fprintf(n.W, "%s\n\n", text)
	return err
}

type TelegramNotifier struct {
	token   string
	chatIDs []string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewTelegramNotifier(token string, chatIDs []string, baseURL string, logger *slog.Logger) *TelegramNotifier {
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &TelegramNotifier{
		token:   token,
		chatIDs: chatIDs,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logging.OrDiscard(logger),
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Notify sends text to every chat. A failing chat is logged and skipped; an
// error is returned only when no chat received the message.
func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if n.token == "" || len(n.chatIDs) == 0 {
		return errors.New("telegram is not configured")
	}

	var errs []error
	for _, chatID := range n.chatIDs {
		if err := n.send(ctx, chatID, text); err != nil {
			n.logger.ErrorContext(ctx, "telegram send failed", "chat_id", chatID, "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == len(n.chatIDs) {
		return fmt.Errorf("failed to send telegram message: %w", errors.Join(errs...))
	}
	return nil
}

func (n *TelegramNotifier) send(ctx context.Context, chatID, text string) error {
	data, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text, ParseMode: "Markdown"})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

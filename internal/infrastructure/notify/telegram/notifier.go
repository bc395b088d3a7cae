// Package telegram provides a Notifier implementation using the Telegram
// Bot API over plain HTTP.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/infrastructure/config"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier pushes draft updates into the review chat. Each draft has at
// most one chat message showing it: a draft with an externalRef pointing at
// this chat gets its message edited in place, otherwise a new message is
// sent and the fresh ref returned.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// NewNotifier creates a Telegram notifier.
func NewNotifier(cfg config.TelegramConfig) (*Notifier, error) {
	if cfg.BotToken == "" {
		return nil, errors.New("telegram bot token is required")
	}
	if cfg.ChatID == "" {
		return nil, errors.New("telegram chat id is required")
	}

	return &Notifier{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// NotifyDraftUpdated sends or edits the chat message for the draft and
// returns the message ref ("chatID:messageID").
func (n *Notifier) NotifyDraftUpdated(ctx context.Context, draft *entities.Draft, note string) (string, error) {
	text := formatDraftMessage(draft, note)

	if chatID, messageID, ok := splitRef(draft.ExternalRef); ok && chatID == n.chatID {
		if err := n.editMessage(ctx, messageID, text); err != nil {
			return "", err
		}
		return draft.ExternalRef, nil
	}

	messageID, err := n.sendMessage(ctx, text)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", n.chatID, messageID), nil
}

func (n *Notifier) sendMessage(ctx context.Context, text string) (int64, error) {
	payload := map[string]any{
		"chat_id": n.chatID,
		"text":    text,
	}

	var result struct {
		MessageID int64 `json:"message_id"`
	}
	if err := n.call(ctx, "sendMessage", payload, &result); err != nil {
		return 0, err
	}
	return result.MessageID, nil
}

func (n *Notifier) editMessage(ctx context.Context, messageID int64, text string) error {
	payload := map[string]any{
		"chat_id":    n.chatID,
		"message_id": messageID,
		"text":       text,
	}
	return n.call(ctx, "editMessageText", payload, nil)
}

// call posts to a Bot API method and decodes the result envelope.
func (n *Notifier) call(ctx context.Context, method string, payload map[string]any, result any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", n.apiBase, n.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling telegram: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		OK     bool            `json:"ok"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding telegram response: %w", err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram API rejected %s", method)
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("decoding telegram result: %w", err)
		}
	}
	return nil
}

// formatDraftMessage renders the draft for the review chat.
func formatDraftMessage(draft *entities.Draft, note string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 %s [%s]\n", draft.Subject, draft.Status)
	if note != "" {
		fmt.Fprintf(&b, "(%s)\n", note)
	}
	b.WriteString("\n")
	if draft.Text != "" {
		b.WriteString(draft.Text)
	} else {
		b.WriteString("(no text yet)")
	}
	if draft.ImageRef != "" {
		fmt.Fprintf(&b, "\n\n🖼 %s", draft.ImageRef)
	}
	return b.String()
}

// splitRef parses a "chatID:messageID" ref.
func splitRef(ref string) (chatID string, messageID int64, ok bool) {
	idx := strings.LastIndex(ref, ":")
	if idx <= 0 || idx == len(ref)-1 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(ref[idx+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return ref[:idx], id, true
}

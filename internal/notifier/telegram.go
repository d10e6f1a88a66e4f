package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"RSIDashboard/internal/logger"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the Telegram Bot API host.
const DefaultBaseURL = "https://api.telegram.org"

// Config configures the Telegram notifier.
type Config struct {
	BotToken string
	ChatID   string
	Proxy    string
	BaseURL  string
	Timeout  time.Duration
	// Backoff is the first retry delay; it doubles on every attempt.
	Backoff time.Duration
	// PollTimeout is the long-polling window passed to getUpdates.
	PollTimeout time.Duration
	Logger      *zerolog.Logger
}

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	token       string
	chatID      string
	http        *resty.Client
	backoff     time.Duration
	pollTimeout time.Duration
	log         *zerolog.Logger
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(cfg Config) *TelegramNotifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		// getUpdates holds the connection for the whole polling window.
		SetTimeout(cfg.Timeout + cfg.PollTimeout)
	if cfg.Proxy != "" {
		client.SetProxy(cfg.Proxy)
	}
	return &TelegramNotifier{
		token:       cfg.BotToken,
		chatID:      cfg.ChatID,
		http:        client,
		backoff:     cfg.Backoff,
		pollTimeout: cfg.PollTimeout,
		log:         cfg.Logger,
	}
}

// Enabled reports whether both the bot token and the chat are configured.
func (t *TelegramNotifier) Enabled() bool {
	return t != nil && t.token != "" && t.chatID != ""
}

func (t *TelegramNotifier) method(name string) string {
	return "/bot" + t.token + "/" + name
}

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	resp, err := t.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id":    t.chatID,
			"text":       text,
			"parse_mode": "HTML",
		}).
		Post(t.method("sendMessage"))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	if ok := gjson.GetBytes(resp.Body(), "ok"); ok.Exists() && !ok.Bool() {
		return fmt.Errorf("telegram API error: %s", gjson.GetBytes(resp.Body(), "description").String())
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := t.Send(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := t.backoff << uint(i)
		t.log.Warn().Err(err).
			Int("attempt", i+1).
			Int("max", maxRetries+1).
			Dur("backoff", backoff).
			Msg("telegram send failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// CommandHandler is called when a user command is received. An empty reply sends nothing.
type CommandHandler func(ctx context.Context, command string) string

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	t.log.Info().Msg("telegram polling started")
	offset := 0
	for {
		select {
		case <-ctx.Done():
			t.log.Info().Msg("telegram polling stopped")
			return
		default:
		}

		next, err := t.pollOnce(ctx, offset, handler)
		if err != nil {
			if ctx.Err() != nil {
				t.log.Info().Msg("telegram polling stopped")
				return
			}
			t.log.Warn().Err(err).Msg("polling request failed")
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
			continue
		}
		offset = next
	}
}

// pollOnce fetches one batch of updates, answers every command and returns the next offset.
func (t *TelegramNotifier) pollOnce(ctx context.Context, offset int, handler CommandHandler) (int, error) {
	resp, err := t.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset":  strconv.Itoa(offset),
			"timeout": strconv.Itoa(int(t.pollTimeout / time.Second)),
		}).
		Get(t.method("getUpdates"))
	if err != nil {
		return offset, fmt.Errorf("get updates: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return offset, fmt.Errorf("get updates: status %d", resp.StatusCode())
	}

	for _, update := range gjson.GetBytes(resp.Body(), "result").Array() {
		offset = int(update.Get("update_id").Int()) + 1
		text := strings.TrimSpace(update.Get("message.text").String())
		if text == "" {
			continue
		}
		t.log.Info().Str("command", text).Msg("received command")
		if reply := handler(ctx, text); reply != "" {
			if err := t.Send(ctx, reply); err != nil {
				t.log.Error().Err(err).Msg("send reply")
			}
		}
	}
	return offset, nil
}

package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"RSIDashboard/internal/model"

	"github.com/peterldowns/testy/assert"
)

type telegramServer struct {
	*httptest.Server
	mu       sync.Mutex
	failures int
	sent     []map[string]string
	updates  string
	queries  []string
}

func newTelegramServer(t *testing.T) *telegramServer {
	ts := &telegramServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/botTOKEN/sendMessage":
			if ts.failures > 0 {
				ts.failures--
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = io.WriteString(w, `{"ok":false,"description":"Too Many Requests"}`)
				return
			}
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			ts.sent = append(ts.sent, body)
			_, _ = io.WriteString(w, `{"ok":true}`)
		case "/botTOKEN/getUpdates":
			ts.queries = append(ts.queries, r.URL.RawQuery)
			_, _ = io.WriteString(w, ts.updates)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *telegramServer) messages() []map[string]string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]map[string]string(nil), ts.sent...)
}

func newTestNotifier(ts *telegramServer) *TelegramNotifier {
	return NewTelegramNotifier(Config{
		BotToken:    "TOKEN",
		ChatID:      "42",
		BaseURL:     ts.URL,
		Backoff:     time.Millisecond,
		PollTimeout: time.Second,
	})
}

func signal(coin string, entry model.Entry, position model.Position) model.Record {
	return model.NewSignalRecord(model.Signal{
		Coin:         coin,
		CurrentPrice: "1.5",
		Trend:        model.TrendBullish,
		SpotMacroRSI: model.Float(28.5),
		Entry:        entry,
		Position:     position,
	})
}

func TestSend(t *testing.T) {
	ts := newTelegramServer(t)
	n := newTestNotifier(ts)
	assert.True(t, n.Enabled())

	assert.NoError(t, n.Send(context.Background(), "hello"))
	msgs := ts.messages()
	assert.Equal(t, len(msgs), 1)
	assert.Equal(t, msgs[0]["chat_id"], "42")
	assert.Equal(t, msgs[0]["text"], "hello")
	assert.Equal(t, msgs[0]["parse_mode"], "HTML")
}

func TestSendWithRetry(t *testing.T) {
	ts := newTelegramServer(t)
	ts.failures = 2
	n := newTestNotifier(ts)

	assert.NoError(t, n.SendWithRetry(context.Background(), "retry me", 3))
	assert.Equal(t, len(ts.messages()), 1)

	ts.mu.Lock()
	ts.failures = 10
	ts.mu.Unlock()
	err := n.SendWithRetry(context.Background(), "give up", 1)
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "all 2 retries exhausted"))
}

func TestEnabled(t *testing.T) {
	assert.False(t, NewTelegramNotifier(Config{ChatID: "1"}).Enabled())
	assert.False(t, NewTelegramNotifier(Config{BotToken: "x"}).Enabled())
	var n *TelegramNotifier
	assert.False(t, n.Enabled())
}

func TestPollOnce(t *testing.T) {
	ts := newTelegramServer(t)
	ts.updates = `{"ok":true,"result":[
		{"update_id":7,"message":{"text":" /signals "}},
		{"update_id":8,"message":{"text":""}},
		{"update_id":9,"edited_message":{"text":"/sentiment"}}
	]}`
	n := newTestNotifier(ts)

	var got []string
	next, err := n.pollOnce(context.Background(), 5, func(_ context.Context, cmd string) string {
		got = append(got, cmd)
		return "reply to " + cmd
	})
	assert.NoError(t, err)
	assert.Equal(t, next, 10)
	assert.Equal(t, got, []string{"/signals"})

	msgs := ts.messages()
	assert.Equal(t, len(msgs), 1)
	assert.Equal(t, msgs[0]["text"], "reply to /signals")

	ts.mu.Lock()
	defer ts.mu.Unlock()
	assert.Equal(t, ts.queries, []string{"offset=5&timeout=1"})
}

func TestDiff(t *testing.T) {
	prev := snapshot([]model.Record{
		signal("BTC", model.EntryBuy, model.PositionDCA),
		signal("ETH", model.EntryWait, model.PositionHold),
	})
	curr := []model.Record{
		signal("BTC", model.EntryBuy, model.PositionDCA),
		signal("ETH", model.EntryWait, model.PositionReduce),
		model.NewFailureRecord("NOPE", "Symbol not found"),
		signal("SOL", model.EntryWait, model.PositionHold),
		signal("XRP", model.EntryBuy, model.PositionWait),
		signal("XRP", model.EntryBuy, model.PositionWait),
	}

	alerts := diff(prev, curr)
	assert.Equal(t, len(alerts), 2)
	assert.Equal(t, alerts[0].Coin, "ETH")
	assert.Equal(t, alerts[0].Position, model.PositionReduce)
	assert.Equal(t, alerts[1].Coin, "XRP")
}

type fakeSender struct {
	texts []string
	err   error
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.texts = append(f.texts, text)
	return f.err
}

func TestAlerter(t *testing.T) {
	sender := &fakeSender{}
	a := NewAlerter(sender, nil)
	ctx := context.Background()

	first := []model.Record{signal("BTC", model.EntryBuy, model.PositionDCA)}
	assert.Equal(t, len(a.Observe(first)), 0)
	assert.Equal(t, len(a.Observe(first)), 0)

	second := []model.Record{
		signal("BTC", model.EntryWait, model.PositionReduce),
		signal("ETH", model.EntryWait, model.PositionHold),
	}
	alerts := a.Observe(second)
	assert.Equal(t, len(alerts), 1)

	fear := 20
	assert.NoError(t, a.Notify(ctx, alerts, model.Sentiment{Value: &fear, Classification: "Extreme Fear"}))
	assert.Equal(t, len(sender.texts), 1)
	assert.True(t, strings.Contains(sender.texts[0], "<b>BTC</b>"))
	assert.True(t, strings.Contains(sender.texts[0], "Reduce/Look for Exit"))
	assert.True(t, strings.Contains(sender.texts[0], "<b>20</b> (Extreme Fear)"))

	assert.NoError(t, a.Notify(ctx, nil, model.UnavailableSentiment()))
	assert.Equal(t, len(sender.texts), 1)

	sender.err = errors.New("blocked")
	assert.Error(t, a.Notify(ctx, alerts, model.UnavailableSentiment()))

	assert.NoError(t, NewAlerter(nil, nil).Notify(ctx, alerts, model.UnavailableSentiment()))
}

func TestFormatSignals(t *testing.T) {
	out := FormatSignals([]model.Record{
		signal("BTC", model.EntryBuy, model.PositionHold),
		signal("ETH", model.EntryWait, model.PositionHold),
		model.NewFailureRecord("NOPE", "Symbol not found"),
	})
	assert.True(t, strings.Contains(out, "<b>BTC</b> 1.5 | Entry: Buy | Position: Hold | RSI 1w: 28.50"))
	assert.False(t, strings.Contains(out, "ETH"))

	assert.True(t, strings.Contains(FormatSignals(nil), "No coin is at"))
	assert.Equal(t, FormatSentiment(model.UnavailableSentiment()), "😶 Fear &amp; Greed: Unavailable")
	assert.Equal(t, FormatRSI(nil), "n/a")
}

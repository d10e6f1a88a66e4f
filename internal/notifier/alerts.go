package notifier

import (
	"context"
	"sync"

	"RSIDashboard/internal/logger"
	"RSIDashboard/internal/model"

	"github.com/rs/zerolog"
)

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Alert is an actionable coin whose recommendation changed since the previous run.
type Alert struct {
	Coin     string
	Price    string
	Trend    model.Trend
	Entry    model.Entry
	Position model.Position
	RSI      *float64
}

// Actionable reports a Buy entry or a DCA / Reduce position.
func Actionable(s *model.Signal) bool {
	return s.Entry == model.EntryBuy ||
		s.Position == model.PositionDCA ||
		s.Position == model.PositionReduce
}

type recommendation struct {
	entry    model.Entry
	position model.Position
}

func snapshot(records []model.Record) map[string]recommendation {
	out := make(map[string]recommendation, len(records))
	for _, r := range records {
		if !r.OK() {
			continue
		}
		if _, seen := out[r.Signal.Coin]; seen {
			continue
		}
		out[r.Signal.Coin] = recommendation{entry: r.Signal.Entry, position: r.Signal.Position}
	}
	return out
}

// diff returns the actionable signals in curr whose entry or position differs from prev.
// A coin listed more than once is reported once.
func diff(prev map[string]recommendation, curr []model.Record) []Alert {
	var alerts []Alert
	seen := make(map[string]bool)
	for _, r := range curr {
		if !r.OK() || seen[r.Signal.Coin] {
			continue
		}
		s := r.Signal
		seen[s.Coin] = true
		if !Actionable(s) {
			continue
		}
		if old, ok := prev[s.Coin]; ok && old.entry == s.Entry && old.position == s.Position {
			continue
		}
		alerts = append(alerts, Alert{
			Coin:     s.Coin,
			Price:    s.CurrentPrice,
			Trend:    s.Trend,
			Entry:    s.Entry,
			Position: s.Position,
			RSI:      s.SpotMacroRSI,
		})
	}
	return alerts
}

// Alerter remembers the previous run's recommendations and reports transitions.
type Alerter struct {
	sender  Sender
	retries int
	log     *zerolog.Logger

	mu     sync.Mutex
	prev   map[string]recommendation
	primed bool
}

// NewAlerter creates an Alerter. A nil sender turns Notify into a no-op.
func NewAlerter(sender Sender, log *zerolog.Logger) *Alerter {
	if log == nil {
		log = logger.Nop()
	}
	return &Alerter{sender: sender, retries: 3, log: log}
}

// Observe records a run and returns the alerts it raises.
// The first run only primes the state, so a restart does not repeat every standing signal.
func (a *Alerter) Observe(records []model.Record) []Alert {
	a.mu.Lock()
	defer a.mu.Unlock()

	alerts := diff(a.prev, records)
	a.prev = snapshot(records)
	if !a.primed {
		a.primed = true
		return nil
	}
	return alerts
}

// Notify sends one message for alerts. It does nothing when there is nothing to say.
func (a *Alerter) Notify(ctx context.Context, alerts []Alert, sentiment model.Sentiment) error {
	if a.sender == nil || len(alerts) == 0 {
		return nil
	}
	if err := a.sender.SendWithRetry(ctx, FormatAlerts(alerts, sentiment), a.retries); err != nil {
		return err
	}
	a.log.Info().Int("alerts", len(alerts)).Msg("signal alerts sent")
	return nil
}

package notifier

import (
	"fmt"
	"strings"

	"RSIDashboard/internal/model"
)

// FormatRSI renders an optional RSI value.
func FormatRSI(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

// FormatSentiment formats the Fear & Greed reading.
func FormatSentiment(s model.Sentiment) string {
	if !s.Known() {
		return "😶 Fear &amp; Greed: Unavailable"
	}
	return fmt.Sprintf("🧭 Fear &amp; Greed: <b>%d</b> (%s)", *s.Value, s.Classification)
}

func formatLine(coin, price string, entry model.Entry, position model.Position, rsi *float64) string {
	return fmt.Sprintf("• <b>%s</b> %s | Entry: %s | Position: %s | RSI 1w: %s\n",
		coin, price, entry, position, FormatRSI(rsi))
}

// FormatAlerts formats changed actionable signals into one Telegram message.
func FormatAlerts(alerts []Alert, sentiment model.Sentiment) string {
	var b strings.Builder
	b.WriteString("📊 <b>RSI Dashboard</b> | signal changes\n\n")
	for _, a := range alerts {
		b.WriteString(formatLine(a.Coin, a.Price, a.Entry, a.Position, a.RSI))
	}
	b.WriteString("\n")
	b.WriteString(FormatSentiment(sentiment))
	return b.String()
}

// FormatSignals lists every actionable coin of a run.
func FormatSignals(records []model.Record) string {
	var b strings.Builder
	b.WriteString("📈 <b>Actionable coins</b>\n\n")
	n := 0
	for _, r := range records {
		if !r.OK() || !Actionable(r.Signal) {
			continue
		}
		s := r.Signal
		b.WriteString(formatLine(s.Coin, s.CurrentPrice, s.Entry, s.Position, s.SpotMacroRSI))
		n++
	}
	if n == 0 {
		b.WriteString("No coin is at Buy, DCA or Reduce.\n")
	}
	return b.String()
}

// Help lists the supported commands.
const Help = "Available commands:\n• /signals\n• /sentiment"

package strategy

import (
	"testing"

	"RSIDashboard/internal/model"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want model.Trend
	}{
		{
			name: "bullish",
			in:   Inputs{EMA21w: f(100), SMA300d: f(80), SMA400d: f(90), Price: 105},
			want: model.TrendBullish,
		},
		{
			name: "neutral above sma400",
			in:   Inputs{EMA21w: f(100), SMA300d: f(80), SMA400d: f(90), Price: 95},
			want: model.TrendNeutral,
		},
		{
			name: "bearish",
			in:   Inputs{EMA21w: f(80), SMA300d: f(90), SMA400d: f(85), Price: 70},
			want: model.TrendBearish,
		},
		{
			name: "neutral below sma300, price above ema",
			in:   Inputs{EMA21w: f(80), SMA300d: f(90), SMA400d: f(85), Price: 82},
			want: model.TrendNeutral,
		},
		{
			name: "ema between sma300 and sma400 falls through",
			in:   Inputs{EMA21w: f(88), SMA300d: f(85), SMA400d: f(90), Price: 80},
			want: model.TrendWaiting,
		},
		{
			name: "missing ema",
			in:   Inputs{SMA300d: f(90), SMA400d: f(85), Price: 70},
			want: model.TrendWaiting,
		},
		{
			name: "missing sma300",
			in:   Inputs{EMA21w: f(100), SMA400d: f(90), Price: 105},
			want: model.TrendWaiting,
		},
		{
			name: "missing sma400",
			in:   Inputs{EMA21w: f(100), SMA300d: f(90), Price: 105},
			want: model.TrendWaiting,
		},
		{
			name: "price equals ema above sma400",
			in:   Inputs{EMA21w: f(100), SMA300d: f(80), SMA400d: f(90), Price: 100},
			want: model.TrendWaiting,
		},
		{
			name: "price equals ema below sma300",
			in:   Inputs{EMA21w: f(80), SMA300d: f(90), SMA400d: f(85), Price: 80},
			want: model.TrendWaiting,
		},
		{
			name: "ema equals sma400 and sma300",
			in:   Inputs{EMA21w: f(90), SMA300d: f(90), SMA400d: f(90), Price: 120},
			want: model.TrendWaiting,
		},
	}

	for _, test := range tests {
		got := ClassifyTrend(test.in)
		if got != test.want {
			t.Errorf("%s: expected %q, got %q", test.name, test.want, got)
		}
	}
}

// Rules are checked in order and the first match wins.
func TestTrendRuleOrder(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want model.Trend
	}{
		{
			name: "ema below sma300, price just below ema",
			in:   Inputs{EMA21w: f(80), SMA300d: f(90), SMA400d: f(85), Price: 79.99},
			want: model.TrendBearish,
		},
		{
			name: "ema below sma300, price just above ema",
			in:   Inputs{EMA21w: f(80), SMA300d: f(90), SMA400d: f(85), Price: 80.01},
			want: model.TrendNeutral,
		},
		{
			name: "ema between sma400 and sma300, price below both",
			in:   Inputs{EMA21w: f(88), SMA300d: f(90), SMA400d: f(85), Price: 80},
			want: model.TrendNeutral,
		},
		{
			name: "ema above sma400 and price above ema",
			in:   Inputs{EMA21w: f(88), SMA300d: f(90), SMA400d: f(85), Price: 89},
			want: model.TrendBullish,
		},
	}

	for _, test := range tests {
		got := ClassifyTrend(test.in)
		if got != test.want {
			t.Errorf("%s: expected %q, got %q", test.name, test.want, got)
		}
	}
}

func TestSpotEntry(t *testing.T) {
	tests := []struct {
		name      string
		trend     model.Trend
		rsi       *float64
		sentiment *int
		want      model.Entry
	}{
		{"buy", model.TrendBearish, f(30), i(40), model.EntryBuy},
		{"greedy sentiment", model.TrendBearish, f(30), i(60), model.EntryWait},
		{"sentiment at 50", model.TrendBearish, f(30), i(50), model.EntryWait},
		{"rsi at 35", model.TrendBearish, f(35), i(20), model.EntryWait},
		{"not bearish", model.TrendNeutral, f(20), i(20), model.EntryWait},
		{"unknown sentiment", model.TrendBearish, f(20), nil, model.EntryWait},
		{"unknown rsi", model.TrendBearish, nil, i(20), model.EntryWait},
	}

	for _, test := range tests {
		got := SpotEntry(test.trend, test.rsi, test.sentiment)
		if got != test.want {
			t.Errorf("%s: expected %q, got %q", test.name, test.want, got)
		}
	}
}

func TestPositionStatus(t *testing.T) {
	tests := []struct {
		name      string
		trend     model.Trend
		rsi       *float64
		sentiment *int
		want      model.Position
	}{
		{"hold", model.TrendBullish, f(60), nil, model.PositionHold},
		{"reduce", model.TrendBullish, f(75), i(70), model.PositionReduce},
		{"reduce at exactly 70", model.TrendBullish, f(70), i(51), model.PositionReduce},
		{"overbought without greed", model.TrendBullish, f(75), i(50), model.PositionWait},
		{"overbought, unknown sentiment", model.TrendBullish, f(75), nil, model.PositionWait},
		{"dca", model.TrendBearish, f(35), i(39), model.PositionDCA},
		{"dca in any trend", model.TrendWaiting, f(20), i(10), model.PositionDCA},
		{"oversold, sentiment at 40", model.TrendBearish, f(30), i(40), model.PositionWait},
		{"oversold, unknown sentiment", model.TrendBearish, f(30), nil, model.PositionWait},
		{"bullish hold wins over dca", model.TrendBullish, f(30), i(10), model.PositionHold},
		{"unknown rsi", model.TrendBullish, nil, i(80), model.PositionWait},
	}

	for _, test := range tests {
		got := PositionStatus(test.trend, test.rsi, test.sentiment)
		if got != test.want {
			t.Errorf("%s: expected %q, got %q", test.name, test.want, got)
		}
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	in := Inputs{EMA21w: f(80), SMA300d: f(90), SMA400d: f(85), Price: 70, WeeklyRSI: f(30), Sentiment: i(20)}
	first := Evaluate(in)
	second := Evaluate(in)
	if first != second {
		t.Errorf("expected identical classifications, got %+v and %+v", first, second)
	}
	want := Classification{Trend: model.TrendBearish, Entry: model.EntryBuy, Position: model.PositionDCA}
	if first != want {
		t.Errorf("expected %+v, got %+v", want, first)
	}
}

func TestEvaluate_SentimentUnavailable(t *testing.T) {
	bundle := &model.IndicatorBundle{
		EMA21w: f(100), SMA300d: f(80), SMA400d: f(90), Price: 120, SpotMacroRSI: f(85),
	}
	got := Evaluate(InputsFrom(bundle, model.UnavailableSentiment()))
	if got.Trend != model.TrendBullish {
		t.Errorf("expected trend to be classified without sentiment, got %q", got.Trend)
	}
	if got.Entry != model.EntryWait {
		t.Errorf("expected Wait entry, got %q", got.Entry)
	}
	if got.Position != model.PositionWait {
		t.Errorf("expected Wait position, got %q", got.Position)
	}
}

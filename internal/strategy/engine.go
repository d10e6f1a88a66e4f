package strategy

import "RSIDashboard/internal/model"

// Inputs are the indicator values the classifier works on. Nil pointers are undefined values.
type Inputs struct {
	EMA21w    *float64
	SMA300d   *float64
	SMA400d   *float64
	Price     float64
	WeeklyRSI *float64
	Sentiment *int
}

// Classification is the classifier output for one coin.
type Classification struct {
	Trend    model.Trend
	Entry    model.Entry
	Position model.Position
}

// InputsFrom builds classifier inputs from an indicator bundle and the run's sentiment.
func InputsFrom(b *model.IndicatorBundle, s model.Sentiment) Inputs {
	return Inputs{
		EMA21w:    b.EMA21w,
		SMA300d:   b.SMA300d,
		SMA400d:   b.SMA400d,
		Price:     b.Price,
		WeeklyRSI: b.SpotMacroRSI,
		Sentiment: s.Value,
	}
}

// Evaluate classifies trend first, then entry and position from that trend.
func Evaluate(in Inputs) Classification {
	trend := ClassifyTrend(in)
	return Classification{
		Trend:    trend,
		Entry:    SpotEntry(trend, in.WeeklyRSI, in.Sentiment),
		Position: PositionStatus(trend, in.WeeklyRSI, in.Sentiment),
	}
}

// ClassifyTrend walks trendRules in order; the first match wins.
func ClassifyTrend(in Inputs) model.Trend {
	if in.EMA21w == nil || in.SMA300d == nil || in.SMA400d == nil {
		return model.TrendWaiting
	}
	v := trendValues{ema: *in.EMA21w, sma300: *in.SMA300d, sma400: *in.SMA400d, price: in.Price}
	for _, r := range trendRules {
		if r.match(v) {
			return r.trend
		}
	}
	return model.TrendWaiting
}

// SpotEntry is Buy only for an oversold weekly RSI in a bearish trend with fearful sentiment.
func SpotEntry(trend model.Trend, weeklyRSI *float64, sentiment *int) model.Entry {
	v := signalValues{trend: trend, rsi: weeklyRSI, sentiment: sentiment}
	for _, r := range entryRules {
		if r.match(v) {
			return r.entry
		}
	}
	return model.EntryWait
}

// PositionStatus walks positionRules in order; the first match wins.
func PositionStatus(trend model.Trend, weeklyRSI *float64, sentiment *int) model.Position {
	v := signalValues{trend: trend, rsi: weeklyRSI, sentiment: sentiment}
	for _, r := range positionRules {
		if r.match(v) {
			return r.position
		}
	}
	return model.PositionWait
}

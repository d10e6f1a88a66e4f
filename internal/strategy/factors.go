package strategy

import "RSIDashboard/internal/model"

type trendValues struct {
	ema, sma300, sma400, price float64
}

type signalValues struct {
	trend     model.Trend
	rsi       *float64
	sentiment *int
}

// rsiBelow and friends treat an undefined RSI as failing every comparison.
func (v signalValues) rsiBelow(x float64) bool   { return v.rsi != nil && *v.rsi < x }
func (v signalValues) rsiAtMost(x float64) bool  { return v.rsi != nil && *v.rsi <= x }
func (v signalValues) rsiAtLeast(x float64) bool { return v.rsi != nil && *v.rsi >= x }
func (v signalValues) sentimentBelow(x int) bool { return v.sentiment != nil && *v.sentiment < x }
func (v signalValues) sentimentAbove(x int) bool { return v.sentiment != nil && *v.sentiment > x }

// Rule order is significant: conditions overlap and the first match wins.
// At price == ema21w neither the "above" nor the "below" rules match and the trend stays Waiting.
var trendRules = []struct {
	name  string
	match func(trendValues) bool
	trend model.Trend
}{
	{"ema above sma400, price above ema", func(v trendValues) bool {
		return v.ema > v.sma400 && v.price > v.ema
	}, model.TrendBullish},
	{"ema above sma400, price below ema", func(v trendValues) bool {
		return v.ema > v.sma400 && v.price < v.ema
	}, model.TrendNeutral},
	{"ema below sma300, price below sma400 and ema", func(v trendValues) bool {
		return v.ema < v.sma300 && v.price < v.sma400 && v.price < v.ema
	}, model.TrendBearish},
	{"ema below sma300, price above ema", func(v trendValues) bool {
		return v.ema < v.sma300 && v.price > v.ema
	}, model.TrendNeutral},
}

var entryRules = []struct {
	name  string
	match func(signalValues) bool
	entry model.Entry
}{
	{"oversold bearish with fear", func(v signalValues) bool {
		return v.rsiBelow(35) && v.trend == model.TrendBearish && v.sentimentBelow(50)
	}, model.EntryBuy},
}

var positionRules = []struct {
	name     string
	match    func(signalValues) bool
	position model.Position
}{
	{"bullish, not overbought", func(v signalValues) bool {
		return v.trend == model.TrendBullish && v.rsiBelow(70)
	}, model.PositionHold},
	{"bullish, overbought with greed", func(v signalValues) bool {
		return v.trend == model.TrendBullish && v.rsiAtLeast(70) && v.sentimentAbove(50)
	}, model.PositionReduce},
	{"oversold with fear", func(v signalValues) bool {
		return v.rsiAtMost(35) && v.sentimentBelow(40)
	}, model.PositionDCA},
}

package collector

import (
	"context"
	"errors"

	"RSIDashboard/internal/calculator"
	"RSIDashboard/internal/model"
)

const (
	emaSpan   = 21
	rsiPeriod = 14
)

// Collector fetches the candle series of a market and computes all indicators.
type Collector struct {
	Fetcher *Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher *Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect returns the indicator bundle. Any fetch failure fails the whole coin; a series
// shorter than an indicator window leaves that indicator nil.
func (c *Collector) Collect(ctx context.Context, m Market) (*model.IndicatorBundle, error) {
	weeklyBars, err := c.Fetcher.Series(ctx, m, model.OneWeek, WeeklyLimit)
	if err != nil {
		return nil, err
	}
	dailyBars, err := c.Fetcher.Series(ctx, m, model.OneDay, DailyLimit)
	if err != nil {
		return nil, err
	}
	if len(dailyBars) == 0 {
		return nil, errors.New("no daily candles returned")
	}

	weekly := calculator.Closes(weeklyBars)
	daily := calculator.Closes(dailyBars)

	b := &model.IndicatorBundle{
		EMA21w:  calculator.Optional(calculator.CalculateEMA(weekly, emaSpan)),
		SMA300d: calculator.Optional(calculator.CalculateSMA(daily, 300)),
		SMA400d: calculator.Optional(calculator.CalculateSMA(daily, 400)),
		Price:   daily[len(daily)-1],
	}

	// The weekly series above already has the RSI window's length.
	b.SpotMacroRSI = rsi(weeklyBars)

	swingBars, err := c.Fetcher.Series(ctx, m, model.SwingMacro.Timeframe, RSILimit)
	if err != nil {
		return nil, err
	}
	b.SwingMacroRSI = rsi(swingBars)

	microBars, err := c.Fetcher.Series(ctx, m, model.Micro.Timeframe, RSILimit)
	if err != nil {
		return nil, err
	}
	b.MicroRSI = rsi(microBars)

	return b, nil
}

func rsi(bars []model.OHLCV) *float64 {
	return calculator.RoundOptional(calculator.Optional(calculator.CalculateRSI(bars, rsiPeriod)))
}

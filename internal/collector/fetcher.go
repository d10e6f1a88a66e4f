package collector

import (
	"context"
	"fmt"
	"math"

	"RSIDashboard/internal/logger"
	"RSIDashboard/internal/metrics"
	"RSIDashboard/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Candle counts requested per series.
const (
	WeeklyLimit = 100
	DailyLimit  = 400
	RSILimit    = 100
)

// Fetcher retrieves prices and candle series for resolved markets.
type Fetcher struct {
	Logger  *zerolog.Logger
	Metrics *metrics.Recorder
}

func (f *Fetcher) log() *zerolog.Logger {
	if f.Logger == nil {
		return logger.Nop()
	}
	return f.Logger
}

// Series fetches up to limit candles, ascending by time.
func (f *Fetcher) Series(ctx context.Context, m Market, tf model.Timeframe, limit int) ([]model.OHLCV, error) {
	bars, err := m.Exchange.FetchOHLCV(ctx, m.Symbol, tf, limit)
	if err != nil {
		f.Metrics.ExchangeError(m.Exchange.Name(), "ohlcv")
		return nil, fmt.Errorf("fetch %s %s candles: %w", m.Symbol, tf, err)
	}
	return bars, nil
}

// Price returns the formatted last price, or model.PriceUnavailable on any failure.
func (f *Fetcher) Price(ctx context.Context, m Market) string {
	price, err := m.Exchange.FetchTicker(ctx, m.Symbol)
	if err != nil {
		f.Metrics.ExchangeError(m.Exchange.Name(), "ticker")
		f.log().Warn().Err(err).Str("exchange", m.Exchange.Name()).Str("symbol", m.Symbol).Msg("error fetching price")
		return model.PriceUnavailable
	}
	return FormatPrice(price)
}

// FormatPrice renders a price with ten decimals, trailing zeros and point removed.
func FormatPrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return model.PriceUnavailable
	}
	return decimal.NewFromFloat(price).Round(10).String()
}

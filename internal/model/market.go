package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Timeframe is the unified candle interval code shared by every exchange client.
type Timeframe string

const (
	FourHour Timeframe = "4h"
	OneDay   Timeframe = "1d"
	OneWeek  Timeframe = "1w"
)

// Duration returns the wall-clock length of one candle.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case FourHour:
		return 4 * time.Hour
	case OneDay:
		return 24 * time.Hour
	case OneWeek:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

func (tf Timeframe) String() string { return string(tf) }

// Symbol builds the unified BASE/QUOTE pair name.
func Symbol(base, quote string) string {
	return base + "/" + quote
}

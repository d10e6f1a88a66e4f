package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Trend is the Spot Macro Trend label.
type Trend string

const (
	TrendWaiting Trend = "Waiting"
	TrendBullish Trend = "Bullish"
	TrendNeutral Trend = "Neutral"
	TrendBearish Trend = "Bearish"
)

// Entry is the Spot Entry recommendation.
type Entry string

const (
	EntryBuy  Entry = "Buy"
	EntryWait Entry = "Wait"
)

// Position is the Position Status recommendation.
type Position string

const (
	PositionHold   Position = "Hold"
	PositionReduce Position = "Reduce/Look for Exit"
	PositionDCA    Position = "DCA"
	PositionWait   Position = "Wait"
)

// PriceUnavailable is shown when the ticker could not be fetched.
const PriceUnavailable = "Unavailable"

// Signal is the success shape of a coin record. JSON keys match the dashboard columns.
type Signal struct {
	Coin          string   `json:"Coin"`
	IconURL       string   `json:"icon_url"`
	CurrentPrice  string   `json:"Current Price"`
	Trend         Trend    `json:"Spot Macro Trend"`
	SpotMacroRSI  *float64 `json:"Spot Macro RSI (1w)"`
	SwingMacroRSI *float64 `json:"Swing Macro RSI (1d)"`
	MicroRSI      *float64 `json:"Micro RSI (4h)"`
	Entry         Entry    `json:"Spot Entry"`
	Position      Position `json:"Position Status"`

	Exchange string `json:"-"`
	Symbol   string `json:"-"`
}

// RSI returns the value for the given window.
func (s *Signal) RSI(w RSIWindow) *float64 {
	switch w {
	case SpotMacro:
		return s.SpotMacroRSI
	case SwingMacro:
		return s.SwingMacroRSI
	case Micro:
		return s.MicroRSI
	}
	return nil
}

// Failure is the error shape of a coin record.
type Failure struct {
	Coin  string `json:"Coin"`
	Error string `json:"error"`
}

// Record is the per-coin pipeline output. Exactly one of Signal or Failure is set.
type Record struct {
	Signal  *Signal
	Failure *Failure
}

// NewSignalRecord wraps a successful computation.
func NewSignalRecord(s Signal) Record { return Record{Signal: &s} }

// NewFailureRecord wraps a per-coin failure.
func NewFailureRecord(coin, msg string) Record {
	return Record{Failure: &Failure{Coin: coin, Error: msg}}
}

// Coin returns the coin identifier regardless of the record shape.
func (r Record) Coin() string {
	if r.Failure != nil {
		return r.Failure.Coin
	}
	if r.Signal != nil {
		return r.Signal.Coin
	}
	return ""
}

// OK reports whether the record carries computed signals.
func (r Record) OK() bool { return r.Signal != nil && r.Failure == nil }

func (r Record) MarshalJSON() ([]byte, error) {
	switch {
	case r.Failure != nil:
		return json.Marshal(r.Failure)
	case r.Signal != nil:
		return json.Marshal(r.Signal)
	default:
		return nil, fmt.Errorf("empty record")
	}
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error != nil {
		var f Failure
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*r = Record{Failure: &f}
		return nil
	}
	var s Signal
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = Record{Signal: &s}
	return nil
}

// RunSummary describes one pipeline run.
type RunSummary struct {
	RunID          string        `json:"run_id"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
	Coins          int           `json:"coins"`
	Succeeded      int           `json:"succeeded"`
	Failed         int           `json:"failed"`
	SentimentValue *int          `json:"sentiment_value"`
	SentimentLabel string        `json:"sentiment_label"`
}

package calculator

import (
	"errors"

	"RSIDashboard/internal/model"
)

// ErrInsufficientData is returned when a series is shorter than the indicator window.
var ErrInsufficientData = errors.New("not enough data")

// CalculateSMA computes the simple moving average of the last `period` prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateEMA returns the trailing exponential moving average for the given span,
// using bias-adjusted weights: alpha = 2/(span+1) and every observation weighted by
// (1-alpha)^age, normalised by the sum of weights.
func CalculateEMA(prices []float64, span int) (float64, error) {
	if span < 1 {
		return 0, errors.New("span must be >= 1")
	}
	if len(prices) == 0 {
		return 0, ErrInsufficientData
	}
	alpha := 2.0 / (float64(span) + 1.0)
	decay := 1.0 - alpha

	// Running form of the weighted mean: num and den both decay before adding the newest point.
	var num, den float64
	for _, p := range prices {
		num = num*decay + p
		den = den*decay + 1
	}
	return num / den, nil
}

// Closes extracts close prices in series order.
func Closes(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Optional converts a calculator result into a nil-able value, treating any error as undefined.
func Optional(v float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &v
}

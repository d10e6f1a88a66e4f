package calculator

import (
	"errors"

	"RSIDashboard/internal/model"
)

// CalculateRSI computes the trailing Wilder RSI over the given period.
//
// Average gain and loss are smoothed recursively with alpha = 1/period, seeded at the
// first bar whose change is taken as zero. The value is undefined until `period` bars
// have been observed. When the average loss is zero the RSI is 100.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period {
		return 0, ErrInsufficientData
	}

	closes := Closes(bars)
	alpha := 1.0 / float64(period)

	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else if change < 0 {
			loss = -change
		}
		avgGain = (1-alpha)*avgGain + alpha*gain
		avgLoss = (1-alpha)*avgLoss + alpha*loss
	}

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}

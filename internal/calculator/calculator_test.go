package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"RSIDashboard/internal/model"

	"github.com/peterldowns/testy/assert"
)

func barsFromCloses(closes ...float64) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

func approx(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %.10f, got %.10f", want, got)
	}
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	assert.NoError(t, err)
	approx(t, v, 4)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.True(t, errors.Is(err, ErrInsufficientData))

	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestCalculateEMA(t *testing.T) {
	// alpha = 0.5: (2 + 0.5*1) / (1 + 0.5)
	v, err := CalculateEMA([]float64{1, 2}, 3)
	assert.NoError(t, err)
	approx(t, v, 2.5/1.5)

	// A single observation is its own average.
	v, err = CalculateEMA([]float64{42}, 21)
	assert.NoError(t, err)
	approx(t, v, 42)

	// A flat series stays flat.
	flat := make([]float64, 50)
	for i := range flat {
		flat[i] = 7
	}
	v, err = CalculateEMA(flat, 21)
	assert.NoError(t, err)
	approx(t, v, 7)

	_, err = CalculateEMA(nil, 21)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestCalculateRSI(t *testing.T) {
	tests := []struct {
		name    string
		closes  []float64
		period  int
		want    float64
		wantErr error
	}{
		{
			name:   "gain then loss",
			closes: []float64{1, 2, 1},
			period: 2,
			want:   100 - 100/1.5,
		},
		{
			name:    "shorter than window",
			closes:  []float64{1, 2, 3},
			period:  14,
			wantErr: ErrInsufficientData,
		},
		{
			name:   "flat series has no losses",
			closes: []float64{5, 5, 5, 5},
			period: 3,
			want:   100,
		},
	}

	for _, test := range tests {
		got, err := CalculateRSI(barsFromCloses(test.closes...), test.period)
		if test.wantErr != nil {
			if !errors.Is(err, test.wantErr) {
				t.Errorf("%s: expected error %v, got %v", test.name, test.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.name, err)
			continue
		}
		if math.Abs(got-test.want) > 1e-9 {
			t.Errorf("%s: expected %.6f, got %.6f", test.name, test.want, got)
		}
	}
}

func TestCalculateRSI_MonotonicSeries(t *testing.T) {
	rising := make([]float64, 100)
	falling := make([]float64, 100)
	for i := range rising {
		rising[i] = float64(100 + i)
		falling[i] = float64(1000 - i)
	}

	up, err := CalculateRSI(barsFromCloses(rising...), 14)
	assert.NoError(t, err)
	assert.Equal(t, Round2(up), 100.0)

	down, err := CalculateRSI(barsFromCloses(falling...), 14)
	assert.NoError(t, err)
	assert.Equal(t, Round2(down), 0.0)
}

func TestCalculateRSI_Bounded(t *testing.T) {
	closes := []float64{10, 12, 9, 15, 14, 13, 18, 11, 10, 16, 17, 12, 9, 8, 14, 19, 3}
	v, err := CalculateRSI(barsFromCloses(closes...), 14)
	assert.NoError(t, err)
	assert.True(t, v >= 0 && v <= 100)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, Round2(33.33333), 33.33)
	assert.Equal(t, Round2(66.666), 66.67)
	assert.Equal(t, Round2(100), 100.0)
	assert.True(t, RoundOptional(nil) == nil)
	assert.Equal(t, *RoundOptional(model.Float(12.345678)), 12.35)
}

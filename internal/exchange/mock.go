package exchange

import (
	"context"
	"fmt"
	"sync"
	"time"

	"RSIDashboard/internal/model"
)

// mockEpoch anchors generated candles so repeated runs see identical series.
var mockEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// MockExchange returns controllable fixed data for development and testing.
type MockExchange struct {
	ExchangeName string
	// Prices lists the tradable symbols and their last price.
	Prices map[string]float64
	// Candles overrides generated bars per symbol and timeframe.
	Candles map[string]map[model.Timeframe][]model.OHLCV

	MarketsErr error
	TickerErr  error
	OHLCVErr   error
	// SymbolErrs fails ticker and candle requests for single symbols.
	SymbolErrs map[string]error

	mu    sync.Mutex
	calls map[string]int
}

var _ Exchange = (*MockExchange)(nil)

func (m *MockExchange) Name() string {
	if m.ExchangeName == "" {
		return "mock"
	}
	return m.ExchangeName
}

func (m *MockExchange) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
}

// Calls returns how many times op (markets, ticker, ohlcv) was requested.
func (m *MockExchange) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockExchange) LoadMarkets(_ context.Context) (map[string]struct{}, error) {
	m.record("markets")
	if m.MarketsErr != nil {
		return nil, m.MarketsErr
	}
	out := make(map[string]struct{}, len(m.Prices))
	for s := range m.Prices {
		out[s] = struct{}{}
	}
	return out, nil
}

func (m *MockExchange) lookup(symbol string) (float64, error) {
	if err := m.SymbolErrs[symbol]; err != nil {
		return 0, err
	}
	price, ok := m.Prices[symbol]
	if !ok {
		return 0, fmt.Errorf("%s: %w: %s", m.Name(), ErrUnknownSymbol, symbol)
	}
	return price, nil
}

func (m *MockExchange) FetchTicker(_ context.Context, symbol string) (float64, error) {
	m.record("ticker")
	if m.TickerErr != nil {
		return 0, m.TickerErr
	}
	return m.lookup(symbol)
}

func (m *MockExchange) FetchOHLCV(_ context.Context, symbol string, tf model.Timeframe, limit int) ([]model.OHLCV, error) {
	m.record("ohlcv")
	if m.OHLCVErr != nil {
		return nil, m.OHLCVErr
	}
	price, err := m.lookup(symbol)
	if err != nil {
		return nil, err
	}
	if bars, ok := m.Candles[symbol][tf]; ok {
		if len(bars) > limit {
			bars = bars[len(bars)-limit:]
		}
		return bars, nil
	}
	return GenerateBars(price, tf, limit), nil
}

// GenerateBars builds a gently rising series ending at basePrice.
func GenerateBars(basePrice float64, tf model.Timeframe, count int) []model.OHLCV {
	step := tf.Duration()
	if step == 0 {
		step = 24 * time.Hour
	}
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count+1)*0.001)
		bars[i] = model.OHLCV{
			Time:   mockEpoch.Add(time.Duration(i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

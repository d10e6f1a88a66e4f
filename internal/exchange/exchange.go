package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"RSIDashboard/internal/model"

	"github.com/rs/zerolog"
)

var (
	// ErrUnsupportedTimeframe is returned when a venue has no interval for the requested timeframe.
	ErrUnsupportedTimeframe = errors.New("unsupported timeframe")
	// ErrUnknownSymbol is returned when a symbol is not listed in the venue's market directory.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrUnknownExchange is returned by New for an unregistered venue name.
	ErrUnknownExchange = errors.New("unknown exchange")
)

// Exchange is one trading venue. Implementations are safe for concurrent use.
type Exchange interface {
	Name() string
	// LoadMarkets returns the set of unified BASE/QUOTE symbols. The directory is loaded
	// on first use and kept for the lifetime of the handle; a failed load is retried on the next call.
	// The returned map must not be modified.
	LoadMarkets(ctx context.Context) (map[string]struct{}, error)
	FetchTicker(ctx context.Context, symbol string) (float64, error)
	// FetchOHLCV returns at most limit candles ascending by time.
	FetchOHLCV(ctx context.Context, symbol string, tf model.Timeframe, limit int) ([]model.OHLCV, error)
}

// Options configures the REST venue clients.
type Options struct {
	Timeout time.Duration
	Proxy   string
	Retries int
	// BaseURLs overrides the venue endpoint by exchange name.
	BaseURLs map[string]string
	Logger   *zerolog.Logger
	// Now is the clock used by venues whose candle endpoints take a time range.
	Now func() time.Time
}

var venues = map[string]func() dialect{
	"binance": binanceDialect,
	"mexc":    mexcDialect,
	"kucoin":  kucoinDialect,
	"gateio":  gateioDialect,
	"coinex":  coinexDialect,
	"bybit":   bybitDialect,
}

// Supported reports whether name is a known venue.
func Supported(name string) bool {
	_, ok := venues[name]
	return ok
}

// New builds the REST client for the named venue.
func New(name string, opts Options) (Exchange, error) {
	mk, ok := venues[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExchange, name)
	}
	d := mk()
	if u, ok := opts.BaseURLs[name]; ok && u != "" {
		d.baseURL = u
	}
	return newRESTClient(d, opts), nil
}

// Registry holds one handle per venue in resolver priority order.
type Registry struct {
	exchanges []Exchange
}

// NewRegistry builds handles for names, keeping their order.
func NewRegistry(names []string, opts Options) (*Registry, error) {
	r := &Registry{}
	for _, name := range names {
		ex, err := New(name, opts)
		if err != nil {
			return nil, err
		}
		r.exchanges = append(r.exchanges, ex)
	}
	return r, nil
}

// NewRegistryFrom wraps already constructed handles.
func NewRegistryFrom(exchanges ...Exchange) *Registry {
	return &Registry{exchanges: exchanges}
}

// Exchanges returns the handles in priority order.
func (r *Registry) Exchanges() []Exchange {
	return r.exchanges
}

// Get looks a handle up by name.
func (r *Registry) Get(name string) (Exchange, bool) {
	for _, ex := range r.exchanges {
		if ex.Name() == name {
			return ex, true
		}
	}
	return nil, false
}

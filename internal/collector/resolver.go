package collector

import (
	"context"
	"errors"
	"fmt"

	"RSIDashboard/internal/exchange"
	"RSIDashboard/internal/logger"
	"RSIDashboard/internal/metrics"
	"RSIDashboard/internal/model"

	"github.com/rs/zerolog"
)

// ErrSymbolNotFound is returned when no exchange lists the coin against any preferred quote.
var ErrSymbolNotFound = errors.New("symbol not found")

// Market is a coin resolved to a tradable pair on one exchange.
type Market struct {
	Coin     string
	Symbol   string
	Exchange exchange.Exchange
}

// Resolver finds the first exchange, in priority order, listing COIN/QUOTE for the first matching quote.
type Resolver struct {
	Exchanges []exchange.Exchange
	Quotes    []string
	Logger    *zerolog.Logger
	Metrics   *metrics.Recorder
}

// Resolve never fails on a single exchange: directory load errors are logged and the exchange is skipped.
// A cancelled ctx ends the search with the ctx error.
func (r *Resolver) Resolve(ctx context.Context, coin string) (Market, error) {
	log := r.Logger
	if log == nil {
		log = logger.Nop()
	}
	for _, ex := range r.Exchanges {
		markets, err := ex.LoadMarkets(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return Market{}, fmt.Errorf("resolve %s: %w", coin, ctx.Err())
			}
			log.Warn().Err(err).Str("exchange", ex.Name()).Str("coin", coin).Msg("error loading markets")
			r.Metrics.ExchangeError(ex.Name(), "markets")
			continue
		}
		for _, quote := range r.Quotes {
			symbol := model.Symbol(coin, quote)
			if _, ok := markets[symbol]; ok {
				r.Metrics.Resolved(ex.Name())
				return Market{Coin: coin, Symbol: symbol, Exchange: ex}, nil
			}
		}
	}
	return Market{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, coin)
}

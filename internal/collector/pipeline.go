package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"RSIDashboard/internal/logger"
	"RSIDashboard/internal/metrics"
	"RSIDashboard/internal/model"
	"RSIDashboard/internal/strategy"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultWorkers bounds concurrent coin units.
const DefaultWorkers = 10

// NotFoundMessage is the error text of a coin that resolved on no exchange.
const NotFoundMessage = "Symbol not found"

// SentimentSource yields the run's Fear & Greed reading. It must not fail.
type SentimentSource interface {
	Fetch(ctx context.Context) model.Sentiment
}

// IconSource builds icon URLs.
type IconSource interface {
	URL(coin string) string
}

// Result is the output of one pipeline run. Records are index-aligned with the input coins.
type Result struct {
	Records   []model.Record   `json:"records"`
	Sentiment model.Sentiment  `json:"sentiment"`
	Summary   model.RunSummary `json:"summary"`
}

// Pipeline runs resolve, fetch, compute and classify for every coin.
type Pipeline struct {
	Resolver  *Resolver
	Collector *Collector
	Fetcher   *Fetcher
	Sentiment SentimentSource
	Icons     IconSource
	Workers   int
	Logger    *zerolog.Logger
	Metrics   *metrics.Recorder
}

func (p *Pipeline) log() *zerolog.Logger {
	if p.Logger == nil {
		return logger.Nop()
	}
	return p.Logger
}

// Run processes coins on a bounded worker pool. It never fails: every coin yields exactly one record.
func (p *Pipeline) Run(ctx context.Context, coins []string) Result {
	started := time.Now()
	runID := uuid.NewString()
	log := p.log().With().Str("run_id", runID).Logger()

	sentiment := model.UnavailableSentiment()
	if p.Sentiment != nil {
		sentiment = p.Sentiment.Fetch(ctx)
	}

	records := make([]model.Record, len(coins))
	jobs := make(chan int)

	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(coins) {
		workers = len(coins)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				records[idx] = p.process(ctx, coins[idx], sentiment, &log)
			}
		}()
	}
	for idx := range coins {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	summary := model.RunSummary{
		RunID:          runID,
		StartedAt:      started,
		Duration:       time.Since(started),
		Coins:          len(coins),
		SentimentValue: sentiment.Value,
		SentimentLabel: sentiment.Classification,
	}
	for _, r := range records {
		if r.OK() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		p.Metrics.CoinProcessed(r.OK())
	}
	p.Metrics.ObserveRun(summary.Duration)

	log.Info().
		Int("coins", summary.Coins).
		Int("ok", summary.Succeeded).
		Int("errors", summary.Failed).
		Str("sentiment", sentiment.Classification).
		Dur("duration", summary.Duration).
		Msg("pipeline run complete")

	return Result{Records: records, Sentiment: sentiment, Summary: summary}
}

// process is the unit boundary: errors and panics become the failure record.
func (p *Pipeline) process(ctx context.Context, coin string, sentiment model.Sentiment, log *zerolog.Logger) (rec model.Record) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("coin", coin).Interface("panic", r).Msg("coin unit panicked")
			rec = model.NewFailureRecord(coin, fmt.Sprintf("internal error: %v", r))
		}
	}()

	signal, err := p.Compute(ctx, coin, sentiment)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, ErrSymbolNotFound) {
			msg = NotFoundMessage
		}
		log.Warn().Err(err).Str("coin", coin).Msg("coin failed")
		return model.NewFailureRecord(coin, msg)
	}
	return model.NewSignalRecord(signal)
}

// Compute runs one coin through resolve, price, indicators and classification.
func (p *Pipeline) Compute(ctx context.Context, coin string, sentiment model.Sentiment) (model.Signal, error) {
	m, err := p.Resolver.Resolve(ctx, coin)
	if err != nil {
		return model.Signal{}, err
	}

	price := p.Fetcher.Price(ctx, m)

	bundle, err := p.Collector.Collect(ctx, m)
	if err != nil {
		return model.Signal{}, err
	}
	class := strategy.Evaluate(strategy.InputsFrom(bundle, sentiment))

	s := model.Signal{
		Coin:          coin,
		CurrentPrice:  price,
		Trend:         class.Trend,
		SpotMacroRSI:  bundle.SpotMacroRSI,
		SwingMacroRSI: bundle.SwingMacroRSI,
		MicroRSI:      bundle.MicroRSI,
		Entry:         class.Entry,
		Position:      class.Position,
		Exchange:      m.Exchange.Name(),
		Symbol:        m.Symbol,
	}
	if p.Icons != nil {
		s.IconURL = p.Icons.URL(coin)
	}
	return s, nil
}

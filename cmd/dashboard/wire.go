package main

import (
	"context"
	"fmt"

	"RSIDashboard/internal/cache"
	"RSIDashboard/internal/collector"
	"RSIDashboard/internal/config"
	"RSIDashboard/internal/exchange"
	"RSIDashboard/internal/icons"
	"RSIDashboard/internal/logger"
	"RSIDashboard/internal/metrics"
	"RSIDashboard/internal/sentiment"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// loadConfig reads and validates the file named by --config and builds the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *zerolog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// newPipeline builds the exchange registry and every pipeline stage from cfg.
func newPipeline(cfg *config.Config, log *zerolog.Logger, m *metrics.Recorder) (*collector.Pipeline, error) {
	registry, err := exchange.NewRegistry(cfg.Exchanges, exchange.Options{
		Timeout: cfg.RequestTimeout,
		Proxy:   cfg.Proxy,
		Retries: 2,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("exchanges: %w", err)
	}

	fetcher := &collector.Fetcher{Logger: log, Metrics: m}
	return &collector.Pipeline{
		Resolver: &collector.Resolver{
			Exchanges: registry.Exchanges(),
			Quotes:    cfg.Quotes,
			Logger:    log,
			Metrics:   m,
		},
		Collector: collector.NewCollector(fetcher),
		Fetcher:   fetcher,
		Sentiment: sentiment.NewClient(sentiment.Config{
			URL:     cfg.Sentiment.URL,
			Timeout: cfg.RequestTimeout,
			Proxy:   cfg.Proxy,
			Logger:  log,
		}),
		Icons:   icons.Load(cfg.Icons.File, cfg.Icons.BaseURL, log),
		Workers: cfg.Workers,
		Logger:  log,
		Metrics: m,
	}, nil
}

// newStore connects the Redis snapshot mirror when enabled. Connection failures disable it.
func newStore(ctx context.Context, cfg *config.Config, log *zerolog.Logger) *cache.RedisStore {
	if !cfg.Cache.Redis.Enabled {
		return nil
	}
	store, err := cache.NewRedisStore(ctx, cache.RedisOptions{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Key:      cfg.Cache.Redis.Key,
	})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Cache.Redis.Addr).Msg("redis unavailable, using in-memory cache only")
		return nil
	}
	log.Info().Str("addr", cfg.Cache.Redis.Addr).Msg("redis snapshot store connected")
	return store
}

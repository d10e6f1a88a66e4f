package app

import (
	"context"
	"strings"
	"time"

	"RSIDashboard/internal/cache"
	"RSIDashboard/internal/collector"
	"RSIDashboard/internal/logger"
	"RSIDashboard/internal/metrics"
	"RSIDashboard/internal/model"
	"RSIDashboard/internal/notifier"
	"RSIDashboard/internal/recorder"

	"github.com/rs/zerolog"
)

// Runner runs the coin pipeline once.
type Runner interface {
	Run(ctx context.Context, coins []string) collector.Result
}

// Options wires a Service.
type Options struct {
	Runner   Runner
	Coins    []string
	TTL      time.Duration
	Store    cache.Store
	Recorder recorder.Recorder
	Alerter  *notifier.Alerter
	Metrics  *metrics.Recorder
	Logger   *zerolog.Logger
	Now      func() time.Time
}

// Service serves pipeline results through the refresh cache and reacts to every new run.
type Service struct {
	ctx      context.Context
	runner   Runner
	coins    []string
	cache    *cache.RefreshCache[collector.Result]
	recorder recorder.Recorder
	alerter  *notifier.Alerter
	metrics  *metrics.Recorder
	log      *zerolog.Logger
	now      func() time.Time
}

// NewService creates the service. ctx bounds background work such as alert delivery.
func NewService(ctx context.Context, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Service{
		ctx:      ctx,
		runner:   opts.Runner,
		coins:    opts.Coins,
		recorder: opts.Recorder,
		alerter:  opts.Alerter,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		now:      opts.Now,
	}
	s.cache = cache.New(cache.Config[collector.Result]{
		TTL:       opts.TTL,
		Refresh:   s.run,
		Empty:     func(r collector.Result) bool { return len(r.Records) == 0 },
		Store:     opts.Store,
		Logger:    opts.Logger,
		OnRefresh: s.afterRefresh,
	})
	return s
}

func (s *Service) run(ctx context.Context) (collector.Result, error) {
	// A run always completes; a caller that goes away does not cut it short.
	return s.runner.Run(context.WithoutCancel(ctx), s.coins), nil
}

func (s *Service) afterRefresh(res collector.Result, err error) {
	s.metrics.CacheRefresh(err)
	if err != nil {
		return
	}
	if err := s.recorder.RecordRun(&res.Summary); err != nil {
		s.log.Error().Err(err).Str("run_id", res.Summary.RunID).Msg("record run")
	}
	if s.alerter == nil {
		return
	}
	alerts := s.alerter.Observe(res.Records)
	if len(alerts) == 0 {
		return
	}
	go func() {
		if err := s.alerter.Notify(s.ctx, alerts, res.Sentiment); err != nil {
			s.log.Error().Err(err).Int("alerts", len(alerts)).Msg("send alerts")
		}
	}()
}

// Signals returns the cached result, running the pipeline when it is older than the TTL.
func (s *Service) Signals(ctx context.Context) (collector.Result, error) {
	return s.cache.GetOrRefresh(ctx, s.now())
}

// Refresh runs the pipeline now and replaces the cached result.
func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.cache.Refresh(ctx, s.now())
	return err
}

// LastRefresh returns when the cached result was computed, or false when nothing is cached.
func (s *Service) LastRefresh() (time.Time, bool) {
	_, at, ok := s.cache.Peek()
	return at, ok
}

// RecentRuns returns the newest recorded runs.
func (s *Service) RecentRuns(limit int) ([]model.RunSummary, error) {
	return s.recorder.RecentRuns(limit)
}

// HandleCommand processes a chat command and returns a reply.
func (s *Service) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.Help
	}
	// Group chats address commands as /signals@BotName.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	switch name {
	case "/signals":
		res, err := s.Signals(ctx)
		if err != nil && len(res.Records) == 0 {
			return "Signals are unavailable right now."
		}
		return notifier.FormatSignals(res.Records)
	case "/sentiment":
		res, err := s.Signals(ctx)
		if err != nil && len(res.Records) == 0 {
			return notifier.FormatSentiment(model.UnavailableSentiment())
		}
		return notifier.FormatSentiment(res.Sentiment)
	default:
		return notifier.Help
	}
}

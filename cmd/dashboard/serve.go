package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"RSIDashboard/internal/app"
	"RSIDashboard/internal/cache"
	"RSIDashboard/internal/metrics"
	"RSIDashboard/internal/notifier"
	"RSIDashboard/internal/recorder"
	"RSIDashboard/internal/scheduler"
	"RSIDashboard/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log.Info().Int("coins", len(cfg.Coins)).Strs("exchanges", cfg.Exchanges).Msg("rsi dashboard starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	pipeline, err := newPipeline(cfg, log, m)
	if err != nil {
		return err
	}

	rec := recorder.Open(cfg.Database.SQLitePath, log)
	defer rec.Close()

	var store cache.Store
	if rs := newStore(ctx, cfg, log); rs != nil {
		store = rs
		defer rs.Close()
	}

	tn := notifier.NewTelegramNotifier(notifier.Config{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
		Proxy:    cfg.Proxy,
		Logger:   log,
	})
	var alerter *notifier.Alerter
	if tn.Enabled() {
		alerter = notifier.NewAlerter(tn, log)
	}

	svc := app.NewService(ctx, app.Options{
		Runner:   pipeline,
		Coins:    cfg.Coins,
		TTL:      cfg.Cache.TTL,
		Store:    store,
		Recorder: rec,
		Alerter:  alerter,
		Metrics:  m,
		Logger:   log,
	})

	sched := scheduler.NewScheduler(ctx, svc, log)
	if err := sched.RegisterRefresh(cfg.Schedule.RefreshCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn.Enabled() {
		go tn.StartPolling(ctx, svc.HandleCommand)
	} else {
		log.Info().Msg("telegram not configured, alerts disabled")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, refreshing now")
		go sched.RunRefreshNow()
	}

	srv := server.NewServer(svc,
		server.WithHost(cfg.HTTP.Host),
		server.WithPort(cfg.HTTP.Port),
		server.WithTimeouts(cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout, cfg.HTTP.ShutdownTimeout),
		server.WithLogger(log),
		server.WithMetrics(m),
	)
	errCh := srv.Start()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			stop()
			return err
		}
	}

	if err := srv.Stop(context.Background()); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("rsi dashboard stopped")
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/collector"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/config"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/logging"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/metrics"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/notifier"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/recorder"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/report"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single scan, print the digest and exit")
	flag.Parse()

	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("config validation")
	}
	logger.Info("Mirror Market starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher, store, closeFetcher, err := newFetcher(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("init data source")
	}
	defer closeFetcher()
	logger.WithField("source", fetcher.Name()).Info("data source ready")

	col := collector.NewCollector(fetcher, cfg.DataSource.HistoryDays, logger)
	col.Store = store

	m := metrics.New(prometheus.DefaultRegisterer)
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, prometheus.DefaultGatherer, logger); err != nil {
				logger.WithError(err).Error("metrics server")
			}
		}()
	}

	builder := report.NewBuilder(cfg, col, m, logger)

	if *once {
		rep, err := builder.Build(ctx)
		if err != nil {
			logger.WithError(err).Fatal("scan")
		}
		fmt.Println(notifier.FormatDigest(rep))
		return
	}

	rec := newRecorder(cfg, logger)
	defer rec.Close()

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		sender = tn
	} else {
		logger.Warn("telegram not configured, digests will only be logged")
	}

	sched := scheduler.NewScheduler(ctx, builder, sender, rec, logger)
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		logger.WithError(err).Fatal("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, scanning now")
		go sched.RunNow(ctx)
	}

	logger.WithField("cron", cfg.Schedule.ScanCron).Info("Mirror Market is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	logger.Info("shutdown signal received, stopping")
}

func newFetcher(cfg *config.Config, logger *logrus.Logger) (collector.Fetcher, collector.BarStore, func(), error) {
	noop := func() {}
	switch cfg.DataSource.Provider {
	case config.ProviderSQLite:
		f, err := collector.NewSQLiteFetcher(cfg.Database.PricesPath)
		if err != nil {
			return nil, nil, noop, err
		}
		return f, nil, func() { f.Close() }, nil
	case config.ProviderMock:
		return &collector.MockFetcher{Price: 100}, nil, noop, nil
	default:
		yf := collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Tickers)
		if cfg.Database.PricesPath == "" {
			return yf, nil, noop, nil
		}
		// Keep a local copy of fetched bars for the sqlite provider.
		store, err := collector.NewSQLiteFetcher(cfg.Database.PricesPath)
		if err != nil {
			logger.WithError(err).Warn("open price store failed, fetched bars will not be kept")
			return yf, nil, noop, nil
		}
		return yf, store, func() { store.Close() }, nil
	}
}

func newRecorder(cfg *config.Config, logger *logrus.Logger) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
	if err != nil {
		logger.WithError(err).Warn("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

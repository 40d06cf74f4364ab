package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aevon-lab/order-insights/internal/aggregation"
	coreagg "github.com/aevon-lab/order-insights/internal/core/aggregation"
	corecfg "github.com/aevon-lab/order-insights/internal/core/config"
	"github.com/aevon-lab/order-insights/internal/core/storage"
	"github.com/aevon-lab/order-insights/internal/core/storage/postgres"
	"github.com/aevon-lab/order-insights/internal/export"
	"github.com/aevon-lab/order-insights/internal/ingestion"
	"github.com/aevon-lab/order-insights/internal/metrics"
	"github.com/aevon-lab/order-insights/internal/migrations"
	"github.com/aevon-lab/order-insights/internal/projection"
	"github.com/aevon-lab/order-insights/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(*configPath); err != nil {
		slog.Error("order-insights failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := corecfg.Load(configPath)
	if err != nil {
		return err
	}
	slog.Info("Loaded config",
		"mode", cfg.App.Mode,
		"source", cfg.Source.Type,
		"output", cfg.Output.Path,
	)

	source, db, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer source.Close()

	views, err := coreagg.NewFileSystemViewRepository(cfg.Aggregation.ViewsDir)
	if err != nil {
		return fmt.Errorf("failed to load view definitions: %w", err)
	}

	reg := metrics.NewRegistry()
	writer := export.NewWorkbookWriter(cfg.Output.Creator)
	opts := aggregation.Options{WorkerCount: cfg.Aggregation.WorkerCount}

	if cfg.App.Mode == corecfg.ModeServe {
		runner := aggregation.NewRunner(source, views, writer, reg, opts, cfg.Output.Path)
		return serve(cfg, runner, db, reg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := aggregation.NewPipeline(source, views.Views(), writer, reg, opts)
	res, err := pipeline.Run(ctx, cfg.Output.Path)
	if closeErr := pipeline.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	fmt.Println(res.OutputPath)
	return nil
}

// openSource returns the configured order source. db is non-nil only for postgres.
func openSource(cfg *corecfg.Config) (storage.OrderSource, *sql.DB, error) {
	switch cfg.Source.Type {
	case corecfg.SourceFile:
		return ingestion.NewFileSource(cfg.Source.Path), nil, nil
	case corecfg.SourcePostgres:
		adapter, err := postgres.NewAdapter(
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			func(db *sql.DB) error {
				return migrations.RunMigrations(db, cfg.Database.AutoMigrate)
			},
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if cfg.Database.SeedSample {
			n, err := adapter.SaveOrders(context.Background(), ingestion.SampleOrders())
			if err != nil {
				adapter.Close()
				return nil, nil, fmt.Errorf("failed to seed sample orders: %w", err)
			}
			slog.Info("Seeded sample orders", "inserted", n)
		}
		return adapter, adapter.DB(), nil
	default:
		return ingestion.NewSampleSource(), nil, nil
	}
}

func serve(cfg *corecfg.Config, runner *aggregation.Runner, db *sql.DB, reg *metrics.Registry) error {
	srv := server.New(
		cfg.Server.Addr(),
		db,
		cfg.Server.Mode,
		reg.Handler(),
		cfg.Server.ShutdownTimeoutDuration(),
	)
	projection.NewService(runner).RegisterRoutes(srv.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if interval := cfg.Schedule.IntervalDuration(); interval > 0 {
		scheduler := aggregation.NewScheduler(interval, runner)
		go func() {
			if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Scheduler stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("Export scheduler disabled by config")
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	slog.Info("Shutdown complete")
	return nil
}

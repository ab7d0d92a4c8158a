package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/airq/internal/pkg/config"
	"github.com/anicoll/airq/internal/pkg/database"
	"github.com/anicoll/airq/internal/pkg/database/migration"
	"github.com/anicoll/airq/internal/pkg/graph"
	"github.com/anicoll/airq/internal/pkg/mqtt"
	"github.com/anicoll/airq/internal/pkg/publisher"
	"github.com/anicoll/airq/internal/pkg/seed"
	"github.com/anicoll/airq/internal/pkg/server"
	"github.com/anicoll/airq/internal/pkg/simulator"
)

const shutdownTimeout = 15 * time.Second

// ServeCommand runs the GraphQL API until SIGINT or SIGTERM.
func ServeCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, cfg, logger)
}

func MigrateCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()
	return migration.Migrate(cfg.DatabaseURL, cfg.MigrationsFolder)
}

func SeedCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	db, err := connect(c.Context, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = seed.Run(c.Context, db.Queries, seed.Options{
		Sensors:           c.Int("sensors"),
		Locations:         c.Int("locations"),
		ReadingsPerSensor: c.Int("readings"),
		Reset:             c.Bool("reset"),
		Seed:              c.Uint64("seed"),
	}, logger)
	return err
}

// SimulateCommand records synthetic readings on a schedule, or once with --once.
func SimulateCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()
	if c.IsSet("schedule") {
		cfg.Simulator.Schedule = c.String("schedule")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	registry, closeSinks, err := newPublisher(cfg.MQTT, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	sim := simulator.New(db, registry, c.Uint64("seed"), logger)
	if c.Bool("once") {
		n, err := sim.Tick(ctx)
		if err != nil {
			return err
		}
		logger.Info("simulated readings", zap.Int("count", n))
		return nil
	}
	logger.Info("simulator started", zap.String("schedule", cfg.Simulator.Schedule))
	return sim.Run(ctx, cfg.Simulator.Schedule)
}

func setup(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.StringSlice("env-file")...)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

func newLogger(level string) (*zap.Logger, error) {
	var err error
	logCfg := zap.NewProductionConfig()
	logCfg.Level, err = zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	return logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

func connect(ctx context.Context, cfg *config.Config) (*database.Database, error) {
	if cfg.AutoMigrate {
		if err := migration.Migrate(cfg.DatabaseURL, cfg.MigrationsFolder); err != nil {
			return nil, err
		}
	}
	return database.Connect(ctx, cfg.DatabaseURL)
}

// newPublisher registers the MQTT sink when a broker is configured. The returned func
// disconnects every sink.
func newPublisher(cfg config.MQTTConfig, logger *zap.Logger) (*publisher.Registry, func(), error) {
	registry := publisher.NewRegistry(logger)
	if !cfg.Enabled() {
		logger.Info("publishers configured", zap.Int("sinks", registry.Len()))
		return registry, func() {}, nil
	}
	svc := mqtt.New(mqtt.NewClient(cfg), cfg.TopicPrefix, logger)
	if err := svc.Connect(); err != nil {
		return nil, nil, fmt.Errorf("mqtt connect %s: %w", cfg.Host, err)
	}
	if err := registry.Register("mqtt", svc); err != nil {
		svc.Disconnect()
		return nil, nil, err
	}
	logger.Info("publishers configured", zap.Int("sinks", registry.Len()), zap.String("mqtt_host", cfg.Host))
	return registry, svc.Disconnect, nil
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	registry, closeSinks, err := newPublisher(cfg.MQTT, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	schema, err := graph.NewSchema(graph.New(db, registry))
	if err != nil {
		return fmt.Errorf("graphql schema: %w", err)
	}

	srv := &http.Server{
		Handler:      server.New(cfg.Server, schema, db, logger),
		Addr:         cfg.Server.Addr,
		WriteTimeout: cfg.Server.WriteTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
	}
	return serve(ctx, srv, logger)
}

// serve runs srv until ctx is done and then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

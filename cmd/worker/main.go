// Background worker for the region map backend.
//
// The worker owns the representative refresh schedule.  It creates the
// Kafka topics, consumes representative change events under the shared
// consumer group, and announces every refresh that changed the collection so
// API instances reload.  A small HTTP listener serves health checks and metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/regionmap/internal/application/snapshot"
	"github.com/turtacn/regionmap/internal/bootstrap"
	"github.com/turtacn/regionmap/internal/config"
	"github.com/turtacn/regionmap/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/regionmap/internal/interfaces/http"
	"github.com/turtacn/regionmap/internal/interfaces/http/handlers"
	"github.com/turtacn/regionmap/internal/interfaces/http/middleware"
	"github.com/turtacn/regionmap/pkg/errors"
)

var Version = "dev"

const (
	defaultHealthPort = 8081
	topicSetupTimeout = 30 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; REGIONMAP_* environment only when empty")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the configuration")
	healthPort := flag.Int("health-port", defaultHealthPort, "port of the health and metrics listener")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *envFile, err)
		os.Exit(1)
	}
	cfg, err := config.LoadOrEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *healthPort, logger); err != nil {
		logger.Error("worker terminated", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, healthPort int, logger logging.Logger) error {
	logger.Info("starting regionmap worker",
		logging.String("version", Version),
		logging.String("source", cfg.Representatives.Source.Kind),
		logging.String("schedule", cfg.Representatives.RefreshSchedule),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := bootstrap.NewInfrastructure(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	app, err := bootstrap.New(infra)
	if err != nil {
		return err
	}

	var consumer *kafka.Consumer
	if cfg.Kafka.Enabled {
		if err := ensureTopics(ctx, cfg, logger); err != nil {
			return err
		}
		app.AnnounceReloads(infra.Publisher())

		consumer, err = app.NewChangeConsumer(cfg.Kafka.GroupID)
		if err != nil {
			return err
		}
		if err := consumer.Start(ctx); err != nil {
			return err
		}
	}

	if err := app.Warm(ctx); err != nil {
		logger.Warn("initial warm-up incomplete", logging.Err(err))
	}

	scheduleSpec := cfg.Representatives.RefreshSchedule
	if scheduleSpec == "" {
		scheduleSpec = "@every 5m"
	}
	scheduler, err := snapshot.NewScheduler(app.Store, scheduleSpec, logger)
	if err != nil {
		return err
	}
	scheduler.Start()

	healthSrv := httpserver.NewServer(httpserver.ServerConfig{
		Addr: fmt.Sprintf(":%d", healthPort),
	}, healthRouter(cfg, app), logger.Named("health"))
	errCh := make(chan error, 1)
	go func() { errCh <- healthSrv.Start() }()

	logger.Info("worker started", logging.Int("health_port", healthPort))

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error("health server failed", logging.Err(runErr))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Warn("kafka consumer close failed", logging.Err(err))
		}
	}
	if err := healthSrv.Stop(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}

	logger.Info("regionmap worker stopped")
	return runErr
}

func ensureTopics(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger)
	if err != nil {
		return err
	}
	defer tm.Close()

	ctx, cancel := context.WithTimeout(ctx, topicSetupTimeout)
	defer cancel()
	return tm.EnsureTopics(ctx, kafka.DefaultTopics(cfg.Kafka.ReplicationFactor))
}

func healthRouter(cfg *config.Config, app *bootstrap.App) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(app.Logger))

	health := handlers.NewHealthHandler(Version,
		handlers.NewCheck("representatives", func(ctx context.Context) error {
			if app.Store.Current().Version == 0 {
				return errors.New(errors.CodeRepresentativeSourceFailed, "no snapshot loaded").
					WithDetail(app.Store.SourceName())
			}
			return nil
		}),
	)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/health", health.Detailed)

	if app.Collector != nil {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(app.Collector.Handler()))
	}
	return r
}

//Personal.AI order the ending

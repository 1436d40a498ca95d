// API server entry point for the region map backend.
package main

import (
	"context"
	"crypto/tls"
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
	grpcserver "github.com/turtacn/regionmap/internal/interfaces/grpc"
	httpserver "github.com/turtacn/regionmap/internal/interfaces/http"
	"github.com/turtacn/regionmap/internal/interfaces/http/handlers"
	"github.com/turtacn/regionmap/internal/interfaces/http/middleware"
	"github.com/turtacn/regionmap/pkg/errors"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const healthSyncInterval = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to configuration file; REGIONMAP_* environment only when empty")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the configuration")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	grpcPort := flag.Int("grpc-port", 0, "gRPC server port (overrides config)")
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
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}
	if *grpcPort > 0 {
		cfg.GRPC.Port = *grpcPort
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("api server terminated", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	logger.Info("starting regionmap API server",
		logging.String("version", Version),
		logging.String("commit", GitCommit),
		logging.String("build_date", BuildDate),
		logging.String("http_addr", cfg.Server.Addr()),
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
	if err := app.Warm(ctx); err != nil {
		logger.Warn("initial warm-up incomplete, serving degraded", logging.Err(err))
	}

	var scheduler *snapshot.Scheduler
	if cfg.Representatives.RefreshSchedule != "" {
		scheduler, err = snapshot.NewScheduler(app.Store, cfg.Representatives.RefreshSchedule, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
	}

	var consumer *kafka.Consumer
	if cfg.Kafka.Enabled {
		consumer, err = app.NewChangeConsumer(instanceGroupID(cfg.Kafka.GroupID))
		if err != nil {
			return err
		}
		if err := consumer.Start(ctx); err != nil {
			return err
		}
	}

	checkers := healthCheckers(app)
	router := httpserver.NewRouter(routerConfig(cfg, app, checkers))
	httpSrv := httpserver.NewServer(httpserver.ServerConfig{
		Addr:            cfg.Server.Addr(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger.Named("http"))

	errCh := make(chan error, 2)
	go func() { errCh <- httpSrv.Start() }()

	var grpcSrv *grpcserver.Server
	if cfg.GRPC.Enabled {
		opts, err := grpcOptions(cfg, infra, logger)
		if err != nil {
			return err
		}
		grpcSrv, err = grpcserver.NewServer(fmt.Sprintf(":%d", cfg.GRPC.Port), opts...)
		if err != nil {
			return err
		}
		grpcserver.RegisterRegionMapServer(grpcSrv, grpcserver.NewRegionMapServer(app.Service))
		go grpcSrv.SyncHealth(ctx, healthSyncInterval, checkAll(checkers))
		go func() { errCh <- grpcSrv.Start() }()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error("server failed", logging.Err(runErr))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer cancel()

	if err := httpSrv.Stop(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	if grpcSrv != nil {
		if err := grpcSrv.Stop(shutdownCtx); err != nil {
			logger.Error("gRPC server shutdown error", logging.Err(err))
		}
	}
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Warn("kafka consumer close failed", logging.Err(err))
		}
	}
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}

	logger.Info("servers stopped")
	return runErr
}

func routerConfig(cfg *config.Config, app *bootstrap.App, checkers []handlers.HealthChecker) httpserver.RouterConfig {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	rc := httpserver.RouterConfig{
		RegionHandler:         handlers.NewRegionHandler(app.Service),
		MapHandler:            handlers.NewMapHandler(app.Service),
		RepresentativeHandler: handlers.NewRepresentativeHandler(app.Store, app.Editor),
		HealthHandler:         handlers.NewHealthHandler(Version, checkers...),
		Logging:               middleware.DefaultLoggingConfig(),
		AdminToken:            cfg.Server.AdminToken,
		Logger:                app.Logger.Named("http"),
		Metrics:               app.Metrics,
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.AllowedOrigins
		rc.CORS = &cors
	}
	if cfg.Server.RateLimit > 0 {
		rc.RateLimit = middleware.DefaultRateLimitConfig(cfg.Server.RateLimit)
		rc.RateLimiter = middleware.NewTokenBucketLimiter(
			rc.RateLimit.RequestsPerSecond, rc.RateLimit.BurstSize, rc.RateLimit.CleanupInterval)
	}
	if app.Collector != nil {
		rc.MetricsHandler = app.Collector.Handler()
		rc.MetricsPath = cfg.Metrics.Path
	}
	return rc
}

func grpcOptions(cfg *config.Config, infra *bootstrap.Infrastructure, logger logging.Logger) ([]grpcserver.Option, error) {
	opts := []grpcserver.Option{
		grpcserver.WithLogger(logger.Named("grpc")),
		grpcserver.WithMetrics(infra.Metrics),
		grpcserver.WithGracefulTimeout(cfg.Server.ShutdownTimeout),
		grpcserver.WithReflection(cfg.Server.Mode != gin.ReleaseMode),
		grpcserver.WithMaxRecvMsgSize(cfg.GRPC.MaxRecvMsgSize),
		grpcserver.WithMaxSendMsgSize(cfg.GRPC.MaxSendMsgSize),
	}
	if cfg.GRPC.TLSCertFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.GRPC.TLSCertFile, cfg.GRPC.TLSKeyFile)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to load grpc tls key pair")
		}
		opts = append(opts, grpcserver.WithTLSConfig(&tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}))
	}
	return opts, nil
}

// instanceGroupID gives every API instance its own consumer group so each
// one sees every change event.
func instanceGroupID(base string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = fmt.Sprintf("pid%d", os.Getpid())
	}
	return base + "-api-" + host
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 30 * time.Second
}

//Personal.AI order the ending

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/demoflow/internal/application/autoplay"
	"github.com/aescanero/demoflow/internal/application/catalog"
	"github.com/aescanero/demoflow/internal/application/narration"
	"github.com/aescanero/demoflow/internal/application/orchestrator"
	"github.com/aescanero/demoflow/internal/config"
	eventsmemory "github.com/aescanero/demoflow/pkg/adapters/events/memory"
	eventsredis "github.com/aescanero/demoflow/pkg/adapters/events/redis"
	"github.com/aescanero/demoflow/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/demoflow/pkg/adapters/narrator"
	storagememory "github.com/aescanero/demoflow/pkg/adapters/storage/memory"
	storageredis "github.com/aescanero/demoflow/pkg/adapters/storage/redis"
	"github.com/aescanero/demoflow/pkg/api/grpc"
	"github.com/aescanero/demoflow/pkg/api/http"
	"github.com/aescanero/demoflow/pkg/api/websocket"
	"github.com/aescanero/demoflow/pkg/ports"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting demo orchestration service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Initialize Redis client only when a redis-backed component is enabled
	var redisClient *goredis.Client
	if cfg.NeedsRedis() {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// Initialize event bus
	var eventBus ports.EventBus
	if cfg.Events.Backend == "redis" {
		eventBus, err = eventsredis.NewStreamsEventBus(
			redisClient,
			"demoflow-dashboard",
			fmt.Sprintf("demoflow-%d", os.Getpid()),
			logger,
		)
		if err != nil {
			logger.Fatal("failed to create event bus", zap.Error(err))
		}
	} else {
		eventBus = eventsmemory.NewEventBus()
	}

	// Initialize snapshot storage (nil disables persistence)
	var snapshotStore ports.SnapshotStore
	if cfg.Persistence.Enabled {
		if cfg.Persistence.Backend == "redis" {
			snapshotStore = storageredis.NewSnapshotStore(
				redisClient,
				cfg.Persistence.SnapshotTTL,
				logger,
			)
		} else {
			snapshotStore = storagememory.NewSnapshotStore()
		}
	}

	metricsCollector := prometheus.NewCollector()

	// Initialize application components
	orchestratorMgr := orchestrator.NewManager(
		snapshotStore,
		eventBus,
		metricsCollector,
		logger,
	)

	scenarioCatalog := catalog.New()

	var autoplayRunner *autoplay.Runner
	if cfg.Autoplay.Enabled {
		autoplayRunner = autoplay.NewRunner(
			orchestratorMgr,
			cfg.Autoplay.StageInterval,
			cfg.Autoplay.HealthCheckInterval,
			logger,
		)
		if err := autoplayRunner.Start(); err != nil {
			logger.Fatal("failed to start autoplay runner", zap.Error(err))
		}
	}

	var narrationSvc *narration.Service
	if cfg.NarrationEnabled() {
		stageNarrator, err := narrator.NewNarrator(&narrator.Config{
			Provider: cfg.Narration.Provider,
			APIKey:   cfg.Narration.APIKey,
			Model:    cfg.Narration.Model,
			Timeout:  cfg.Narration.RequestTimeout,
			Logger:   logger,
		})
		if err != nil {
			logger.Fatal("failed to create narrator", zap.Error(err))
		}

		narrationSvc = narration.NewService(stageNarrator, eventBus, logger)
		if err := narrationSvc.Start(); err != nil {
			logger.Fatal("failed to start narration service", zap.Error(err))
		}
	}

	// Initialize API servers
	httpServer := http.NewServer(&http.Config{
		Port:         cfg.HTTPPort,
		Orchestrator: orchestratorMgr,
		Catalog:      scenarioCatalog,
		Autoplay:     autoplayRunner,
		Logger:       logger,
	})

	// Add WebSocket handler to HTTP server
	wsHandler := websocket.NewHandler(eventBus, metricsCollector, logger)
	httpServer.SetupWebSocket(wsHandler)

	grpcServer, err := grpc.NewServer(&grpc.Config{
		Port:         cfg.GRPCPort,
		Orchestrator: orchestratorMgr,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("failed to create gRPC server", zap.Error(err))
	}

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	go func() {
		if err := grpcServer.Start(); err != nil {
			logger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	logger.Info("demo orchestration service started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.Bool("persistence", cfg.Persistence.Enabled),
		zap.Bool("autoplay", cfg.Autoplay.Enabled),
		zap.Bool("narration", cfg.NarrationEnabled()))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	// Shutdown components
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := grpcServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("gRPC server shutdown error", zap.Error(err))
	}

	if autoplayRunner != nil {
		if err := autoplayRunner.Shutdown(shutdownCtx); err != nil {
			logger.Error("autoplay runner shutdown error", zap.Error(err))
		}
	}

	if narrationSvc != nil {
		if err := narrationSvc.Shutdown(shutdownCtx); err != nil {
			logger.Error("narration service shutdown error", zap.Error(err))
		}
	}

	if err := orchestratorMgr.Shutdown(shutdownCtx); err != nil {
		logger.Error("orchestrator shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("demo orchestration service shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}

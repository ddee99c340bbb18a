package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-coach/internal/adapter/handler"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/events"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/external/gemini"
	httpmw "github.com/johnquangdev/meeting-coach/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/http/wsconn"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-coach/internal/usecase/bridge"
	"github.com/johnquangdev/meeting-coach/internal/usecase/history"
	"github.com/johnquangdev/meeting-coach/internal/usecase/session"
	"github.com/johnquangdev/meeting-coach/pkg/config"
	pkgvalidator "github.com/johnquangdev/meeting-coach/pkg/validator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the coaching server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	log.Println("🔧 Initializing dependencies...")

	// Persistence
	store := openPersistence(ctx, cfg, logger)
	defer store.Close()

	// Event fan-out
	var redisClient *redis.Client
	if strings.EqualFold(cfg.Events.Backend, "redis") {
		log.Println("📦 Connecting to Redis...")
		redisClient, err = cache.NewRedisClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisClient.Close()
	}
	publisher, err := events.New(cfg.Events, redisClient)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer publisher.Close()
	log.Printf("📣 Coaching events backend: %s", cfg.Events.Backend)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	coachMetrics := metrics.NewCoachMetrics(registry)

	// Coaching agent
	log.Println("🤖 Initializing coaching agent...")
	connector, err := gemini.NewConnector(ctx, gemini.Config{
		APIKey:            cfg.Gemini.APIKey,
		Model:             cfg.Gemini.Model,
		Voice:             cfg.Gemini.Voice,
		Temperature:       cfg.Gemini.Temperature,
		ConnectMaxElapsed: cfg.Gemini.ConnectMaxElapsed,
	}, cfg.Gemini.UseMock, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize coaching agent: %w", err)
	}
	if cfg.Gemini.UseMock {
		log.Println("⚠️  Coaching agent running in MOCK mode (no model access needed)")
	} else {
		log.Printf("✅ Coaching agent model: %s", cfg.Gemini.Model)
	}

	// Use cases
	validator := pkgvalidator.New()
	sessions := session.NewRegistry(session.Defaults{
		UserName:        cfg.Coach.DefaultUserName,
		DurationMinutes: cfg.Coach.DefaultDurationMinutes,
	})
	bridgeService := bridge.NewBridgeService(sessions, connector, store.repo, publisher, coachMetrics, validator, logger, bridge.Options{
		StateUpdateInterval: cfg.Coach.StateUpdateInterval,
		PersistTimeout:      cfg.Coach.PersistTimeout,
	})
	historyService := history.NewHistoryService(store.repo, logger)

	// Echo
	e := echo.New()
	e.Validator = validator
	e.HideBanner = true
	e.HidePort = false

	e.Use(httpmw.RequestID())
	e.Use(httpmw.ZapRequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	log.Println("🛣️  Setting up routes...")
	allowedOrigins := cfg.Server.AllowedOrigins
	if !cfg.IsProduction() {
		allowedOrigins = nil
	}
	meetingHandler := handler.NewMeetingHandler(bridgeService, allowedOrigins, wsconn.Options{
		MaxFrameBytes: cfg.Coach.MaxFrameBytes,
		WriteTimeout:  cfg.Coach.WriteTimeout,
		PingInterval:  cfg.Coach.PingInterval,
	}, logger)
	historyHandler := handler.NewHistoryHandler(historyService, logger)
	handler.NewRouter(bridgeService, meetingHandler, historyHandler, registry).Setup(e)

	// Start server
	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Println("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Meetings are drained before the deferred store and publisher closes run
	n, err := bridgeService.Shutdown(shutdownCtx)
	if n > 0 {
		logger.Info("Cancelled active meetings", zap.Int("count", n))
	}
	if err != nil {
		logger.Warn("⚠️ Active meetings did not finish before the shutdown timeout", zap.Error(err))
	}

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("✅ Server stopped gracefully")
	return nil
}

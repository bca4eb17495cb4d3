package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aescanero/demoflow/internal/application/autoplay"
	"github.com/aescanero/demoflow/internal/application/catalog"
	"github.com/aescanero/demoflow/internal/application/orchestrator"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the HTTP API server
type Server struct {
	router       *gin.Engine
	server       *http.Server
	orchestrator *orchestrator.Manager
	catalog      *catalog.Catalog
	autoplay     *autoplay.Runner
	logger       *zap.Logger
}

// Config holds HTTP server configuration
type Config struct {
	Port         int
	Orchestrator *orchestrator.Manager
	Catalog      *catalog.Catalog
	Autoplay     *autoplay.Runner // optional
	Logger       *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(cfg.Logger))
	// The dashboard is served from a different origin
	router.Use(corsMiddleware())

	s := &Server{
		router:       router,
		orchestrator: cfg.Orchestrator,
		catalog:      cfg.Catalog,
		autoplay:     cfg.Autoplay,
		logger:       cfg.Logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// Metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// Demo session control
		demo := v1.Group("/demo")
		{
			demo.GET("/state", s.handleGetState)
			demo.POST("/play", s.handlePlay)
			demo.POST("/pause", s.handlePause)
			demo.POST("/stop", s.handleStop)
			demo.POST("/toggle", s.handleTogglePlayPause)
			demo.POST("/advance", s.handleAdvanceStage)
			demo.POST("/speed", s.handleSetSpeed)
			demo.POST("/stage", s.handleJumpToStage)
			demo.POST("/scenario", s.handleSelectScenario)
			demo.POST("/reset", s.handleResetDemo)
		}

		// Scenario catalog
		v1.GET("/scenarios", s.handleListScenarios)
		v1.GET("/scenarios/:id", s.handleGetScenario)
	}
}

// SetupWebSocket adds WebSocket handler to the server
func (s *Server) SetupWebSocket(handler interface{}) {
	if wsHandler, ok := handler.(interface {
		HandleDemoStream(*gin.Context)
	}); ok {
		s.router.GET("/api/v1/demo/ws", wsHandler.HandleDemoStream)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}

// requestLogger is a middleware for request logging
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()))
	}
}

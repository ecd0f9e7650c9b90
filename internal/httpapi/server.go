// Package httpapi exposes the scan service over HTTP/JSON.
package httpapi

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pocketlab/organic-scanner/internal/config"
	"github.com/pocketlab/organic-scanner/internal/core"
	"github.com/pocketlab/organic-scanner/internal/telemetry"
	"go.uber.org/zap"
)

// Server encapsulates the echo server and its dependencies.
type Server struct {
	echo    *echo.Echo
	svc     *core.ScanService
	models  core.ModelProvider
	metrics *telemetry.Metrics
	cfg     config.ServerConfig
	logger  *zap.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	svc *core.ScanService,
	models core.ModelProvider,
	metrics *telemetry.Metrics,
) *Server {
	s := &Server{
		echo:    echo.New(),
		svc:     svc,
		models:  models,
		metrics: metrics,
		cfg:     cfg.GetServer(),
		logger:  logger,
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleHTTPError

	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	s.registerRoutes(cfg.GetBool("metrics.enabled"))
	return s
}

func (s *Server) registerRoutes(metricsEnabled bool) {
	s.echo.GET("/", s.handleRoot)

	api := s.echo.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/info", s.handleInfo)
	api.POST("/scan", s.handleScan)
	api.POST("/scan/batch", s.handleScanBatch)

	if metricsEnabled {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}
}

// Start begins listening and serving HTTP requests. It blocks until the
// server stops.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", zap.String("address", s.cfg.ListenAddress))
	return s.echo.Start(s.cfg.ListenAddress)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router, used by tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gamestore/gamestore-web/config"
	httpx "github.com/gamestore/gamestore-web/internal/http"
	"github.com/gamestore/gamestore-web/internal/observability/metrics"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the server with the full middleware chain. It does not start listening.
func NewHTTPServer(cfg *HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Storefront:     cfg.Services.Storefront,
		Backends:       cfg.Services.Backends,
		Sessions:       cfg.Services.Sessions,
		CookieDomain:   appCfg.HTTP.CookieDomain,
		MetricsHandler: cfg.Services.MetricsHandler,
		MetricsPath:    appCfg.Observability.Metrics.Path,
		IsDev:          appCfg.IsDev,
		Logger:         logger,
	}

	handler := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: services,
		HTTP:     appCfg.HTTP,
		Metrics:  cfg.Services.Metrics,
	})

	addr := appCfg.HTTP.ListenAddr()
	if addr == "" {
		addr = ":5001"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
	HTTP     config.HTTPConfig
	Metrics  *metrics.Metrics
}

// Order: Recover -> Logging -> Compression -> Metrics -> Router.
// Metrics sits directly on the router so it sees the matched pattern.
func buildHTTPHandler(cfg httpHandlerConfig) http.Handler {
	h := httpx.Metrics(cfg.Metrics)(httpx.NewRouter(cfg.Services))

	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel})(h)
	}

	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)

	return h
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(parent, shutdownWaitTimeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}
	return nil
}

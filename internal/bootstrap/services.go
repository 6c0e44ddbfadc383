package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/gamestore/gamestore-web/config"
	"github.com/gamestore/gamestore-web/internal/adapters/backend"
	httpx "github.com/gamestore/gamestore-web/internal/http"
	"github.com/gamestore/gamestore-web/internal/observability/metrics"
	"github.com/gamestore/gamestore-web/internal/service"
)

const shutdownWaitTimeout = 10 * time.Second

// ServiceContainer holds the long-lived application services.
type ServiceContainer struct {
	Storefront     *service.StorefrontService
	Backends       *backend.Factory
	Sessions       httpx.SessionManager
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
	// Registry overrides the Prometheus registry. Tests pass a fresh one.
	Registry *prometheus.Registry
}

// NewServices wires the backend adapter, the storefront service, sessions and metrics.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var out ServiceContainer
	if cfg.Observability.Metrics.IsEnabled() {
		out.Metrics, out.MetricsHandler = buildMetrics(cfg.Observability.Metrics, deps.Registry)
	}

	factory, err := backend.NewFactory(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Logger:  logger,
		Metrics: out.Metrics,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("backend factory: %w", err)
	}
	out.Backends = factory

	decoder, err := backend.NewDecoder(cfg.Backend.ItemsPath, cfg.Backend.ProfilePath)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("backend decoder: %w", err)
	}
	out.Storefront = service.NewStorefrontService(service.StorefrontServiceOptions{
		Decoder: decoder,
		Logger:  logger,
	})

	out.Sessions, err = NewSessionManager(SessionDeps{
		Config:       cfg.Session,
		CookieDomain: cfg.HTTP.CookieDomain,
		Redis:        deps.RedisClient,
		Logger:       logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}
	return out, nil
}

func buildMetrics(cfg config.ObservabilityMetricsConfig, reg *prometheus.Registry) (*metrics.Metrics, http.Handler) {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m := metrics.New(metrics.Config{Namespace: cfg.Namespace, Registry: reg})
	return m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ServiceOrchestrationConfig contains what RunServicesWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown serves HTTP until SIGINT/SIGTERM or a server failure,
// then shuts the server down gracefully.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := NewHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down services...")
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.WithoutCancel(gctx),
			Server:  server,
			Logger:  logger,
		})
	})
	return g.Wait()
}

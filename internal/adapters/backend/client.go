// Package backend is the HTTP adapter for the GameStore API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	domainauth "github.com/gamestore/gamestore-web/internal/domain/auth"
	apperrors "github.com/gamestore/gamestore-web/internal/errors"
	"github.com/gamestore/gamestore-web/internal/observability/metrics"
	"github.com/gamestore/gamestore-web/internal/ports"
)

// Backend API paths.
const (
	PathLogin       = "/api/auth/login"
	PathRegister    = "/api/auth/register"
	PathProfile     = "/api/auth/profile"
	PathVideojuegos = "/api/videojuegos"
	PathHealth      = "/api/health"
)

const (
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

// Operation names used for logs and metric labels.
const (
	opLogin           = "login"
	opRegister        = "register"
	opListVideojuegos = "list_videojuegos"
	opProfile         = "profile"
	opHealth          = "health"
)

// Config captures the adapter settings shared by every request.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Factory holds the shared transport and hands out per-request clients.
type Factory struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ ports.BackendFactory = (*Factory)(nil)

// NewFactory builds a Factory. Callers should pass a validated config.
func NewFactory(cfg Config) (*Factory, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("backend base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Factory{
		baseURL: baseURL,
		client:  hc,
		logger:  logger.With("component", "backend"),
		metrics: cfg.Metrics,
	}, nil
}

// New returns a client with no token attached.
func (f *Factory) New() ports.Backend {
	return &Client{factory: f}
}

// Client performs calls against the backend on behalf of a single browser request.
// It is not safe for concurrent use; each request gets its own.
type Client struct {
	factory *Factory
	token   string
}

var _ ports.Backend = (*Client)(nil)

// SetToken attaches a bearer token to subsequent calls.
func (c *Client) SetToken(token string) { c.token = token }

// ClearToken detaches the bearer token.
func (c *Client) ClearToken() { c.token = "" }

// Token returns the currently attached bearer token.
func (c *Client) Token() string { return c.token }

// Login posts credentials to the backend. 200 means success.
func (c *Client) Login(ctx context.Context, creds domainauth.Credentials) (ports.Result, error) {
	return c.do(ctx, opLogin, http.MethodPost, PathLogin, creds)
}

// Register posts credentials to the backend. 201 means success.
func (c *Client) Register(ctx context.Context, creds domainauth.Credentials) (ports.Result, error) {
	return c.do(ctx, opRegister, http.MethodPost, PathRegister, creds)
}

// ListVideojuegos fetches the catalogue using the attached token.
func (c *Client) ListVideojuegos(ctx context.Context) (ports.Result, error) {
	return c.do(ctx, opListVideojuegos, http.MethodGet, PathVideojuegos, nil)
}

// Profile fetches the authenticated user's profile using the attached token.
func (c *Client) Profile(ctx context.Context) (ports.Result, error) {
	return c.do(ctx, opProfile, http.MethodGet, PathProfile, nil)
}

// Health fetches the backend health document.
func (c *Client) Health(ctx context.Context) (ports.Result, error) {
	return c.do(ctx, opHealth, http.MethodGet, PathHealth, nil)
}

// do performs exactly one HTTP round trip. Any status code is a Result; only
// transport failures are errors.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) (ports.Result, error) {
	start := time.Now()
	res, err := c.roundTrip(ctx, method, path, payload)
	elapsed := time.Since(start)

	c.factory.metrics.ObserveBackendCall(metrics.BackendCall{
		Operation:  op,
		StatusCode: res.StatusCode,
		Duration:   elapsed,
		Err:        err,
	})

	if err != nil {
		c.factory.logger.WarnContext(ctx, "backend call failed",
			"op", op,
			"method", method,
			"path", path,
			"duration", elapsed,
			"error", err,
		)
		return ports.Result{}, err
	}

	c.factory.logger.DebugContext(ctx, "backend call",
		"op", op,
		"method", method,
		"path", path,
		"status", res.StatusCode,
		"duration", elapsed,
	)
	return res, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload any) (ports.Result, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return ports.Result{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode backend request")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.factory.baseURL+path, body)
	if err != nil {
		return ports.Result{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build backend request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		(&oauth2.Token{AccessToken: c.token}).SetAuthHeader(req)
	}

	resp, err := c.factory.client.Do(req)
	if err != nil {
		return ports.Result{}, apperrors.Connection(err, fmt.Sprintf("%s %s", method, path))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return ports.Result{}, apperrors.Connection(err, fmt.Sprintf("read %s %s", method, path))
	}

	return ports.Result{StatusCode: resp.StatusCode, Body: raw}, nil
}

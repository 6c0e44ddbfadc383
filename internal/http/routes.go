package httpx

import (
	"bytes"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	gamestore "github.com/gamestore/gamestore-web"
	httpassets "github.com/gamestore/gamestore-web/internal/http/assets"
	"github.com/gamestore/gamestore-web/internal/ports"
	"github.com/gamestore/gamestore-web/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Storefront   *service.StorefrontService
	Backends     ports.BackendFactory
	Sessions     SessionManager
	CookieDomain string
	// Optional: Prometheus handler mounted at MetricsPath.
	MetricsHandler http.Handler
	MetricsPath    string
	// Configuration
	IsDev  bool         // Templates and static files from disk
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
	// Optional overrides; default to the embedded or on-disk frontend.
	TemplateFS fs.FS
	StaticFS   fs.FS
}

func (s RouterServices) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	templateFS, staticFS := frontendFS(services)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if services.Storefront != nil && services.Backends != nil {
		health := &HealthHandlers{Svc: services.Storefront, Backends: services.Backends}
		mux.HandleFunc("GET /api/health", health.APIHealth)
	}
	if services.MetricsHandler != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, services.MetricsHandler)
	}

	mux.Handle("GET /static/", staticHandler(staticFS, services.IsDev))

	uiHandlers := setupUIHandlers(services, templateFS, staticFS)
	var notFound http.Handler
	if uiHandlers != nil {
		wrap := uiChain(services, uiHandlers)
		registerUIRoutes(mux, uiHandlers, wrap)
		notFound = wrap(http.HandlerFunc(uiHandlers.NotFound))
	}

	return &notFoundHandler{mux: mux, browserNotFound: notFound}
}

// frontendFS picks template and static filesystems: overrides, then disk in dev mode, then embedded.
func frontendFS(services RouterServices) (fs.FS, fs.FS) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if templateFS != nil && staticFS != nil {
		return templateFS, staticFS
	}

	if services.IsDev {
		if templateFS == nil {
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		if staticFS == nil {
			staticFS = os.DirFS("frontend/static")
		}
		return templateFS, staticFS
	}

	if templateFS == nil {
		sub, err := fs.Sub(gamestore.TemplateFS, TemplatePathFromRoot)
		if err != nil {
			services.logger().Error("failed to open embedded templates; falling back to disk", slog.Any("error", err))
			sub = os.DirFS(TemplatePathFromRoot)
		}
		templateFS = sub
	}
	if staticFS == nil {
		sub, err := fs.Sub(gamestore.StaticFS, "frontend/static")
		if err != nil {
			services.logger().Error("failed to open embedded static assets; falling back to disk", slog.Any("error", err))
			sub = os.DirFS("frontend/static")
		}
		staticFS = sub
	}
	return templateFS, staticFS
}

// setupUIHandlers creates UI handlers with a template renderer and asset resolver.
// It returns nil when templates cannot be parsed; only the JSON routes are served then.
func setupUIHandlers(services RouterServices, templateFS, staticFS fs.FS) *UIHandlers {
	if services.Storefront == nil || services.Backends == nil {
		return nil
	}

	resolver := httpassets.NewAssetResolver(staticFS, httpassets.Options{
		DevMode: services.IsDev,
		Logger:  services.Logger,
	})
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Resolver:   resolver,
		StaticFS:   staticFS,
		DevMode:    services.IsDev,
		Logger:     services.Logger,
	})
	if err != nil {
		services.logger().Error("failed to create template renderer", slog.Any("error", err))
		return nil
	}

	return &UIHandlers{
		T:        tr,
		Svc:      services.Storefront,
		Backends: services.Backends,
		Sessions: services.Sessions,
		IsDev:    services.IsDev,
		Logger:   services.Logger,
	}
}

// uiChain wraps browser handlers with session loading and CSRF protection.
func uiChain(services RouterServices, h *UIHandlers) func(http.Handler) http.Handler {
	csrf := CSRFProtection(CSRFConfig{
		CookieDomain: services.CookieDomain,
		OnFailure:    http.HandlerFunc(h.CSRFFailed),
	})
	withSession := func(next http.Handler) http.Handler { return next }
	if services.Sessions != nil {
		withSession = WithSession(services.Sessions, services.Logger)
	}
	return func(next http.Handler) http.Handler {
		return withSession(csrf(next))
	}
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, wrap func(http.Handler) http.Handler) {
	mux.Handle("GET /{$}", wrap(http.HandlerFunc(h.Index)))
	mux.Handle("GET "+RouteLogin, wrap(http.HandlerFunc(h.LoginForm)))
	mux.Handle("POST "+RouteLogin, wrap(http.HandlerFunc(h.LoginSubmit)))
	mux.Handle("GET "+RouteRegister, wrap(http.HandlerFunc(h.RegisterForm)))
	mux.Handle("POST "+RouteRegister, wrap(http.HandlerFunc(h.RegisterSubmit)))
	mux.Handle("GET "+RouteVideojuegos, wrap(http.HandlerFunc(h.Videojuegos)))
	mux.Handle("GET "+RouteLogout, wrap(http.HandlerFunc(h.Logout)))
}

// staticHandler serves /static/* from fsys with cache headers.
func staticHandler(fsys fs.FS, isDev bool) http.Handler {
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(fsys))), isDev)
}

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler, isDev bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case httpassets.IsVersioned(r.URL.Query()) && !isDev:
			// Content-hashed URLs change whenever the file does.
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case isDev:
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		default:
			w.Header().Set("Cache-Control", "public, max-age=300")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux             *http.ServeMux
	browserNotFound http.Handler
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Resolve first so only unmatched requests are buffered.
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}

	cw := newCaptureWriter(w)
	h.mux.ServeHTTP(cw, r)
	if cw.status != http.StatusNotFound {
		cw.flushTo(w)
		return
	}

	switch {
	case strings.HasPrefix(r.URL.Path, "/static/"):
		cw.flushTo(w)
	case isAPIRequest(r):
		WriteError(w, http.StatusNotFound, "not_found", "resource not found")
	case h.browserNotFound != nil && isBrowserRequest(r):
		h.browserNotFound.ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		slog.Default().Debug("failed to write captured response", slog.Any("error", err))
	}
}

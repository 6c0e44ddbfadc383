package httpx

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gamestore/gamestore-web/internal/http/ui/viewmodel"
	"github.com/gamestore/gamestore-web/internal/ports"
	"github.com/gamestore/gamestore-web/internal/service"
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T        *TemplateRenderer
	Svc      *service.StorefrontService
	Backends ports.BackendFactory
	Sessions SessionManager
	IsDev    bool // Development mode flag for enhanced error reporting
	Logger   *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// basePageData holds the keys layout.tmpl reads on every page.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
	}
	if token := GetCSRFToken(r); token != "" {
		data["CSRFToken"] = token
	}
	if sess, ok := SessionFromContext(r.Context()); ok && sess.IsAuthenticated() {
		data["IsAuthenticated"] = true
		data["User"] = &viewmodel.User{Email: sess.UserEmail}
	}
	return data
}

// renderPage pops pending flashes into data, persists the session and renders the full layout.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	sess := sessionFor(r)
	flashes := toViewFlashes(sess.PopFlashes())
	if inline, ok := data["Flashes"].([]viewmodel.Flash); ok {
		flashes = append(flashes, inline...)
	}
	if len(flashes) > 0 {
		data["Flashes"] = flashes
	}
	h.commitSession(w, r, sess)

	if h.T == nil {
		http.Error(w, "templates unavailable", http.StatusInternalServerError)
		return
	}
	if err := h.T.RenderFull(w, status, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "full page render")
	}
}

// NotFound renders the 404 page for browsers.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{
		Title:       "Página no encontrada · GameStore",
		PageTitle:   "Página no encontrada",
		CurrentPage: PageNotFound,
	}).With("Path", r.URL.Path).Build()
	h.renderPage(w, r, http.StatusNotFound, data)
}

var devTemplateError = template.Must(template.New("dev-error").Parse(
	`<div style="margin:20px;padding:20px;border:2px solid #c33;background:#fee;font-family:monospace">` +
		`<h2>Template rendering error</h2><p><strong>{{.Stage}}</strong> {{.Path}}</p><pre>{{.Err}}</pre></div>`))

// logAndRenderTemplateError logs a failed render. Dev mode shows the error in the page.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, stage string) {
	h.logger().ErrorContext(r.Context(), "template rendering failed",
		slog.Any("error", err),
		slog.String("stage", stage),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if !h.IsDev {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = devTemplateError.Execute(w, map[string]string{"Stage": stage, "Path": r.URL.Path, "Err": err.Error()})
}

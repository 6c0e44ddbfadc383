package httpx

import (
	"net/http"
)

// ErrorOpts contains the options needed to render a standalone error page.
type ErrorOpts struct {
	// StatusCode is the HTTP status code to set (defaults to 500).
	StatusCode int
	// Title is shown in the browser tab and as the page heading.
	Title string
	// Message is the user-facing explanation.
	Message string
	// BackURL is where the "volver" link points (defaults to /).
	BackURL string
}

func (o ErrorOpts) withDefaults() ErrorOpts {
	if o.StatusCode == 0 {
		o.StatusCode = http.StatusInternalServerError
	}
	if o.Title == "" {
		o.Title = http.StatusText(o.StatusCode)
	}
	if o.BackURL == "" {
		o.BackURL = RouteHome
	}
	return o
}

// RenderErrorPage renders the error layout. It never touches the session so it is safe
// to call from middleware that runs before the session is usable.
func (h *UIHandlers) RenderErrorPage(w http.ResponseWriter, r *http.Request, opts ErrorOpts) {
	opts = opts.withDefaults()
	if h == nil || h.T == nil {
		http.Error(w, opts.Message, opts.StatusCode)
		return
	}

	data := map[string]any{
		"Title":      opts.Title + " · GameStore",
		"PageTitle":  opts.Title,
		"Message":    opts.Message,
		"BackURL":    opts.BackURL,
		"StatusCode": opts.StatusCode,
	}
	if err := h.T.RenderError(w, opts.StatusCode, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "error page render")
	}
}

// CSRFFailed is the CSRF failure handler for browser routes.
func (h *UIHandlers) CSRFFailed(w http.ResponseWriter, r *http.Request) {
	h.logger().Warn("csrf validation failed",
		"method", r.Method,
		"path", r.URL.Path,
	)
	h.RenderErrorPage(w, r, ErrorOpts{
		StatusCode: http.StatusForbidden,
		Title:      "Solicitud rechazada",
		Message:    "El formulario caducó o no es válido. Vuelve a cargar la página e inténtalo de nuevo.",
		BackURL:    r.URL.Path,
	})
}

package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/gamestore/gamestore-web/internal/domain/auth"
)

// SessionManager loads and persists the per-browser session record.
// Implementations live in internal/adapters/cookiestore.
type SessionManager interface {
	// Load returns the record for the request, or a fresh one. On a storage error
	// a usable fresh record is still returned alongside the error.
	Load(r *http.Request) (*domainauth.Session, error)
	// Save writes the record and sets the session cookie on w.
	Save(w http.ResponseWriter, r *http.Request, sess *domainauth.Session) error
	// Renew rotates the record's identifier. Callers must Save afterwards.
	Renew(r *http.Request, sess *domainauth.Session) error
}

// WithSession returns a middleware that loads the session record into the request context.
// A broken store never fails the request; the browser continues anonymously.
func WithSession(mgr SessionManager, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := mgr.Load(r)
			if err != nil {
				logger.WarnContext(r.Context(), "session load failed", slog.Any("error", err))
			}
			if sess == nil {
				sess = &domainauth.Session{}
			}
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
		})
	}
}

// sessionFor returns the request's session, creating an empty one if the middleware did not run.
func sessionFor(r *http.Request) *domainauth.Session {
	if s, ok := SessionFromContext(r.Context()); ok {
		return s
	}
	return &domainauth.Session{}
}

// commitSession persists a modified record. It must run before the response body is written.
func (h *UIHandlers) commitSession(w http.ResponseWriter, r *http.Request, sess *domainauth.Session) {
	if h.Sessions == nil || !sess.Modified() {
		return
	}
	if err := h.Sessions.Save(w, r, sess); err != nil {
		h.logger().ErrorContext(r.Context(), "session save failed", slog.Any("error", err))
	}
}

// rotateSession gives the record a new identifier, then persists it.
func (h *UIHandlers) rotateSession(w http.ResponseWriter, r *http.Request, sess *domainauth.Session) {
	if h.Sessions == nil {
		return
	}
	if err := h.Sessions.Renew(r, sess); err != nil {
		h.logger().WarnContext(r.Context(), "session renew failed", slog.Any("error", err))
	}
	if err := h.Sessions.Save(w, r, sess); err != nil {
		h.logger().ErrorContext(r.Context(), "session save failed", slog.Any("error", err))
	}
}

// redirect persists the session and then issues a 303 to target.
func (h *UIHandlers) redirect(w http.ResponseWriter, r *http.Request, sess *domainauth.Session, target string) {
	h.commitSession(w, r, sess)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

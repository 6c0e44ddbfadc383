package httpx

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"
)

// CSRF defaults. The form field shares the cookie name.
const (
	DefaultCSRFCookieName  = "csrf_token"
	DefaultCSRFHeaderName  = "X-Csrf-Token"
	DefaultCSRFTokenLength = 32
	DefaultCSRFMaxAge      = 12 * time.Hour
)

// CSRFConfig configures CSRFProtection. Zero values select the defaults above.
type CSRFConfig struct {
	CookieName    string
	HeaderName    string
	FormFieldName string
	CookieDomain  string
	TokenLength   int // random bytes before encoding
	MaxAge        time.Duration
	// OnFailure renders the rejection. The request it receives still carries a
	// fresh token, so the page can offer a working form. Default: plain 403.
	OnFailure http.Handler
}

type csrfGuard struct {
	cfg CSRFConfig
}

func newCSRFGuard(cfg CSRFConfig) *csrfGuard {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCSRFCookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultCSRFHeaderName
	}
	if cfg.FormFieldName == "" {
		cfg.FormFieldName = cfg.CookieName
	}
	if cfg.TokenLength <= 0 {
		cfg.TokenLength = DefaultCSRFTokenLength
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultCSRFMaxAge
	}
	if cfg.OnFailure == nil {
		cfg.OnFailure = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "CSRF token validation failed", http.StatusForbidden)
		})
	}
	return &csrfGuard{cfg: cfg}
}

// CSRFProtection implements the double-submit cookie pattern for the login and
// registration forms. Every request gets a token (issued once per browser and
// exposed through GetCSRFToken); unsafe methods must echo it back in the form
// field or header. Browsers that announce a cross-site request through
// Sec-Fetch-Site are rejected before the token is even compared.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	g := newCSRFGuard(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := g.ensureToken(w, r)
			if err != nil {
				http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
				return
			}
			r = r.WithContext(setCSRFTokenInContext(r.Context(), token))

			if !isSafeMethod(r.Method) && !g.verify(r, token) {
				g.cfg.OnFailure.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ensureToken returns the browser's token, issuing a cookie when there is none.
func (g *csrfGuard) ensureToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(g.cfg.CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	raw := make([]byte, g.cfg.TokenLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	http.SetCookie(w, &http.Cookie{
		Name:     g.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   g.cfg.CookieDomain,
		HttpOnly: true, // forms get the value from the template, never from script
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(g.cfg.MaxAge.Seconds()),
	})
	return token, nil
}

func (g *csrfGuard) verify(r *http.Request, expected string) bool {
	if strings.EqualFold(r.Header.Get("Sec-Fetch-Site"), "cross-site") {
		return false
	}

	submitted := r.Header.Get(g.cfg.HeaderName)
	if submitted == "" && isFormContent(r.Header.Get("Content-Type")) {
		if err := r.ParseForm(); err != nil {
			return false
		}
		submitted = r.PostFormValue(g.cfg.FormFieldName)
	}
	if submitted == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(expected)) == 1
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func isFormContent(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// isSecureRequest reports direct TLS or an https hop in X-Forwarded-Proto.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

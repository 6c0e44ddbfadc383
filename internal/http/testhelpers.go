package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gamestore/gamestore-web/internal/adapters/backend"
	"github.com/gamestore/gamestore-web/internal/adapters/cookiestore"
	"github.com/gamestore/gamestore-web/internal/service"
	"github.com/gamestore/gamestore-web/internal/testutil"
)

const testSessionSecret = "test-session-secret-with-enough-entropy"

// RequireTemplateRenderer creates a TemplateRenderer from the on-disk templates,
// skipping the test if they are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     discardLogger(),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testApp is a full router wired against a scripted backend.
type testApp struct {
	Backend  *testutil.FakeBackend
	Handler  http.Handler
	Sessions SessionManager
}

type testAppOption func(*RouterServices)

func withSessions(mgr SessionManager) testAppOption {
	return func(s *RouterServices) { s.Sessions = mgr }
}

func withMetricsHandler(h http.Handler) testAppOption {
	return func(s *RouterServices) { s.MetricsHandler = h }
}

// newTestApp builds the production router with cookie-held sessions and the embedded frontend.
func newTestApp(t *testing.T, opts ...testAppOption) *testApp {
	t.Helper()

	fake := testutil.NewFakeBackend(t)
	factory, err := backend.NewFactory(backend.Config{BaseURL: fake.URL, Logger: discardLogger()})
	require.NoError(t, err)
	decoder, err := backend.NewDecoder("", "")
	require.NoError(t, err)

	codec, err := cookiestore.NewCodec(testSessionSecret)
	require.NoError(t, err)

	services := RouterServices{
		Storefront: service.NewStorefrontService(service.StorefrontServiceOptions{Decoder: decoder, Logger: discardLogger()}),
		Backends:   factory,
		Sessions:   cookiestore.NewCookieStore(codec, cookiestore.Options{Logger: discardLogger()}),
		Logger:     discardLogger(),
	}
	for _, opt := range opts {
		opt(&services)
	}

	return &testApp{Backend: fake, Handler: NewRouter(services), Sessions: services.Sessions}
}

// browser returns a cookie-keeping client for the app.
func (a *testApp) browser(t *testing.T) *testBrowser {
	return &testBrowser{t: t, h: a.Handler, cookies: make(map[string]*http.Cookie)}
}

// testBrowser replays cookies between requests like a real browser, without following redirects.
type testBrowser struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func (b *testBrowser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
	}
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)

	resp := rec.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *testBrowser) get(path string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// post submits form with the CSRF token the browser currently holds.
// It loads the form page first when no token has been issued yet.
func (b *testBrowser) post(path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	if _, ok := b.cookies[DefaultCSRFCookieName]; !ok {
		b.get(path)
	}
	if c, ok := b.cookies[DefaultCSRFCookieName]; ok {
		form.Set(DefaultCSRFCookieName, c.Value)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// login signs the browser in against a backend scripted to accept it.
func (b *testBrowser) login(email string) {
	b.t.Helper()
	rec := b.post(RouteLogin, url.Values{fieldEmail: {email}, fieldPassword: {"secreto"}})
	require.Equal(b.t, http.StatusSeeOther, rec.Code, rec.Body.String())
}

func (b *testBrowser) hasCookie(name string) bool {
	_, ok := b.cookies[name]
	return ok
}

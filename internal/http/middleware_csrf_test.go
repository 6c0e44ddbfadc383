package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfOK() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	})
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func formPost(token string, withCookie bool) *http.Request {
	form := url.Values{fieldEmail: {"ana@example.com"}}
	if token != "" {
		form.Set(DefaultCSRFCookieName, token)
	}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if withCookie {
		req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "cookie-token"})
	}
	return req
}

func TestCSRFProtection_GetIssuesTokenAndExposesIt(t *testing.T) {
	rec := httptest.NewRecorder()
	CSRFProtection(CSRFConfig{})(csrfOK()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := rec.Result()
	defer resp.Body.Close()

	c := findCookie(resp, DefaultCSRFCookieName)
	require.NotNil(t, c, "CSRF cookie not set")
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, c.Value, rec.Body.String(), "context token must match cookie")
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, int((12 * time.Hour).Seconds()), c.MaxAge)
}

func TestCSRFProtection_ExistingCookieReused(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "existing"})
	rec := httptest.NewRecorder()

	CSRFProtection(CSRFConfig{})(csrfOK()).ServeHTTP(rec, req)

	resp := rec.Result()
	defer resp.Body.Close()
	assert.Nil(t, findCookie(resp, DefaultCSRFCookieName), "cookie should not be re-issued")
	assert.Equal(t, "existing", rec.Body.String())
}

func TestCSRFProtection_Post(t *testing.T) {
	tests := []struct {
		name       string
		req        func() *http.Request
		wantStatus int
	}{
		{name: "no token", req: func() *http.Request { return formPost("", false) }, wantStatus: http.StatusForbidden},
		{name: "form token without cookie", req: func() *http.Request { return formPost("cookie-token", false) }, wantStatus: http.StatusForbidden},
		{name: "mismatched form token", req: func() *http.Request { return formPost("other", true) }, wantStatus: http.StatusForbidden},
		{name: "matching form token", req: func() *http.Request { return formPost("cookie-token", true) }, wantStatus: http.StatusOK},
		{
			name: "matching header token",
			req: func() *http.Request {
				req := formPost("", true)
				req.Header.Set(DefaultCSRFHeaderName, "cookie-token")
				return req
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "json body ignores form field",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"csrf_token":"cookie-token"}`))
				req.Header.Set("Content-Type", "application/json")
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "cookie-token"})
				return req
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			CSRFProtection(CSRFConfig{})(csrfOK()).ServeHTTP(rec, tt.req())
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCSRFProtection_RejectsCrossSiteFetch(t *testing.T) {
	req := formPost("cookie-token", true)
	req.Header.Set("Sec-Fetch-Site", "cross-site")

	rec := httptest.NewRecorder()
	CSRFProtection(CSRFConfig{})(csrfOK()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = formPost("cookie-token", true)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	rec = httptest.NewRecorder()
	CSRFProtection(CSRFConfig{})(csrfOK()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFProtection_QueryStringTokenIgnored(t *testing.T) {
	req := formPost("", true)
	req.URL.RawQuery = "csrf_token=cookie-token"

	rec := httptest.NewRecorder()
	CSRFProtection(CSRFConfig{})(csrfOK()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFProtection_SafeMethodsExempt(t *testing.T) {
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		rec := httptest.NewRecorder()
		CSRFProtection(CSRFConfig{})(csrfOK()).ServeHTTP(rec, httptest.NewRequest(m, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code, m)
	}
}

func TestCSRFProtection_CustomFailureHandler(t *testing.T) {
	called := false
	cfg := CSRFConfig{OnFailure: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.NotEmpty(t, GetCSRFToken(r), "failure handler should see a fresh token")
		w.WriteHeader(http.StatusTeapot)
	})}

	rec := httptest.NewRecorder()
	CSRFProtection(cfg)(csrfOK()).ServeHTTP(rec, formPost("", false))

	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCSRFProtection_SecureBehindProxy(t *testing.T) {
	tests := []struct {
		name   string
		proto  string
		tls    bool
		secure bool
	}{
		{name: "plain http", secure: false},
		{name: "forwarded https", proto: "https", secure: true},
		{name: "forwarded list", proto: "http, HTTPS", secure: true},
		{name: "direct tls", tls: true, secure: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			if tt.tls {
				req = httptest.NewRequest(http.MethodGet, "https://gamestore.test/", nil)
			}
			rec := httptest.NewRecorder()
			CSRFProtection(CSRFConfig{CookieDomain: "gamestore.test"})(csrfOK()).ServeHTTP(rec, req)

			resp := rec.Result()
			defer resp.Body.Close()
			c := findCookie(resp, DefaultCSRFCookieName)
			require.NotNil(t, c)
			assert.Equal(t, tt.secure, c.Secure)
			assert.Equal(t, "gamestore.test", c.Domain)
		})
	}
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}

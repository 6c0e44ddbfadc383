package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamestore/gamestore-web/internal/adapters/cookiestore"
	domainauth "github.com/gamestore/gamestore-web/internal/domain/auth"
	mockauth "github.com/gamestore/gamestore-web/internal/mocks/auth"
	"github.com/gamestore/gamestore-web/internal/service"
)

const catalogueBody = `[
	{"id": 1, "titulo": "The Legend of Zelda", "plataforma": "Switch", "precio": 59.99, "stock": 3},
	{"id": "2", "nombre": "Hades", "precio": "24.5", "stock": 0}
]`

// sessionOf loads the record the browser's cookies currently reference.
func sessionOf(t *testing.T, app *testApp, b *testBrowser) *domainauth.Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	sess, err := app.Sessions.Load(req)
	require.NoError(t, err)
	return sess
}

func credentials(email, password string) url.Values {
	return url.Values{fieldEmail: {email}, fieldPassword: {password}}
}

func TestLoginSubmit_SuccessStoresTokenAndRedirects(t *testing.T) {
	app := newTestApp(t)
	app.Backend.
		WithLogin(http.StatusOK, `{"access_token":"tok-123","user":{"email":"ana@example.com"}}`).
		WithProfile(http.StatusOK, `{"user":{"id":7,"email":"ana@example.com","nombre":"Ana"}}`)
	b := app.browser(t)

	rec := b.post(RouteLogin, credentials("  ana@example.com ", "secreto"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, RouteHome, rec.Header().Get("Location"))

	sess := sessionOf(t, app, b)
	assert.Equal(t, "tok-123", sess.AccessToken)
	assert.Equal(t, "ana@example.com", sess.UserEmail)

	reqs := app.Backend.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"email":"ana@example.com","password":"secreto"}`, string(reqs[0].Body))
	assert.Empty(t, reqs[0].Authorization, "login must not carry a bearer token")

	landing := b.get(RouteHome)
	require.Equal(t, http.StatusOK, landing.Code)
	body := landing.Body.String()
	assert.Contains(t, body, service.MsgLoginSucceeded)
	assert.Contains(t, body, "Hola, Ana")
	assert.Contains(t, body, "Cerrar sesión")
	assert.Equal(t, 1, app.Backend.Calls(http.MethodGet, "/api/auth/profile"))
	assert.Equal(t, "Bearer tok-123", app.Backend.Requests()[1].Authorization)

	again := b.get(RouteHome)
	assert.NotContains(t, again.Body.String(), service.MsgLoginSucceeded, "flash is shown once")
}

func TestLoginSubmit_BackendUnreachable(t *testing.T) {
	app := newTestApp(t)
	app.Backend.Close()
	b := app.browser(t)

	rec := b.post(RouteLogin, credentials("ana@example.com", "secreto"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, service.MsgBackendDown)
	assert.Contains(t, body, `value="ana@example.com"`)
	assert.False(t, sessionOf(t, app, b).IsAuthenticated())
}

func TestLoginSubmit_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "msg field surfaced", status: http.StatusUnauthorized, body: `{"msg":"Credenciales inválidas"}`, wantMsg: "Credenciales inválidas"},
		{name: "no msg falls back", status: http.StatusUnauthorized, body: `{"detail":"nope"}`, wantMsg: service.MsgLoginFailed},
		{name: "non json body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMsg: service.MsgLoginFailed},
		{name: "200 without token", status: http.StatusOK, body: `{"user":{}}`, wantMsg: service.MsgLoginFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.Backend.WithLogin(tt.status, tt.body)
			b := app.browser(t)

			rec := b.post(RouteLogin, credentials("ana@example.com", "mala"))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			assert.Contains(t, rec.Body.String(), "alert-danger")
			assert.False(t, sessionOf(t, app, b).IsAuthenticated(), "session must be unchanged")
		})
	}
}

func TestLoginSubmit_ValidationSkipsBackend(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{name: "missing email", form: credentials("", "secreto"), wantMsg: "Correo: campo obligatorio."},
		{name: "malformed email", form: credentials("ana-at-example", "secreto"), wantMsg: "Correo no tiene un formato válido."},
		{name: "missing password", form: credentials("ana@example.com", ""), wantMsg: "Contraseña: campo obligatorio."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			b := app.browser(t)

			rec := b.post(RouteLogin, tt.form)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			assert.Contains(t, rec.Body.String(), errMsgFixBelow)
			assert.Empty(t, app.Backend.Requests())
		})
	}
}

func TestRegisterSubmit_SuccessRedirectsToLoginWithoutSigningIn(t *testing.T) {
	app := newTestApp(t)
	app.Backend.WithRegister(http.StatusCreated, `{"status":201,"msg":"Usuario creado"}`)
	b := app.browser(t)

	rec := b.post(RouteRegister, credentials("nuevo@example.com", "secreto"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, RouteLogin, rec.Header().Get("Location"))

	sess := sessionOf(t, app, b)
	assert.Empty(t, sess.AccessToken)
	assert.Empty(t, sess.UserEmail)

	page := b.get(RouteLogin)
	assert.Contains(t, page.Body.String(), service.MsgRegisterSucceeded)
	assert.Contains(t, page.Body.String(), "alert-success")
}

func TestRegisterSubmit_Rejected(t *testing.T) {
	app := newTestApp(t)
	app.Backend.WithRegister(http.StatusBadRequest, `{"msg":"El usuario ya existe"}`)
	b := app.browser(t)

	rec := b.post(RouteRegister, credentials("ana@example.com", "secreto"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "El usuario ya existe")
	assert.Contains(t, rec.Body.String(), `value="ana@example.com"`)
}

func TestRegisterSubmit_200IsNotSuccess(t *testing.T) {
	app := newTestApp(t)
	app.Backend.WithRegister(http.StatusOK, `{}`)
	b := app.browser(t)

	rec := b.post(RouteRegister, credentials("ana@example.com", "secreto"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), service.MsgRegisterFailed)
}

func TestVideojuegos_AnonymousRedirectsWithoutBackendCall(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	rec := b.get(RouteVideojuegos)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, RouteLogin, rec.Header().Get("Location"))
	assert.Empty(t, app.Backend.Requests())

	page := b.get(RouteLogin)
	assert.Contains(t, page.Body.String(), service.MsgLoginRequired)
}

func TestVideojuegos_ListsCatalogue(t *testing.T) {
	app := newTestApp(t)
	app.Backend.
		WithLogin(http.StatusOK, `{"access_token":"tok-abc"}`).
		WithVideojuegos(http.StatusOK, catalogueBody)
	b := app.browser(t)
	b.login("ana@example.com")

	rec := b.get(RouteVideojuegos)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, ContainsAll(body, []string{
		"The Legend of Zelda", "Switch", "$59.99", "3 unidades disponibles",
		"Hades", "$24.50", "Agotado", "ana@example.com",
	}), body)

	var listing []string
	for _, r := range app.Backend.Requests() {
		if r.Path == "/api/videojuegos" {
			listing = append(listing, r.Authorization)
		}
	}
	assert.Equal(t, []string{"Bearer tok-abc"}, listing)
}

func TestVideojuegos_EnvelopeBody(t *testing.T) {
	app := newTestApp(t)
	app.Backend.
		WithLogin(http.StatusOK, `{"access_token":"tok"}`).
		WithVideojuegos(http.StatusOK, `{"videojuegos":[{"id":9,"titulo":"Celeste"}]}`)
	b := app.browser(t)
	b.login("ana@example.com")

	rec := b.get(RouteVideojuegos)

	assert.Contains(t, rec.Body.String(), "Celeste")
	assert.Contains(t, rec.Body.String(), "Precio no disponible")
}

func TestVideojuegos_FailuresRenderEmptyListWithNotice(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "500 unparseable", status: http.StatusInternalServerError, body: `Traceback (most recent call last)`, wantMsg: service.MsgCatalogueFailed},
		{name: "401 with msg", status: http.StatusUnauthorized, body: `{"msg":"Token expirado"}`, wantMsg: "Token expirado"},
		{name: "200 malformed", status: http.StatusOK, body: `"oops"`, wantMsg: service.MsgCatalogueFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.Backend.
				WithLogin(http.StatusOK, `{"access_token":"tok"}`).
				WithVideojuegos(tt.status, tt.body)
			b := app.browser(t)
			b.login("ana@example.com")

			rec := b.get(RouteVideojuegos)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			assert.Contains(t, rec.Body.String(), "No hay videojuegos disponibles.")
		})
	}
}

func TestVideojuegos_BackendGoneAfterLogin(t *testing.T) {
	app := newTestApp(t)
	app.Backend.WithLogin(http.StatusOK, `{"access_token":"tok"}`)
	b := app.browser(t)
	b.login("ana@example.com")
	app.Backend.Close()

	rec := b.get(RouteVideojuegos)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), service.MsgBackendDown)
	assert.True(t, sessionOf(t, app, b).IsAuthenticated(), "connection failures keep the user signed in")
}

func TestLogout_ClearsSession(t *testing.T) {
	app := newTestApp(t)
	app.Backend.WithLogin(http.StatusOK, `{"access_token":"tok"}`)
	b := app.browser(t)
	b.login("ana@example.com")
	require.True(t, sessionOf(t, app, b).IsAuthenticated())

	rec := b.get(RouteLogout)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, RouteHome, rec.Header().Get("Location"))
	sess := sessionOf(t, app, b)
	assert.Empty(t, sess.AccessToken)
	assert.Empty(t, sess.UserEmail)

	landing := b.get(RouteHome)
	assert.Contains(t, landing.Body.String(), service.MsgLoggedOut)
	assert.Contains(t, landing.Body.String(), "Iniciar sesión")

	assert.Equal(t, http.StatusSeeOther, b.get(RouteVideojuegos).Code)
}

func TestLogout_AnonymousIsHarmless(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	rec := b.get(RouteLogout)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, app.Backend.Requests())
}

func TestIndex_ProfileFailureFallsBackToAnonymousLanding(t *testing.T) {
	app := newTestApp(t)
	app.Backend.
		WithLogin(http.StatusOK, `{"access_token":"tok"}`).
		WithProfile(http.StatusUnauthorized, `{"msg":"Token expirado"}`)
	b := app.browser(t)
	b.login("ana@example.com")

	rec := b.get(RouteHome)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Hola,")
	assert.Contains(t, rec.Body.String(), "Bienvenido a GameStore")
}

func TestIndex_AnonymousMakesNoBackendCall(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	rec := b.get(RouteHome)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Registrarse")
	assert.Empty(t, app.Backend.Requests())
}

func TestForms_RenderCSRFToken(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	for _, path := range []string{RouteLogin, RouteRegister} {
		rec := b.get(path)
		require.Equal(t, http.StatusOK, rec.Code)
		token := b.cookies[DefaultCSRFCookieName]
		require.NotNil(t, token)
		assert.Contains(t, rec.Body.String(), `name="csrf_token" value="`+token.Value+`"`, path)
	}
}

func TestPostWithoutCSRFTokenIsRejected(t *testing.T) {
	app := newTestApp(t)
	app.Backend.WithLogin(http.StatusOK, `{"access_token":"tok"}`)

	req := httptest.NewRequest(http.MethodPost, RouteLogin, nil)
	req.PostForm = credentials("ana@example.com", "secreto")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Solicitud rechazada")
	assert.Empty(t, app.Backend.Requests())
}

func TestReferenceSessions_RotateOnLogin(t *testing.T) {
	codec, err := cookiestore.NewCodec(testSessionSecret)
	require.NoError(t, err)
	store := mockauth.NewMemorySessionStore()
	mgr := cookiestore.NewReferenceStore(codec, store, cookiestore.Options{Logger: discardLogger()})

	app := newTestApp(t, withSessions(mgr))
	app.Backend.WithLogin(http.StatusOK, `{"access_token":"tok-ref"}`)
	b := app.browser(t)

	// Queue a flash so a pre-login record is persisted.
	b.get(RouteVideojuegos)
	before := sessionOf(t, app, b)
	require.NotEmpty(t, before.ID)
	require.Equal(t, 1, store.Len())

	b.login("ana@example.com")

	after := sessionOf(t, app, b)
	assert.Equal(t, "tok-ref", after.AccessToken)
	assert.NotEqual(t, before.ID, after.ID)
	assert.Equal(t, 1, store.Len(), "pre-login record must be deleted")
}

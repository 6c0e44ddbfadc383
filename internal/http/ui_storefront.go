package httpx

import (
	"net/http"

	domainauth "github.com/gamestore/gamestore-web/internal/domain/auth"
	"github.com/gamestore/gamestore-web/internal/http/validation"
)

const (
	maxEmailLen    = 254
	maxPasswordLen = 128
)

func homeMeta() PageMeta {
	return PageMeta{Title: "GameStore", PageTitle: "Bienvenido a GameStore", CurrentPage: PageHome}
}

func loginMeta() PageMeta {
	return PageMeta{Title: "Iniciar sesión · GameStore", PageTitle: "Iniciar sesión", CurrentPage: PageLogin}
}

func registerMeta() PageMeta {
	return PageMeta{Title: "Registro · GameStore", PageTitle: "Crear cuenta", CurrentPage: PageRegister}
}

func videojuegosMeta() PageMeta {
	return PageMeta{Title: "Videojuegos · GameStore", PageTitle: "Catálogo de videojuegos", CurrentPage: PageVideojuegos}
}

// Index renders the landing page, enriched with the profile when the session holds a token.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	sess := sessionFor(r)
	landing := h.Svc.Landing(r.Context(), h.Backends.New(), sess)

	data := NewTemplateData(r, homeMeta()).
		With("Profile", landing.Profile).
		With("ShowProfile", landing.Authenticated()).
		Build()
	h.renderPage(w, r, http.StatusOK, data)
}

// LoginForm renders the empty login form.
func (h *UIHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, NewTemplateData(r, loginMeta()).With("Email", "").Build())
}

// LoginSubmit forwards credentials to the backend and signs the session in on success.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFromForm(r)
	if errs := validateCredentials(creds); len(errs) > 0 {
		h.renderCredentialsForm(w, r, credentialsFormOpts{
			Meta: loginMeta(), Email: creds.Email, FieldErrors: errs, Status: http.StatusUnprocessableEntity,
		})
		return
	}

	sess := sessionFor(r)
	result := h.Svc.Login(r.Context(), h.Backends.New(), sess, creds)
	if !result.SignedIn {
		h.renderCredentialsForm(w, r, credentialsFormOpts{Meta: loginMeta(), Email: creds.Email, Notice: result.Notice})
		return
	}

	// New identifier on privilege change.
	h.rotateSession(w, r, sess)
	http.Redirect(w, r, RouteHome, http.StatusSeeOther)
}

// RegisterForm renders the empty registration form.
func (h *UIHandlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, NewTemplateData(r, registerMeta()).With("Email", "").Build())
}

// RegisterSubmit forwards credentials to the backend. Success sends the browser to the login form.
func (h *UIHandlers) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFromForm(r)
	if errs := validateCredentials(creds); len(errs) > 0 {
		h.renderCredentialsForm(w, r, credentialsFormOpts{
			Meta: registerMeta(), Email: creds.Email, FieldErrors: errs, Status: http.StatusUnprocessableEntity,
		})
		return
	}

	sess := sessionFor(r)
	result := h.Svc.Register(r.Context(), h.Backends.New(), sess, creds)
	if !result.Registered {
		h.renderCredentialsForm(w, r, credentialsFormOpts{Meta: registerMeta(), Email: creds.Email, Notice: result.Notice})
		return
	}
	h.redirect(w, r, sess, RouteLogin)
}

// Videojuegos renders the catalogue for signed-in browsers.
func (h *UIHandlers) Videojuegos(w http.ResponseWriter, r *http.Request) {
	sess := sessionFor(r)
	result := h.Svc.Videojuegos(r.Context(), h.Backends.New(), sess)
	if result.LoginRequired {
		h.redirect(w, r, sess, RouteLogin)
		return
	}

	data := NewTemplateData(r, videojuegosMeta()).
		With("Videojuegos", result.Items).
		With("UserEmail", sess.UserEmail).
		WithNotice(domainauth.FlashError, result.Notice).
		Build()
	h.renderPage(w, r, http.StatusOK, data)
}

// Logout clears the session record and returns to the landing page.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFor(r)
	h.Svc.Logout(h.Backends.New(), sess)
	h.rotateSession(w, r, sess)
	http.Redirect(w, r, RouteHome, http.StatusSeeOther)
}

// credentialsFormOpts groups what a re-rendered login or register form needs.
type credentialsFormOpts struct {
	Meta        PageMeta
	Email       string
	Notice      string
	FieldErrors map[string]string
	Status      int
}

func (h *UIHandlers) renderCredentialsForm(w http.ResponseWriter, r *http.Request, opts credentialsFormOpts) {
	b := NewTemplateData(r, opts.Meta).
		With("Email", opts.Email).
		WithFieldErrors(opts.FieldErrors).
		WithNotice(domainauth.FlashError, opts.Notice)
	if len(opts.FieldErrors) > 0 {
		b.WithError(errMsgFixBelow)
	}
	status := opts.Status
	if status == 0 {
		status = http.StatusOK
	}
	h.renderPage(w, r, status, b.Build())
}

// credentialsFromForm reads the email/password pair. Missing fields read as empty.
func credentialsFromForm(r *http.Request) domainauth.Credentials {
	return domainauth.Credentials{
		Email:    r.PostFormValue(fieldEmail),
		Password: r.PostFormValue(fieldPassword),
	}.Normalize()
}

func validateCredentials(c domainauth.Credentials) map[string]string {
	return validation.New().
		Validate(fieldEmail, c.Email, validation.Required("Correo", maxEmailLen), validation.Email("Correo")).
		Validate(fieldPassword, c.Password, validation.Present("Contraseña", maxPasswordLen)).
		Errors()
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/gamestore/gamestore-web/internal/domain/auth"
	"github.com/gamestore/gamestore-web/internal/domain/model"
	apperrors "github.com/gamestore/gamestore-web/internal/errors"
	"github.com/gamestore/gamestore-web/internal/ports"
)

// User-facing notices.
const (
	MsgLoginFailed       = "Error en el login"
	MsgLoginSucceeded    = "¡Login exitoso!"
	MsgRegisterFailed    = "Error en el registro"
	MsgRegisterSucceeded = "¡Registro exitoso! Ahora puedes iniciar sesión."
	MsgLoginRequired     = "Debes iniciar sesión primero"
	MsgLoggedOut         = "Sesión cerrada"
	MsgBackendDown       = "No se pudo conectar con el servidor"
	MsgCatalogueFailed   = "No se pudieron cargar los videojuegos"
)

// ResponseDecoder extracts domain values from backend response bodies.
type ResponseDecoder interface {
	ErrorMessage(res ports.Result, fallback string) string
	AccessToken(body []byte) string
	Videojuegos(body []byte) ([]model.Videojuego, error)
	Profile(body []byte) (model.Profile, error)
}

// StorefrontServiceOptions groups dependencies for StorefrontService.
type StorefrontServiceOptions struct {
	Decoder ResponseDecoder
	Logger  *slog.Logger
}

// StorefrontService decides what each browser action does with the session record,
// given the outcome of a single backend call. It never persists the session itself.
type StorefrontService struct {
	decoder ResponseDecoder
	logger  *slog.Logger
}

// NewStorefrontService constructs a new StorefrontService.
func NewStorefrontService(opts StorefrontServiceOptions) *StorefrontService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StorefrontService{
		decoder: opts.Decoder,
		logger:  logger.With("component", "storefront"),
	}
}

// LoginResult describes the outcome of a login submission.
// When SignedIn is false, Notice explains why and the session was left untouched.
type LoginResult struct {
	SignedIn bool
	Notice   string
}

// Login forwards credentials to the backend. On 200 with a token the session is signed in
// and a success flash is queued.
func (s *StorefrontService) Login(ctx context.Context, api ports.Backend, sess *domainauth.Session, creds domainauth.Credentials) LoginResult {
	res, err := api.Login(ctx, creds)
	if err != nil {
		s.logFailure(ctx, "login", err)
		return LoginResult{Notice: MsgBackendDown}
	}
	if !res.OK() {
		return LoginResult{Notice: s.decoder.ErrorMessage(res, MsgLoginFailed)}
	}

	token := s.decoder.AccessToken(res.Body)
	if token == "" {
		s.logger.WarnContext(ctx, "login succeeded without access token", "status", res.StatusCode)
		return LoginResult{Notice: MsgLoginFailed}
	}

	sess.SignIn(token, creds.Email)
	sess.AddFlash(domainauth.FlashSuccess, MsgLoginSucceeded)
	return LoginResult{SignedIn: true}
}

// RegisterResult describes the outcome of a registration submission.
type RegisterResult struct {
	Registered bool
	Notice     string
}

// Register forwards credentials to the backend. Registration never authenticates:
// on 201 only a success flash is queued for the login page.
func (s *StorefrontService) Register(ctx context.Context, api ports.Backend, sess *domainauth.Session, creds domainauth.Credentials) RegisterResult {
	res, err := api.Register(ctx, creds)
	if err != nil {
		s.logFailure(ctx, "register", err)
		return RegisterResult{Notice: MsgBackendDown}
	}
	if !res.Created() {
		return RegisterResult{Notice: s.decoder.ErrorMessage(res, MsgRegisterFailed)}
	}

	sess.AddFlash(domainauth.FlashSuccess, MsgRegisterSucceeded)
	return RegisterResult{Registered: true}
}

// LandingResult describes what the landing page shows.
type LandingResult struct {
	Profile *model.Profile
}

// Authenticated reports whether the authenticated landing should be rendered.
func (r LandingResult) Authenticated() bool { return r.Profile != nil }

// Landing enriches the landing page with the user's profile when possible.
// Any failure yields the anonymous landing.
func (s *StorefrontService) Landing(ctx context.Context, api ports.Backend, sess *domainauth.Session) LandingResult {
	if !sess.IsAuthenticated() {
		return LandingResult{}
	}

	api.SetToken(sess.AccessToken)
	res, err := api.Profile(ctx)
	if err != nil {
		s.logFailure(ctx, "profile", err)
		return LandingResult{}
	}
	if !res.OK() {
		s.logger.DebugContext(ctx, "profile unavailable", "status", res.StatusCode)
		return LandingResult{}
	}

	profile, err := s.decoder.Profile(res.Body)
	if err != nil {
		s.logFailure(ctx, "profile", err)
		return LandingResult{}
	}
	if profile.Email == "" {
		profile.Email = sess.UserEmail
	}
	return LandingResult{Profile: &profile}
}

// CatalogueResult describes the listing page.
type CatalogueResult struct {
	// LoginRequired means no backend call was made; the caller should redirect to login.
	LoginRequired bool
	Items         []model.Videojuego
	Notice        string
}

// Videojuegos loads the catalogue for an authenticated session. Failures render
// an empty list with a notice.
func (s *StorefrontService) Videojuegos(ctx context.Context, api ports.Backend, sess *domainauth.Session) CatalogueResult {
	if !sess.IsAuthenticated() {
		sess.AddFlash(domainauth.FlashError, MsgLoginRequired)
		return CatalogueResult{LoginRequired: true}
	}

	api.SetToken(sess.AccessToken)
	res, err := api.ListVideojuegos(ctx)
	if err != nil {
		s.logFailure(ctx, "list videojuegos", err)
		return CatalogueResult{Items: []model.Videojuego{}, Notice: MsgBackendDown}
	}
	if !res.OK() {
		return CatalogueResult{Items: []model.Videojuego{}, Notice: s.decoder.ErrorMessage(res, MsgCatalogueFailed)}
	}

	items, err := s.decoder.Videojuegos(res.Body)
	if err != nil {
		s.logFailure(ctx, "decode videojuegos", err)
		return CatalogueResult{Items: []model.Videojuego{}, Notice: MsgCatalogueFailed}
	}
	return CatalogueResult{Items: items}
}

// Logout clears the session record and the adapter's token, then queues a notice.
func (s *StorefrontService) Logout(api ports.Backend, sess *domainauth.Session) {
	sess.Clear()
	api.ClearToken()
	sess.AddFlash(domainauth.FlashSuccess, MsgLoggedOut)
}

// HealthResult is the health proxy response.
type HealthResult struct {
	StatusCode int
	Report     model.HealthReport
}

// Health proxies the backend health endpoint. The proxy answers 503 when the backend
// is unreachable or answers 5xx, and 200 otherwise.
func (s *StorefrontService) Health(ctx context.Context, api ports.Backend) HealthResult {
	res, err := api.Health(ctx)
	if err != nil {
		s.logFailure(ctx, "health", err)
		return HealthResult{StatusCode: http.StatusServiceUnavailable, Report: model.UnreachableHealthReport()}
	}
	report := model.NewHealthReport(res.StatusCode, res.Body)
	if !report.Healthy() {
		s.logger.WarnContext(ctx, "backend health failing", "status", res.StatusCode)
		return HealthResult{StatusCode: http.StatusServiceUnavailable, Report: report}
	}
	return HealthResult{StatusCode: http.StatusOK, Report: report}
}

func (s *StorefrontService) logFailure(ctx context.Context, op string, err error) {
	level := slog.LevelError
	if apperrors.IsUnreachable(err) || apperrors.IsMalformed(err) {
		level = slog.LevelWarn
	}
	if errors.Is(err, context.Canceled) {
		level = slog.LevelDebug
	}
	s.logger.Log(ctx, level, "backend "+op+" failed",
		"code", string(apperrors.GetCode(err)),
		"error", err,
	)
}

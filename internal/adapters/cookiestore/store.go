package cookiestore

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/gamestore/gamestore-web/internal/domain/auth"
	"github.com/gamestore/gamestore-web/internal/ports"
)

// maxCookieBytes keeps a sealed record under the per-cookie browser limit.
const maxCookieBytes = 4000

// Options configures the session cookie.
type Options struct {
	Name   string
	Domain string
	TTL    time.Duration
	Logger *slog.Logger
	// Now is overridable for tests.
	Now func() time.Time
}

func (o *Options) normalize() {
	if o.Name == "" {
		o.Name = "gamestore_session"
	}
	if o.TTL <= 0 {
		o.TTL = 24 * time.Hour
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// base carries what both stores share: the codec and cookie attributes.
type base struct {
	codec *Codec
	opts  Options
}

func (b *base) newSession() *domainauth.Session {
	return &domainauth.Session{
		ID:        uuid.NewString(),
		ExpiresAt: b.opts.Now().Add(b.opts.TTL),
	}
}

// restart gives sess a new identifier and a full TTL from now.
func (b *base) restart(sess *domainauth.Session) {
	sess.ID = uuid.NewString()
	sess.ExpiresAt = b.opts.Now().Add(b.opts.TTL)
}

func (b *base) readCookie(r *http.Request, v any) bool {
	c, err := r.Cookie(b.opts.Name)
	if err != nil || c.Value == "" {
		return false
	}
	if err := b.codec.Open(b.opts.Name, c.Value, v); err != nil {
		b.opts.Logger.DebugContext(r.Context(), "discarding session cookie", "error", err)
		return false
	}
	return true
}

func (b *base) writeCookie(w http.ResponseWriter, r *http.Request, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     b.opts.Name,
		Value:    value,
		Path:     "/",
		Domain:   b.opts.Domain,
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  expires.UTC(),
		MaxAge:   max(int(expires.Sub(b.opts.Now()).Seconds()), 1),
	})
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// CookieStore keeps the whole session record in one sealed cookie.
type CookieStore struct {
	base
}

// NewCookieStore builds a store whose records live entirely in the browser.
func NewCookieStore(codec *Codec, opts Options) *CookieStore {
	opts.normalize()
	return &CookieStore{base{codec: codec, opts: opts}}
}

// Load returns the record carried by the request, or a fresh empty one.
func (s *CookieStore) Load(r *http.Request) (*domainauth.Session, error) {
	var sess domainauth.Session
	if !s.readCookie(r, &sess) || sess.Expired(s.opts.Now()) {
		return s.newSession(), nil
	}
	return &sess, nil
}

// Save writes the record back to the browser.
func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, sess *domainauth.Session) error {
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = s.opts.Now().Add(s.opts.TTL)
	}
	value, err := s.codec.Seal(s.opts.Name, sess)
	if err != nil {
		return err
	}
	if len(value) > maxCookieBytes {
		return fmt.Errorf("session cookie too large: %d bytes", len(value))
	}
	s.writeCookie(w, r, value, sess.ExpiresAt)
	sess.MarkPersisted()
	return nil
}

// Renew assigns a new identifier and restarts the lifetime. The record itself
// travels with the cookie.
func (s *CookieStore) Renew(_ *http.Request, sess *domainauth.Session) error {
	s.restart(sess)
	return nil
}

// sessionRef is the sealed payload of the reference cookie.
type sessionRef struct {
	ID string `json:"sid"`
}

// ReferenceStore keeps records in a ports.SessionStore and only the sealed
// session identifier in the browser.
type ReferenceStore struct {
	base
	store ports.SessionStore
}

// NewReferenceStore builds a store backed by a server-side session store.
func NewReferenceStore(codec *Codec, store ports.SessionStore, opts Options) *ReferenceStore {
	opts.normalize()
	return &ReferenceStore{base: base{codec: codec, opts: opts}, store: store}
}

// Load resolves the referenced record. Missing or expired records start a fresh session;
// store failures are returned alongside a fresh session so callers can continue anonymously.
func (s *ReferenceStore) Load(r *http.Request) (*domainauth.Session, error) {
	var ref sessionRef
	if !s.readCookie(r, &ref) || ref.ID == "" {
		return s.newSession(), nil
	}

	sess, err := s.store.Get(r.Context(), ref.ID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return s.newSession(), nil
		}
		return s.newSession(), fmt.Errorf("load session: %w", err)
	}
	if sess.Expired(s.opts.Now()) {
		return s.newSession(), nil
	}
	return &sess, nil
}

// Save persists the record and refreshes the reference cookie.
func (s *ReferenceStore) Save(w http.ResponseWriter, r *http.Request, sess *domainauth.Session) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = s.opts.Now().Add(s.opts.TTL)
	}
	if err := s.store.Save(r.Context(), *sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	value, err := s.codec.Seal(s.opts.Name, sessionRef{ID: sess.ID})
	if err != nil {
		return err
	}
	s.writeCookie(w, r, value, sess.ExpiresAt)
	sess.MarkPersisted()
	return nil
}

// Renew moves the record to a new identifier with a fresh lifetime, so a pre-login
// identifier cannot be reused.
func (s *ReferenceStore) Renew(r *http.Request, sess *domainauth.Session) error {
	old := sess.ID
	s.restart(sess)
	if old == "" {
		return nil
	}
	if err := s.store.Delete(r.Context(), old); err != nil {
		return fmt.Errorf("delete previous session: %w", err)
	}
	return nil
}

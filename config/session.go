package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SessionBackend selects where session records are persisted.
type SessionBackend string

const (
	// SessionBackendCookie keeps the whole record in a signed cookie.
	SessionBackendCookie SessionBackend = "cookie"
	// SessionBackendRedis keeps the record in Redis, referenced by a signed ID cookie.
	SessionBackendRedis SessionBackend = "redis"
)

// devSessionSecret is only used when running in dev mode without SESSION_SECRET.
const devSessionSecret = "gamestore-dev-session-secret"

// minSessionSecretLen is the shortest accepted signing secret outside dev mode.
const minSessionSecretLen = 16

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (s *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "cookie", "redis":
		*s = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: cookie, redis)", v)
	}
}

// SessionConfig controls the per-browser session record.
type SessionConfig struct {
	// Secret signs session cookies. Required outside dev mode.
	Secret string `env:"SESSION_SECRET"`

	// Backend selects cookie or redis storage.
	Backend SessionBackend `env:"SESSION_BACKEND" envDefault:"cookie"`

	// TTL bounds the lifetime of a session record.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"gamestore_session"`

	// KeyPrefix namespaces server-side session keys in Redis.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"gamestore:session:"`
}

// Sanitize fills defaults. In dev mode a fixed secret is used when none is configured.
func (s *SessionConfig) Sanitize(isDev bool) {
	s.Secret = strings.TrimSpace(s.Secret)
	if s.Secret == "" && isDev {
		s.Secret = devSessionSecret
	}
	if s.Backend == "" {
		s.Backend = SessionBackendCookie
	}
	if s.TTL <= 0 {
		s.TTL = 24 * time.Hour
	}
	if s.CookieName = strings.TrimSpace(s.CookieName); s.CookieName == "" {
		s.CookieName = "gamestore_session"
	}
	if s.KeyPrefix == "" {
		s.KeyPrefix = "gamestore:session:"
	}
}

// Validate ensures a usable signing secret is configured.
func (s *SessionConfig) Validate() error {
	if s.Secret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if s.Secret != devSessionSecret && len(s.Secret) < minSessionSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSessionSecretLen)
	}
	return nil
}

package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/gamestore/gamestore-web/config"
	"github.com/gamestore/gamestore-web/internal/adapters/cookiestore"
	redisadapter "github.com/gamestore/gamestore-web/internal/adapters/redis"
	httpx "github.com/gamestore/gamestore-web/internal/http"
)

// SessionDeps groups what the session manager needs.
type SessionDeps struct {
	Config       config.SessionConfig
	CookieDomain string
	Redis        redis.UniversalClient
	Logger       *slog.Logger
}

// NewSessionManager builds the cookie-held or Redis-backed session manager.
//
//nolint:ireturn // the backend is selected at runtime from config.
func NewSessionManager(deps SessionDeps) (httpx.SessionManager, error) {
	codec, err := cookiestore.NewCodec(deps.Config.Secret)
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}

	opts := cookiestore.Options{
		Name:   deps.Config.CookieName,
		Domain: deps.CookieDomain,
		TTL:    deps.Config.TTL,
		Logger: deps.Logger,
	}

	switch deps.Config.Backend {
	case config.SessionBackendRedis:
		if deps.Redis == nil {
			return nil, fmt.Errorf("session backend %q requires a redis client", deps.Config.Backend)
		}
		store := redisadapter.NewSessionStore(deps.Redis, redisadapter.WithKeyPrefix(deps.Config.KeyPrefix))
		return cookiestore.NewReferenceStore(codec, store, opts), nil
	default:
		return cookiestore.NewCookieStore(codec, opts), nil
	}
}

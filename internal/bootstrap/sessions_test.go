package bootstrap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamestore/gamestore-web/config"
	"github.com/gamestore/gamestore-web/internal/adapters/cookiestore"
	"github.com/gamestore/gamestore-web/internal/testutil"
)

func sessionConfig(backend config.SessionBackend) config.SessionConfig {
	return config.SessionConfig{
		Secret:     "0123456789abcdef0123",
		Backend:    backend,
		TTL:        time.Hour,
		CookieName: "gamestore_session",
		KeyPrefix:  "gamestore:session:",
	}
}

func TestNewSessionManager_Cookie(t *testing.T) {
	mgr, err := NewSessionManager(SessionDeps{Config: sessionConfig(config.SessionBackendCookie)})
	require.NoError(t, err)
	assert.IsType(t, &cookiestore.CookieStore{}, mgr)
}

func TestNewSessionManager_RedisRequiresClient(t *testing.T) {
	_, err := NewSessionManager(SessionDeps{Config: sessionConfig(config.SessionBackendRedis)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a redis client")
}

func TestNewSessionManager_Redis(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	mgr, err := NewSessionManager(SessionDeps{
		Config: sessionConfig(config.SessionBackendRedis),
		Redis:  client,
	})
	require.NoError(t, err)
	assert.IsType(t, &cookiestore.ReferenceStore{}, mgr)
}

func TestNewSessionManager_EmptySecret(t *testing.T) {
	cfg := sessionConfig(config.SessionBackendCookie)
	cfg.Secret = ""

	_, err := NewSessionManager(SessionDeps{Config: cfg})
	require.Error(t, err)
}

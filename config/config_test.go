package config

import (
	"strings"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Backend.BaseURL != "http://localhost:5000" {
		t.Errorf("expected default backend URL, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("expected 5s backend timeout, got %s", cfg.Backend.Timeout)
	}
	if cfg.Session.Backend != SessionBackendCookie {
		t.Errorf("expected cookie session backend, got %q", cfg.Session.Backend)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("expected 24h session TTL, got %s", cfg.Session.TTL)
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.gamestore.test/ ")
	t.Setenv("BACKEND_TIMEOUT", "2s")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_SECRET", "a-very-long-signing-secret")
	t.Setenv("SESSION_BACKEND", "REDIS")
	t.Setenv("REDIS_URI", "redis://cache:6379/2")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Backend.BaseURL != "https://api.gamestore.test" {
		t.Errorf("expected trailing slash and whitespace trimmed, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %s", cfg.Backend.Timeout)
	}
	if got := cfg.HTTP.ListenAddr(); got != "127.0.0.1:9000" {
		t.Errorf("expected 127.0.0.1:9000, got %q", got)
	}
	if cfg.Session.Backend != SessionBackendRedis {
		t.Errorf("expected redis backend, got %q", cfg.Session.Backend)
	}
	if cfg.Redis.URI != "redis://cache:6379/2" {
		t.Errorf("unexpected redis uri %q", cfg.Redis.URI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestAppConfig_InvalidSessionBackend(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "memcached")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatal("expected error for unknown session backend")
	}
}

func TestHTTPConfig_AddrOverride(t *testing.T) {
	cfg := HTTPConfig{Host: "0.0.0.0", Port: "5001", Addr: " :8080 "}
	cfg.Sanitize()

	if got := cfg.ListenAddr(); got != ":8080" {
		t.Fatalf("expected HTTP_ADDR to win, got %q", got)
	}
}

func TestHTTPConfig_SanitizeCompressionLevel(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  int
	}{
		{name: "below range", level: 0, want: 1},
		{name: "in range", level: 6, want: 6},
		{name: "above range", level: 12, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := HTTPConfig{CompressionLevel: tt.level}
			cfg.Sanitize()
			if cfg.CompressionLevel != tt.want {
				t.Errorf("expected level %d, got %d", tt.want, cfg.CompressionLevel)
			}
		})
	}
}

func TestSessionConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		isDev   bool
		wantErr bool
	}{
		{name: "missing secret in production", secret: "", isDev: false, wantErr: true},
		{name: "short secret", secret: "short", isDev: false, wantErr: true},
		{name: "dev fallback secret", secret: "", isDev: true, wantErr: false},
		{name: "long secret", secret: "0123456789abcdef", isDev: false, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := SessionConfig{Secret: tt.secret}
			cfg.Sanitize(tt.isDev)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestBackendConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "http url", baseURL: "http://localhost:5000", wantErr: false},
		{name: "https url", baseURL: "https://api.example.com/", wantErr: false},
		{name: "empty", baseURL: "", wantErr: true},
		{name: "relative", baseURL: "/api", wantErr: true},
		{name: "unsupported scheme", baseURL: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := BackendConfig{BaseURL: tt.baseURL}
			cfg.Sanitize()
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, Path: " metrics "}

	cfg.Sanitize()

	if cfg.Path != "/metrics" {
		t.Fatalf("expected path to be normalised, got %q", cfg.Path)
	}
	if cfg.Namespace != "gamestore" {
		t.Fatalf("expected default namespace, got %q", cfg.Namespace)
	}
	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
}

func TestRedisConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RedisConfig
		wantErr string
	}{
		{name: "direct", cfg: RedisConfig{URI: "localhost:6379"}},
		{name: "sentinel", cfg: RedisConfig{UseSentinel: true, SentinelMasterName: "mymaster"}},
		{name: "both topologies", cfg: RedisConfig{UseSentinel: true, SentinelMasterName: "m", UseCluster: true}, wantErr: "mutually exclusive"},
		{name: "sentinel without master", cfg: RedisConfig{UseSentinel: true}, wantErr: "SENTINEL_MASTER_NAME"},
		{name: "cluster with db", cfg: RedisConfig{UseCluster: true, DB: 2}, wantErr: "cluster mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			switch {
			case tt.wantErr == "" && err != nil:
				t.Errorf("unexpected error: %v", err)
			case tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)):
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestAppConfig_ValidateChecksRedisOnlyForRedisSessions(t *testing.T) {
	cfg := AppConfig{
		Backend: BackendConfig{BaseURL: "http://localhost:5000"},
		Session: SessionConfig{Backend: SessionBackendCookie, Secret: "0123456789abcdef0123456789abcdef"},
		Redis:   RedisConfig{UseSentinel: true, UseCluster: true, SentinelMasterName: "m"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("cookie sessions must ignore redis settings: %v", err)
	}

	cfg.Session.Backend = SessionBackendRedis
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected redis topology error")
	}
}

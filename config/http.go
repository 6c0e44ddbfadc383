package config

import (
	"net"
	"strings"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Host is the interface the front end listens on.
	Host string `env:"HOST" envDefault:"0.0.0.0"`

	// Port is the TCP port the front end listens on.
	Port string `env:"PORT" envDefault:"5001"`

	// Addr overrides Host and Port when set (e.g. ":8080").
	Addr string `env:"HTTP_ADDR"`

	// CookieDomain is the domain for session and CSRF cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// CompressionEnabled enables gzip compression for text-based responses.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`

	// CompressionLevel is the gzip compression level (1-9).
	// Default is 6 (standard gzip default).
	CompressionLevel int `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.Host = strings.TrimSpace(h.Host)
	h.Port = strings.TrimSpace(h.Port)
	h.Addr = strings.TrimSpace(h.Addr)
	if h.Port == "" {
		h.Port = "5001"
	}

	// Clamp compression level to valid gzip range (1-9)
	if h.CompressionLevel < 1 {
		h.CompressionLevel = 1
	}
	if h.CompressionLevel > 9 {
		h.CompressionLevel = 9
	}
}

// ListenAddr returns the address the HTTP server binds to.
func (h *HTTPConfig) ListenAddr() string {
	if h.Addr != "" {
		return h.Addr
	}
	return net.JoinHostPort(h.Host, h.Port)
}

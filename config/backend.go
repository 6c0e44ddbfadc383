package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const defaultBackendTimeout = 5 * time.Second

// BackendConfig describes how the front end reaches the GameStore API.
type BackendConfig struct {
	// BaseURL is the root of the backend API (e.g. "http://localhost:5000").
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:5000"`

	// Timeout bounds every backend call. There are no retries.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"5s"`

	// ItemsPath is a JMESPath expression selecting the game list from a
	// successful /api/videojuegos response body. Empty selects the built-in
	// default, which accepts a bare array or a videojuegos/data/items envelope.
	ItemsPath string `env:"BACKEND_ITEMS_PATH"`

	// ProfilePath is a JMESPath expression selecting the user object from a
	// successful /api/auth/profile response body. Empty selects the built-in default.
	ProfilePath string `env:"BACKEND_PROFILE_PATH"`
}

// Sanitize normalises the backend configuration.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = defaultBackendTimeout
	}
	b.ItemsPath = strings.TrimSpace(b.ItemsPath)
	b.ProfilePath = strings.TrimSpace(b.ProfilePath)
}

// Validate checks that the base URL is an absolute http(s) URL.
func (b *BackendConfig) Validate() error {
	if b.BaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	u, err := url.Parse(b.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL %q: must be an absolute http(s) URL", b.BaseURL)
	}
	return nil
}

package auth

// Package auth contains domain-level types for credentials and browser sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// FlashCategory classifies a one-shot notice shown on the next rendered page.
type FlashCategory string

const (
	FlashSuccess FlashCategory = "success"
	FlashError   FlashCategory = "error"
	FlashInfo    FlashCategory = "info"
)

// Flash is a one-shot notice carried across a redirect.
type Flash struct {
	Category FlashCategory `json:"category"`
	Message  string        `json:"message"`
}

// Credentials is the transient email/password pair taken from a form submission.
// It is never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims surrounding whitespace from the email. The password is kept verbatim.
func (c Credentials) Normalize() Credentials {
	c.Email = strings.TrimSpace(c.Email)
	return c
}

// Session is the per-browser record carried between requests.
// A non-empty AccessToken means the browser is authenticated; nothing else does.
type Session struct {
	ID          string    `json:"id"`
	AccessToken string    `json:"access_token,omitempty"`
	UserEmail   string    `json:"user_email,omitempty"`
	Flashes     []Flash   `json:"flashes,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`

	modified bool
}

// IsAuthenticated reports whether the session holds a bearer token.
func (s *Session) IsAuthenticated() bool { return s.AccessToken != "" }

// SignIn stores the token and user identifier issued by the backend.
func (s *Session) SignIn(token, email string) {
	s.AccessToken = token
	s.UserEmail = email
	s.modified = true
}

// Clear drops every field of the record, including pending flashes.
func (s *Session) Clear() {
	s.AccessToken = ""
	s.UserEmail = ""
	s.Flashes = nil
	s.modified = true
}

// AddFlash queues a notice for the next rendered page.
func (s *Session) AddFlash(category FlashCategory, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	s.modified = true
}

// PopFlashes returns and removes all pending notices.
func (s *Session) PopFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return nil
	}
	out := s.Flashes
	s.Flashes = nil
	s.modified = true
	return out
}

// Modified reports whether the record changed since it was loaded.
func (s *Session) Modified() bool { return s.modified }

// MarkPersisted resets the modification flag after a successful save.
func (s *Session) MarkPersisted() { s.modified = false }

// Expired reports whether the record is past its expiry. A zero ExpiresAt never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

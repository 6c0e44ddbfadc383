package ports

import (
	"context"
	"net/http"

	domainauth "github.com/gamestore/gamestore-web/internal/domain/auth"
)

// Result is the outcome of one backend call that reached the server.
// Transport failures are reported as errors instead.
type Result struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the call returned 200.
func (r Result) OK() bool { return r.StatusCode == http.StatusOK }

// Created reports whether the call returned 201.
func (r Result) Created() bool { return r.StatusCode == http.StatusCreated }

// Backend performs calls against the GameStore API.
// A value is owned by a single request; the attached token affects only calls made after it is set.
type Backend interface {
	Login(ctx context.Context, creds domainauth.Credentials) (Result, error)
	Register(ctx context.Context, creds domainauth.Credentials) (Result, error)
	ListVideojuegos(ctx context.Context) (Result, error)
	Profile(ctx context.Context) (Result, error)
	Health(ctx context.Context) (Result, error)

	SetToken(token string)
	ClearToken()
	Token() string
}

// BackendFactory hands out a fresh Backend per request.
type BackendFactory interface {
	New() Backend
}

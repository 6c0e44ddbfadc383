package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/gamestore/gamestore-web/internal/domain/auth"
)

type ctxKey int

const (
	sessionCtxKey ctxKey = iota
	csrfCtxKey
)

// ContextWithSession attaches sess to ctx. A nil session leaves ctx untouched.
func ContextWithSession(ctx context.Context, sess *domainauth.Session) context.Context {
	if sess == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionCtxKey, sess)
}

// SessionFromContext returns the session WithSession loaded for this request.
func SessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey).(*domainauth.Session)
	return sess, ok && sess != nil
}

// IsGuest reports whether the request has no bearer token to forward.
func IsGuest(ctx context.Context) bool {
	sess, ok := SessionFromContext(ctx)
	return !ok || !sess.IsAuthenticated()
}

func setCSRFTokenInContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey, token)
}

// GetCSRFToken returns the token CSRFProtection attached to the request, or "".
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfCtxKey).(string)
	return token
}

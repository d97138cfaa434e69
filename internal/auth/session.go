package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionCookie carries the browser session id
	SessionCookie = "sid"
	// LoginPath is where unauthenticated visitors are sent
	LoginPath = "/login.html"
	// ExpiredLoginPath shows the session-expired notice on the login page
	ExpiredLoginPath = LoginPath + "?expired=1"

	sessionMaxAge = 30 * 24 * time.Hour
)

// Credentials is what the guard attaches to an authenticated request
type Credentials struct {
	SessionID string
	Token     string
	// TeamID is the token's subject when the token is a JWT, else empty.
	TeamID string
}

type ctxKey struct{}

// WithCredentials returns a context carrying c
func WithCredentials(ctx context.Context, c Credentials) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the credentials the guard attached, if any
func FromContext(ctx context.Context) (Credentials, bool) {
	c, ok := ctx.Value(ctxKey{}).(Credentials)
	return c, ok
}

// sessionID reads the browser session id cookie
func sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return "", false
	}
	return cookie.Value, true
}

// tokenClaims is the part of the backend JWT the UI cares about. The
// signature is not verified here; the backend does that on every call.
type tokenClaims struct {
	Subject string
	Expires time.Time
	IsJWT   bool
}

func inspectToken(token string) tokenClaims {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// opaque token
		return tokenClaims{}
	}
	tc := tokenClaims{IsJWT: true}
	if sub, err := claims.GetSubject(); err == nil {
		tc.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tc.Expires = exp.Time
	}
	return tc
}

// expired reports whether the token carries an exp claim in the past.
func (c tokenClaims) expired(now time.Time) bool {
	return c.IsJWT && !c.Expires.IsZero() && !now.Before(c.Expires)
}

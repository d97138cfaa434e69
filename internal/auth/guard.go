package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/storage"
)

// LoginAPI is the backend call used to obtain a token
type LoginAPI interface {
	Login(ctx context.Context, email, password string) (*models.Token, error)
}

// Guard gates protected pages on the stored credential and owns the single
// path that clears it.
type Guard struct {
	store  storage.Store
	api    LoginAPI
	secure bool
	now    func() time.Time
}

// NewGuard creates a session guard
func NewGuard(store storage.Store, api LoginAPI, secureCookies bool) *Guard {
	return &Guard{
		store:  store,
		api:    api,
		secure: secureCookies,
		now:    time.Now,
	}
}

// Middleware protects routes requiring a credential. With no stored token the
// visitor is redirected to login before any backend call or rendering.
func (g *Guard) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, ok := sessionID(r)
		if !ok {
			redirect(w, r, LoginPath)
			return
		}

		token, err := g.store.GetItem(r.Context(), sid, storage.AccessTokenKey)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				logger.Error("Failed to read stored credential", "error", err)
			}
			redirect(w, r, LoginPath)
			return
		}

		claims := inspectToken(token)
		if claims.expired(g.now()) {
			logger.Info("Stored credential expired", "session", sid, "expired_at", claims.Expires)
			g.clear(r.Context(), sid)
			redirect(w, r, ExpiredLoginPath)
			return
		}

		ctx := WithCredentials(r.Context(), Credentials{
			SessionID: sid,
			Token:     token,
			TeamID:    claims.Subject,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// HandleAuthError is the one place a rejected credential is handled: the
// token is removed and the visitor is sent to login with the expiry notice.
func (g *Guard) HandleAuthError(w http.ResponseWriter, r *http.Request) {
	if sid, ok := sessionID(r); ok {
		g.clear(r.Context(), sid)
	}
	logger.Info("Credential rejected by backend, redirecting to login", "path", r.URL.Path)
	redirect(w, r, ExpiredLoginPath)
}

// EnsureSession returns the browser session id, minting one when absent
func (g *Guard) EnsureSession(w http.ResponseWriter, r *http.Request) string {
	if sid, ok := sessionID(r); ok {
		return sid
	}
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionMaxAge.Seconds()),
	})
	return sid
}

// SignIn logs in against the backend and stores the token for the session.
// Backend rejections come back unchanged so the form can show their detail.
func (g *Guard) SignIn(ctx context.Context, w http.ResponseWriter, r *http.Request, email, password string) (Credentials, error) {
	sid := g.EnsureSession(w, r)

	tok, err := g.api.Login(ctx, email, password)
	if err != nil {
		logger.Warn("Login failed", "email", email, "error", err)
		return Credentials{}, err
	}

	if err := g.store.SetItem(ctx, sid, storage.AccessTokenKey, tok.AccessToken); err != nil {
		logger.Error("Failed to store credential", "error", err)
		return Credentials{}, err
	}

	creds := Credentials{SessionID: sid, Token: tok.AccessToken, TeamID: inspectToken(tok.AccessToken).Subject}
	logger.Info("Team logged in", "session", sid, "team_id", creds.TeamID)
	return creds, nil
}

// SignedIn reports whether the request's session holds a usable token
func (g *Guard) SignedIn(r *http.Request) bool {
	sid, ok := sessionID(r)
	if !ok {
		return false
	}
	token, err := g.store.GetItem(r.Context(), sid, storage.AccessTokenKey)
	return err == nil && !inspectToken(token).expired(g.now())
}

// LogoutHandler removes the credential and returns to login
func (g *Guard) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if sid, ok := sessionID(r); ok {
		g.clear(r.Context(), sid)
	}
	redirect(w, r, LoginPath)
}

func (g *Guard) clear(ctx context.Context, sid string) {
	if err := g.store.RemoveItem(ctx, sid, storage.AccessTokenKey); err != nil {
		logger.Error("Failed to clear stored credential", "session", sid, "error", err)
	}
}

// redirect sends the browser to target. Fragment requests get HX-Redirect so
// the whole page navigates instead of swapping the login page into a slot.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

package fuzz

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/analytics"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/auth"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/backend"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/feed"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/forms"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/handlers"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/pubsub"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/search"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/social"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/storage"
)

func init() {
	logger.InitWithWriter(nopWriter{}, "error")
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

const sessionID = "fuzz-session"

// newApp wires the handlers to a backend that answers every call with a
// fixed team, post or empty list
func newApp(f *testing.F) http.Handler {
	team := models.Team{ID: "team-1", TeamName: "Furia", MainGame: models.GameValorant, Players: []models.Player{}}
	post := models.Post{ID: "p1", Content: "gg", Author: team.Stub()}

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := strings.TrimPrefix(r.URL.Path, "/api")
		switch {
		case path == "/teams/me/profile", strings.HasPrefix(path, "/teams/team-"):
			json.NewEncoder(w).Encode(team)
		case r.Method == http.MethodPost && strings.HasPrefix(path, "/posts"):
			json.NewEncoder(w).Encode(post)
		default:
			w.Write([]byte("[]"))
		}
	}))
	f.Cleanup(api.Close)

	client := backend.New(backend.Options{BaseURL: api.URL + "/api", Timeout: time.Second})
	store := storage.NewMemoryStore()
	if err := store.SetItem(context.Background(), sessionID, storage.AccessTokenKey, "opaque-token"); err != nil {
		f.Fatal(err)
	}
	bus := pubsub.New()
	f.Cleanup(bus.Close)

	return handlers.New(handlers.Deps{
		Guard:     auth.NewGuard(store, client, false),
		Backend:   client,
		Feed:      feed.NewService(client, bus, analytics.Nop{}),
		Social:    social.NewService(client, bus, analytics.Nop{}),
		Search:    search.NewService(client, analytics.Nop{}),
		Forms:     forms.NewService(client),
		Bus:       bus,
		Store:     store,
		Analytics: analytics.Nop{},
	}).Routes()
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: sessionID})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// FuzzHTTPSearch fuzzes the live search fragment
func FuzzHTTPSearch(f *testing.F) {
	f.Add("furia")
	f.Add("")
	f.Add("   ")
	f.Add("<script>alert(1)</script>")
	f.Add("ção%00")

	app := newApp(f)
	f.Fuzz(func(t *testing.T, q string) {
		req := httptest.NewRequest(http.MethodGet, "/ui/search?q="+url.QueryEscape(q), nil)
		w := serve(app, req)
		if w.Code >= 500 && w.Code != http.StatusBadGateway {
			t.Fatalf("unexpected status %d for %q", w.Code, q)
		}
		if strings.Contains(w.Body.String(), "<script>alert") {
			t.Fatalf("query rendered unescaped: %q", q)
		}
	})
}

// FuzzHTTPErrorSlot checks that only element ids are echoed into HX-Retarget
func FuzzHTTPErrorSlot(f *testing.F) {
	f.Add("#post-error-p1")
	f.Add("body")
	f.Add("#a, #b")
	f.Add("closest div")

	app := newApp(f)
	f.Fuzz(func(t *testing.T, slot string) {
		req := httptest.NewRequest(http.MethodPost, "/ui/posts", strings.NewReader("content="))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("HX-Request", "true")
		req.Header.Set("X-Error-Slot", slot)
		w := serve(app, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("empty post got status %d", w.Code)
		}
		target := w.Header().Get("HX-Retarget")
		if target != slot && target != "#page-error" {
			t.Fatalf("retarget %q for slot %q", target, slot)
		}
		if strings.ContainsAny(target, " ,>") {
			t.Fatalf("retarget %q is not a single id", target)
		}
	})
}

// FuzzHTTPCreatePost fuzzes the composer
func FuzzHTTPCreatePost(f *testing.F) {
	f.Add("bora treinar")
	f.Add("")
	f.Add(strings.Repeat("a", models.MaxPostLength+1))
	f.Add("\u200b\u200b")

	app := newApp(f)
	f.Fuzz(func(t *testing.T, content string) {
		form := url.Values{"content": {content}}
		req := httptest.NewRequest(http.MethodPost, "/ui/posts", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("HX-Request", "true")
		w := serve(app, req)

		switch w.Code {
		case http.StatusOK, http.StatusUnprocessableEntity:
		default:
			t.Fatalf("unexpected status %d", w.Code)
		}
	})
}

// FuzzHTTPRegister fuzzes sign-up validation; invalid input never reaches
// the backend and never errors out
func FuzzHTTPRegister(f *testing.F) {
	f.Add("a@b.co", "Furia", "secret1", models.GameValorant)
	f.Add("", "", "", "")
	f.Add("not-an-email", "x", "1", "Tetris")

	app := newApp(f)
	f.Fuzz(func(t *testing.T, email, team, password, game string) {
		form := url.Values{"email": {email}, "team_name": {team}, "password": {password}, "main_game": {game}}
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := serve(app, req)
		if w.Code >= 500 && w.Code != http.StatusBadGateway {
			t.Fatalf("unexpected status %d", w.Code)
		}
	})
}

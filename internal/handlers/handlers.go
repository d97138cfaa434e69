package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/analytics"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/auth"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/backend"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/feed"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/forms"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/notify"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/pubsub"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/search"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/social"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/storage"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/viewer"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/views"
)

// Backend is the part of the REST client the handlers call directly
type Backend interface {
	viewer.ProfileAPI
	notify.API
}

// Bus is the event source behind /events
type Bus interface {
	Subscribe() chan pubsub.Event
	Unsubscribe(chan pubsub.Event)
	SubscriberCount() int
}

// Deps are the services the handlers are built from
type Deps struct {
	Guard     *auth.Guard
	Backend   Backend
	Feed      *feed.Service
	Social    *social.Service
	Search    *search.Service
	Forms     *forms.Service
	Bus       Bus
	Store     storage.Store
	Analytics analytics.Recorder
}

// Handlers serves the pages, the htmx fragments and the event stream
type Handlers struct {
	guard   *auth.Guard
	api     Backend
	feed    *feed.Service
	social  *social.Service
	search  *search.Service
	forms   *forms.Service
	bus     Bus
	store   storage.Store
	rec     analytics.Recorder
	started time.Time

	// keepalive is the SSE comment interval
	keepalive time.Duration
}

// New creates the handlers
func New(d Deps) *Handlers {
	rec := d.Analytics
	if rec == nil {
		rec = analytics.Nop{}
	}
	return &Handlers{
		guard:     d.Guard,
		api:       d.Backend,
		feed:      d.Feed,
		social:    d.Social,
		search:    d.Search,
		forms:     d.Forms,
		bus:       d.Bus,
		store:     d.Store,
		rec:       rec,
		started:   time.Now(),
		keepalive: 30 * time.Second,
	}
}

// Routes registers every route on a new mux wrapped with request logging
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", views.Static())

	// Public pages
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /login.html", h.LoginPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /register.html", h.RegisterPage)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("GET /logout", h.guard.LogoutHandler)

	// Protected pages
	mux.HandleFunc("GET /index.html", h.protect(h.HomePage))
	mux.HandleFunc("GET /profile.html", h.protect(h.ProfilePage))
	mux.HandleFunc("GET /edit-profile.html", h.protect(h.EditProfilePage))
	mux.HandleFunc("POST /edit-profile.html", h.protect(h.SaveProfile))
	mux.HandleFunc("GET /scrims.html", h.protect(h.ScrimsPage))
	mux.HandleFunc("POST /scrims.html", h.protect(h.ProposeScrim))
	mux.HandleFunc("GET /search.html", h.protect(h.SearchPage))
	mux.HandleFunc("GET /teams.html", h.protect(h.TeamsPage))

	// Fragments
	mux.HandleFunc("GET /ui/feed", h.protect(h.FeedPosts))
	mux.HandleFunc("POST /ui/posts", h.protect(h.CreatePost))
	mux.HandleFunc("POST /ui/posts/{id}/like", h.protect(h.ToggleLike))
	mux.HandleFunc("POST /ui/posts/{id}/comments", h.protect(h.AddComment))
	mux.HandleFunc("POST /ui/friends/request/{id}", h.protect(h.SendFriendRequest))
	mux.HandleFunc("POST /ui/friends/accept/{id}", h.protect(h.AcceptFriendRequest))
	mux.HandleFunc("POST /ui/scrims/{id}/accept", h.protect(h.AcceptScrim))
	mux.HandleFunc("GET /ui/notifications", h.protect(h.NotificationsModal))
	mux.HandleFunc("GET /ui/notifications/badge", h.protect(h.NotificationsBadge))
	mux.HandleFunc("GET /ui/notifications.json", h.protect(h.NotificationsJSON))
	mux.HandleFunc("GET /ui/roles", h.guard.Middleware(h.Roles))
	mux.HandleFunc("POST /ui/players", h.protect(h.AddPlayer))
	mux.HandleFunc("DELETE /ui/players/{id}", h.protect(h.DeletePlayer))
	mux.HandleFunc("GET /ui/search", h.protect(h.SearchResults))
	mux.HandleFunc("GET /ui/recommendations", h.protect(h.Recommendations))

	// SSE for realtime updates
	mux.HandleFunc("GET /events", h.protect(h.Events))

	// Health check endpoints
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /healthz", h.Liveness)
	mux.HandleFunc("GET /readyz", h.Readiness)

	return requestLog(mux)
}

// viewerHandler is a protected handler that knows who is looking
type viewerHandler func(w http.ResponseWriter, r *http.Request, vc *viewer.Context)

// protect runs the session guard, then the one profile read of the request.
// Any failure of that read ends the session.
func (h *Handlers) protect(next viewerHandler) http.HandlerFunc {
	return h.guard.Middleware(func(w http.ResponseWriter, r *http.Request) {
		creds, _ := auth.FromContext(r.Context())
		vc, err := viewer.FetchMyProfile(r.Context(), h.api, creds.SessionID, creds.Token)
		if err != nil {
			logger.Warn("Profile load failed", "path", r.URL.Path, "error", err)
			h.guard.HandleAuthError(w, r)
			return
		}
		next(w, r, vc)
	})
}

// statusFor maps an action error to the response status
func statusFor(err error) int {
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400:
		return apiErr.StatusCode
	case backend.IsTransport(err):
		return http.StatusBadGateway
	default:
		// local validation
		return http.StatusUnprocessableEntity
	}
}

var slotPattern = regexp.MustCompile(`^#[A-Za-z][A-Za-z0-9_-]{0,63}$`)

// errorSlot is where a failed fragment request shows its message
func errorSlot(r *http.Request) string {
	if s := r.Header.Get("X-Error-Slot"); slotPattern.MatchString(s) {
		return s
	}
	return "#page-error"
}

// fail answers a fragment request whose action failed. A rejected
// credential ends the session; anything else becomes an inline error in the
// control's slot, leaving the rest of the page as it was.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if backend.IsUnauthorized(err) {
		h.guard.HandleAuthError(w, r)
		return
	}
	status := statusFor(err)
	if status >= 500 {
		logger.Error(msg, "path", r.URL.Path, "error", err)
	} else {
		logger.Warn(msg, "path", r.URL.Path, "error", err)
	}

	w.Header().Set("HX-Retarget", errorSlot(r))
	w.Header().Set("HX-Reswap", "innerHTML")
	writeStatus(w, status)
	views.InlineError(w, backend.Message(err))
}

// failPage answers a full page request whose main read failed
func (h *Handlers) failPage(w http.ResponseWriter, r *http.Request, vc *viewer.Context, msg string, err error) {
	if backend.IsUnauthorized(err) {
		h.guard.HandleAuthError(w, r)
		return
	}
	logger.Error(msg, "path", r.URL.Path, "error", err)
	writeStatus(w, statusFor(err))
	views.Failure(w, views.ErrorPage{Page: views.NewPage("Erro", "", vc), Error: backend.Message(err)})
}

// writeStatus sends an HTML response status before the body is rendered
func writeStatus(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
}

// statusRecorder captures the status code for the request log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working through the wrapper
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("HTTP request", "request_id", id, "method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration", time.Since(start))
	})
}

package handlers

import (
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/analytics"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/auth"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/backend"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/forms"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/viewer"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/views"
)

// HomePath is where a signed-in visitor lands
const HomePath = "/index.html"

// Root sends visitors to the feed, or to login when signed out
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	target := auth.LoginPath
	if h.guard.SignedIn(r) {
		target = HomePath
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// LoginPage renders the sign-in form
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	logger.Debug("Rendering login page")
	if h.guard.SignedIn(r) {
		http.Redirect(w, r, HomePath, http.StatusSeeOther)
		return
	}
	views.Login(w, views.AuthPage{
		Page:    views.Page{Title: "Entrar"},
		Expired: r.URL.Query().Get("expired") == "1",
	})
}

// Login signs in and stores the token. A rejected login shows the backend's
// detail on the form; it is not a session expiry.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulário inválido.", http.StatusBadRequest)
		return
	}
	in, errs := forms.ParseLogin(r.PostForm)
	logger.Debug("Login attempt", "email", in.Email)

	page := views.AuthPage{Page: views.Page{Title: "Entrar"}, Values: r.PostForm, Errors: errs}
	if errs.Any() {
		writeStatus(w, http.StatusUnprocessableEntity)
		views.Login(w, page)
		return
	}

	creds, err := h.guard.SignIn(r.Context(), w, r, in.Email, in.Password)
	if err != nil {
		page.Error = backend.Message(err)
		writeStatus(w, statusFor(err))
		views.Login(w, page)
		return
	}

	h.rec.Record(r.Context(), analytics.Action{SessionID: creds.SessionID, TeamID: creds.TeamID, Kind: analytics.ActionLogin})
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

// RegisterPage renders the sign-up form
func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	logger.Debug("Rendering register page")
	views.Register(w, views.AuthPage{Page: views.Page{Title: "Cadastrar"}})
}

// Register creates the team and signs it in
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulário inválido.", http.StatusBadRequest)
		return
	}
	in, errs := forms.ParseRegister(r.PostForm)
	logger.Debug("Registration attempt", "email", in.Email, "team_name", in.TeamName)

	page := views.AuthPage{Page: views.Page{Title: "Cadastrar"}, Values: r.PostForm, Errors: errs}
	if errs.Any() {
		writeStatus(w, http.StatusUnprocessableEntity)
		views.Register(w, page)
		return
	}

	if _, err := h.forms.Register(r.Context(), in); err != nil {
		logger.Warn("Registration failed", "email", in.Email, "error", err)
		page.Error = backend.Message(err)
		writeStatus(w, statusFor(err))
		views.Register(w, page)
		return
	}

	if _, err := h.guard.SignIn(r.Context(), w, r, in.Email, in.Password); err != nil {
		// the team exists; let them sign in by hand
		views.Login(w, views.AuthPage{
			Page:   views.Page{Title: "Entrar"},
			Values: url.Values{"email": {in.Email}},
			Notice: "Time cadastrado! Faça o login para continuar.",
			Error:  backend.Message(err),
		})
		return
	}
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

// HomePage renders the feed with its sidebars
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	logger.Debug("Rendering home page", "team_id", vc.ID())
	home := h.feed.LoadHome(r.Context(), vc)
	for _, err := range []error{home.Posts.Err, home.Recommendations.Err, home.Popular.Err, home.Activity.Err} {
		if backend.IsUnauthorized(err) {
			h.guard.HandleAuthError(w, r)
			return
		}
	}
	views.Home(w, views.NewHomePage(vc, home, backend.Message))
}

// ProfilePage renders a team page; without ?id= it is the viewer's own
func (h *Handlers) ProfilePage(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	teamID := r.URL.Query().Get("id")
	logger.Debug("Rendering profile page", "team_id", teamID)

	prof, err := h.feed.LoadProfile(r.Context(), vc, teamID)
	if err != nil {
		h.failPage(w, r, vc, "Failed to load team profile", err)
		return
	}
	if backend.IsUnauthorized(prof.Posts.Err) || backend.IsUnauthorized(prof.Friends.Err) {
		h.guard.HandleAuthError(w, r)
		return
	}
	views.Profile(w, views.NewProfilePage(vc, prof, backend.Message))
}

func editProfilePage(vc *viewer.Context, team models.Team) views.EditProfilePage {
	return views.EditProfilePage{
		Page:   views.NewPage("Editar perfil", "profile", vc),
		Values: forms.ProfileValues(team),
		Roster: views.RosterView{Team: team},
	}
}

// EditProfilePage renders the profile form prefilled from the viewer
func (h *Handlers) EditProfilePage(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	logger.Debug("Rendering edit profile page", "team_id", vc.ID())
	views.EditProfile(w, editProfilePage(vc, vc.Me))
}

// SaveProfile submits the profile form
func (h *Handlers) SaveProfile(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulário inválido.", http.StatusBadRequest)
		return
	}
	logger.Debug("Saving profile", "team_id", vc.ID())

	in, errs := forms.ParseProfile(r.PostForm)
	page := editProfilePage(vc, vc.Me)
	page.Values = r.PostForm
	if errs.Any() {
		page.Errors = errs
		writeStatus(w, http.StatusUnprocessableEntity)
		views.EditProfile(w, page)
		return
	}

	team, err := h.forms.UpdateProfile(r.Context(), vc, in)
	if err != nil {
		if backend.IsUnauthorized(err) {
			h.guard.HandleAuthError(w, r)
			return
		}
		logger.Warn("Profile update failed", "team_id", vc.ID(), "error", err)
		page.Error = backend.Message(err)
		writeStatus(w, statusFor(err))
		views.EditProfile(w, page)
		return
	}

	logger.Info("Profile updated", "team_id", team.ID)
	vc.Me = *team
	page = editProfilePage(vc, *team)
	page.Saved = true
	views.EditProfile(w, page)
}

// loadScrimsPage fills the lists and the opponent picker together
func (h *Handlers) loadScrimsPage(r *http.Request, vc *viewer.Context) (views.ScrimsPage, error) {
	page := views.ScrimsPage{Page: views.NewPage("Scrims", "scrims", vc)}

	var listsErr, friendsErr error
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		page.Lists.Scrims, listsErr = h.social.LoadScrims(ctx, vc)
		return nil
	})
	g.Go(func() error {
		page.Friends, friendsErr = h.social.Friends(ctx, vc)
		return nil
	})
	_ = g.Wait()

	for _, err := range []error{listsErr, friendsErr} {
		if backend.IsUnauthorized(err) {
			return page, err
		}
	}
	if listsErr != nil {
		logger.Warn("Failed to load scrims", "team_id", vc.ID(), "error", listsErr)
		page.Lists.Error = backend.Message(listsErr)
	}
	if friendsErr != nil {
		logger.Warn("Failed to load friends", "team_id", vc.ID(), "error", friendsErr)
		page.Error = backend.Message(friendsErr)
	}
	return page, nil
}

// ScrimsPage renders the proposal form and the three lists
func (h *Handlers) ScrimsPage(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	logger.Debug("Rendering scrims page", "team_id", vc.ID())
	page, err := h.loadScrimsPage(r, vc)
	if err != nil {
		h.guard.HandleAuthError(w, r)
		return
	}
	views.Scrims(w, page)
}

// ProposeScrim submits the proposal form
func (h *Handlers) ProposeScrim(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulário inválido.", http.StatusBadRequest)
		return
	}
	opponent := r.PostForm.Get("opponent_team_id")
	logger.Debug("Proposing scrim", "team_id", vc.ID(), "opponent", opponent)

	_, proposeErr := h.social.ProposeScrim(r.Context(), vc, opponent,
		r.PostForm.Get("date"), r.PostForm.Get("time"), r.PostForm.Get("game"))
	if backend.IsUnauthorized(proposeErr) {
		h.guard.HandleAuthError(w, r)
		return
	}

	page, err := h.loadScrimsPage(r, vc)
	if err != nil {
		h.guard.HandleAuthError(w, r)
		return
	}
	if proposeErr != nil {
		logger.Warn("Scrim proposal failed", "team_id", vc.ID(), "error", proposeErr)
		page.Values = r.PostForm
		page.Error = backend.Message(proposeErr)
		writeStatus(w, statusFor(proposeErr))
		views.Scrims(w, page)
		return
	}

	logger.Info("Scrim proposed", "team_id", vc.ID(), "opponent", opponent)
	page.Notice = "Scrim proposta com sucesso!"
	views.Scrims(w, page)
}

// SearchPage renders search results for ?q=
func (h *Handlers) SearchPage(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	q := r.URL.Query().Get("q")
	logger.Debug("Rendering search page", "query", q)

	page := views.ListPage{Page: views.NewPage("Busca", "search", vc)}
	res, err := h.search.Perform(r.Context(), vc, q)
	if err != nil {
		if backend.IsUnauthorized(err) {
			h.guard.HandleAuthError(w, r)
			return
		}
		logger.Warn("Search failed", "query", q, "error", err)
		page.Teams = views.TeamList{Query: q, Error: backend.Message(err)}
	} else {
		page.Teams = views.NewTeamList(vc, res)
	}
	views.Search(w, page)
}

// TeamsPage renders the team directory
func (h *Handlers) TeamsPage(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	logger.Debug("Rendering teams page")

	page := views.ListPage{Page: views.NewPage("Times", "teams", vc)}
	res, err := h.search.Directory(r.Context(), vc)
	if err != nil {
		if backend.IsUnauthorized(err) {
			h.guard.HandleAuthError(w, r)
			return
		}
		logger.Warn("Failed to list teams", "error", err)
		page.Teams = views.TeamList{Error: backend.Message(err)}
	} else {
		page.Teams = views.NewTeamList(vc, res)
	}
	views.Teams(w, page)
}

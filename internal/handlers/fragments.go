package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/backend"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/feed"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/forms"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/notify"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/viewer"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/views"
)

// FeedPosts re-renders the home feed's posts after a feed event
func (h *Handlers) FeedPosts(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	logger.Debug("Refreshing feed")
	posts, err := h.feed.Posts(r.Context(), vc, feed.Global())
	if err != nil {
		h.fail(w, r, "Failed to refresh feed", err)
		return
	}
	views.FeedPosts(w, views.GlobalFeed(vc, posts))
}

// CreatePost publishes the composer's content and returns the new card,
// which the composer prepends to the feed
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	logger.Debug("Creating post", "team_id", vc.ID())
	post, err := h.feed.CreatePost(r.Context(), vc, r.FormValue("content"))
	if err != nil {
		h.fail(w, r, "Failed to create post", err)
		return
	}
	logger.Info("Post created", "post_id", post.ID, "team_id", vc.ID())
	views.PostCard(w, views.NewPostView(vc, *post))
}

// ToggleLike returns the post's like control as the server now has it
func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	postID := r.PathValue("id")
	logger.Debug("Toggling like", "post_id", postID)

	res, err := h.feed.ToggleLike(r.Context(), vc, postID)
	if err != nil {
		h.fail(w, r, "Failed to toggle like", err)
		return
	}
	views.LikeControl(w, views.NewLikeView(vc, postID, *res))
}

// AddComment returns the post's refreshed comment list
func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	postID := r.PathValue("id")
	logger.Debug("Adding comment", "post_id", postID)

	post, err := h.feed.AddComment(r.Context(), vc, postID, r.FormValue("content"))
	if err != nil {
		h.fail(w, r, "Failed to add comment", err)
		return
	}
	views.CommentList(w, views.NewPostView(vc, *post))
}

// SendFriendRequest returns the friend control in its new state. A failure
// keeps the control enabled and shows the reason next to it.
func (h *Handlers) SendFriendRequest(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	targetID := r.PathValue("id")
	logger.Debug("Sending friend request", "target", targetID)

	state, err := h.social.SendFriendRequest(r.Context(), vc, targetID)
	btn := views.NewFriendButton(vc, targetID, state)
	if err != nil {
		if backend.IsUnauthorized(err) {
			h.guard.HandleAuthError(w, r)
			return
		}
		logger.Warn("Friend request failed", "target", targetID, "error", err)
		btn.Error = backend.Message(err)
		writeStatus(w, statusFor(err))
	}
	views.Friend(w, btn)
}

// modal renders the notification modal and the badge from one snapshot
func (h *Handlers) modal(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	snap, err := notify.Load(r.Context(), h.api, vc)
	if err != nil {
		h.fail(w, r, "Failed to refresh notifications", err)
		return
	}
	views.Modal(w, views.NewModalView(snap, true))
}

// AcceptFriendRequest accepts from the modal and re-renders it
func (h *Handlers) AcceptFriendRequest(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	requesterID := r.PathValue("id")
	logger.Debug("Accepting friend request", "requester", requesterID)

	if err := h.social.AcceptFriendRequest(r.Context(), vc, requesterID); err != nil {
		h.fail(w, r, "Failed to accept friend request", err)
		return
	}
	h.modal(w, r, vc)
}

// AcceptScrim confirms a scrim. From the modal it re-renders the modal,
// from the scrims page the three lists.
func (h *Handlers) AcceptScrim(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	scrimID := r.PathValue("id")
	fromModal := r.URL.Query().Get("from") == "modal"
	logger.Debug("Accepting scrim", "scrim_id", scrimID, "from_modal", fromModal)

	lists, err := h.social.AcceptScrim(r.Context(), vc, scrimID)
	if err != nil {
		h.fail(w, r, "Failed to accept scrim", err)
		return
	}
	logger.Info("Scrim accepted", "scrim_id", scrimID, "team_id", vc.ID())

	if fromModal {
		h.modal(w, r, vc)
		return
	}
	views.ScrimLists(w, views.ScrimsView{Scrims: lists})
}

// NotificationsModal opens the modal
func (h *Handlers) NotificationsModal(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	logger.Debug("Opening notifications", "team_id", vc.ID())
	snap, err := notify.Load(r.Context(), h.api, vc)
	if err != nil {
		if backend.IsUnauthorized(err) {
			h.guard.HandleAuthError(w, r)
			return
		}
		logger.Warn("Failed to load notifications", "error", err)
		views.Modal(w, views.ModalView{Error: backend.Message(err)})
		return
	}
	views.Modal(w, views.NewModalView(snap, false))
}

// NotificationsBadge refreshes the navbar count. A failed read leaves the
// badge empty rather than showing an error in the navbar.
func (h *Handlers) NotificationsBadge(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	snap, err := notify.Load(r.Context(), h.api, vc)
	if err != nil {
		if backend.IsUnauthorized(err) {
			h.guard.HandleAuthError(w, r)
			return
		}
		logger.Warn("Failed to refresh notification badge", "error", err)
	}
	views.Badge(w, views.BadgeView{Count: snap.Count()})
}

type notificationsStatus struct {
	Count          int               `json:"count"`
	FriendRequests []models.TeamStub `json:"friend_requests"`
	ScrimInvites   []models.Scrim    `json:"scrim_invites"`
}

// NotificationsJSON reports the aggregated notifications for non-htmx callers
func (h *Handlers) NotificationsJSON(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	w.Header().Set("Content-Type", "application/json")

	snap, err := notify.Aggregated(r.Context(), h.api, vc)
	if err != nil {
		if backend.IsUnauthorized(err) {
			h.guard.HandleAuthError(w, r)
			return
		}
		logger.Warn("Failed to read notifications", "error", err)
		w.WriteHeader(statusFor(err))
		json.NewEncoder(w).Encode(map[string]string{"error": backend.Message(err)})
		return
	}

	status := notificationsStatus{
		Count:          snap.Count(),
		FriendRequests: snap.FriendRequests,
		ScrimInvites:   snap.ScrimInvites,
	}
	if status.FriendRequests == nil {
		status.FriendRequests = []models.TeamStub{}
	}
	if status.ScrimInvites == nil {
		status.ScrimInvites = []models.Scrim{}
	}
	json.NewEncoder(w).Encode(status)
}

// Roles returns the role dropdown for ?main_game=
func (h *Handlers) Roles(w http.ResponseWriter, r *http.Request) {
	views.Roles(w, views.NewRoleSelect(r.URL.Query().Get("main_game"), ""))
}

// AddPlayer adds a roster member and returns the refreshed roster
func (h *Handlers) AddPlayer(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulário inválido.", http.StatusBadRequest)
		return
	}
	logger.Debug("Adding player", "team_id", vc.ID())

	in, errs := forms.ParsePlayer(r.PostForm, vc.Me.MainGame)
	if errs.Any() {
		writeStatus(w, http.StatusUnprocessableEntity)
		views.Roster(w, views.RosterView{Team: vc.Me, Values: r.PostForm, Errors: errs})
		return
	}

	team, err := h.forms.AddPlayer(r.Context(), vc, in)
	if err != nil {
		h.rosterError(w, r, vc, err)
		return
	}
	logger.Info("Player added", "team_id", vc.ID(), "nickname", in.Nickname)
	views.Roster(w, views.RosterView{Team: *team})
}

// DeletePlayer removes a roster member and returns the refreshed roster
func (h *Handlers) DeletePlayer(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	playerID := r.PathValue("id")
	logger.Debug("Deleting player", "player_id", playerID)

	team, err := h.forms.DeletePlayer(r.Context(), vc, playerID)
	if err != nil {
		h.rosterError(w, r, vc, err)
		return
	}
	logger.Info("Player removed", "team_id", vc.ID(), "player_id", playerID)
	views.Roster(w, views.RosterView{Team: *team})
}

func (h *Handlers) rosterError(w http.ResponseWriter, r *http.Request, vc *viewer.Context, err error) {
	if backend.IsUnauthorized(err) {
		h.guard.HandleAuthError(w, r)
		return
	}
	logger.Warn("Roster update failed", "team_id", vc.ID(), "error", err)
	writeStatus(w, statusFor(err))
	views.Roster(w, views.RosterView{Team: vc.Me, Values: r.PostForm, Error: backend.Message(err)})
}

// SearchResults is the live search fragment
func (h *Handlers) SearchResults(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	q := r.URL.Query().Get("q")
	logger.Debug("Searching teams", "query", q)

	res, err := h.search.Perform(r.Context(), vc, q)
	if err != nil {
		h.fail(w, r, "Search failed", err)
		return
	}
	views.TeamResults(w, views.NewTeamList(vc, res))
}

// Recommendations re-renders the discovery widget
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	recs, err := h.search.Recommendations(r.Context(), vc)
	if err != nil {
		if backend.IsUnauthorized(err) {
			h.guard.HandleAuthError(w, r)
			return
		}
		logger.Warn("Failed to load recommendations", "error", err)
		views.Discovery(w, views.RecommendationsView{Error: backend.Message(err)})
		return
	}
	views.Discovery(w, views.NewRecommendations(vc, recs))
}

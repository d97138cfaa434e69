package views

import "net/http"

// Every function here writes a full response. Template failures are already
// logged and answered with a 500 by render; the error is returned for
// callers that want to stop early.

// Pages

// Login renders the sign-in page
func Login(w http.ResponseWriter, p AuthPage) error { return page(w, "login.html", p) }

// Register renders the sign-up page
func Register(w http.ResponseWriter, p AuthPage) error { return page(w, "register.html", p) }

// Home renders the feed with its side panels
func Home(w http.ResponseWriter, p HomePage) error { return page(w, "home.html", p) }

// Profile renders a team profile
func Profile(w http.ResponseWriter, p ProfilePage) error { return page(w, "profile.html", p) }

// Scrims renders the viewer's scrim lists
func Scrims(w http.ResponseWriter, p ScrimsPage) error { return page(w, "scrims.html", p) }

// Search renders the team search page
func Search(w http.ResponseWriter, p ListPage) error { return page(w, "search.html", p) }

// Teams renders the team directory
func Teams(w http.ResponseWriter, p ListPage) error { return page(w, "teams.html", p) }

// Failure renders the full-page error screen
func Failure(w http.ResponseWriter, p ErrorPage) error { return page(w, "error.html", p) }

// EditProfile renders the profile editor
func EditProfile(w http.ResponseWriter, p EditProfilePage) error {
	return page(w, "edit_profile.html", p)
}

// Fragments

// PostCard renders one post
func PostCard(w http.ResponseWriter, p PostView) error { return fragment(w, "post_card", p) }

// LikeControl renders the like button and count
func LikeControl(w http.ResponseWriter, l LikeView) error { return fragment(w, "like_control", l) }

// CommentList renders a post's comments and composer
func CommentList(w http.ResponseWriter, p PostView) error { return fragment(w, "comments", p) }

// FeedPosts renders the post list of a feed
func FeedPosts(w http.ResponseWriter, f FeedView) error { return fragment(w, "feed_posts", f) }

// Friend renders the friendship button
func Friend(w http.ResponseWriter, b FriendButton) error { return fragment(w, "friend_button", b) }

// Modal renders the notifications modal
func Modal(w http.ResponseWriter, m ModalView) error { return fragment(w, "notification_modal", m) }

// Badge renders the unread notifications badge
func Badge(w http.ResponseWriter, b BadgeView) error { return fragment(w, "badge", b) }

// ScrimLists renders the received, sent and confirmed scrims
func ScrimLists(w http.ResponseWriter, s ScrimsView) error { return fragment(w, "scrim_lists", s) }

// Roster renders the player rows of the profile editor
func Roster(w http.ResponseWriter, r RosterView) error { return fragment(w, "roster", r) }

// Roles renders the role options for a game
func Roles(w http.ResponseWriter, r RoleSelect) error { return fragment(w, "role_select", r) }

// TeamResults renders a list of teams
func TeamResults(w http.ResponseWriter, t TeamList) error { return fragment(w, "team_list", t) }

// Discovery renders the recommended teams panel
func Discovery(w http.ResponseWriter, r RecommendationsView) error {
	return fragment(w, "recommendations", r)
}

// InlineError is swapped into the error slot of the control that failed
func InlineError(w http.ResponseWriter, msg string) error {
	return fragment(w, "inline_error", msg)
}

package views

import (
	"net/url"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/feed"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/forms"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/notify"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/search"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/social"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/viewer"
)

// Nav is the signed-in navbar
type Nav struct {
	Me     models.Team
	Active string
}

// Page is embedded in every page's data
type Page struct {
	Title string
	Nav   *Nav
}

// NewPage builds the chrome for a signed-in page
func NewPage(title, active string, vc *viewer.Context) Page {
	return Page{Title: title, Nav: &Nav{Me: vc.Me, Active: active}}
}

// PostView is a post as one viewer sees it
type PostView struct {
	Post   models.Post
	Liked  bool
	IsMine bool
}

// Like is the like control of a single post
func (p PostView) Like() LikeView {
	return LikeView{PostID: p.Post.ID, Count: p.Post.LikesCount, Liked: p.Liked}
}

// NewPostViews pairs each post with the viewer's like state
func NewPostViews(vc *viewer.Context, posts []models.Post) []PostView {
	out := make([]PostView, len(posts))
	for i, p := range posts {
		out[i] = NewPostView(vc, p)
	}
	return out
}

// NewPostView pairs one post with the viewer's like state
func NewPostView(vc *viewer.Context, p models.Post) PostView {
	return PostView{Post: p, Liked: vc.HasLiked(p), IsMine: vc.IsMe(p.Author.ID)}
}

// LikeView is what the like control shows
type LikeView struct {
	PostID string
	Count  int
	Liked  bool
}

// NewLikeView builds the control from a toggle response
func NewLikeView(vc *viewer.Context, postID string, res models.LikeResult) LikeView {
	return LikeView{PostID: postID, Count: res.LikesCount, Liked: res.LikedBy(vc.ID())}
}

// FeedView is a list of posts or the reason there are none
type FeedView struct {
	Posts   []PostView
	Empty   string
	Error   string
	Compose bool
	// Live re-fetches the posts when a feed event arrives
	Live bool
}

// GlobalFeed is the home feed, also served alone on refresh
func GlobalFeed(vc *viewer.Context, posts []models.Post) FeedView {
	return FeedView{Posts: NewPostViews(vc, posts), Compose: true, Live: true, Empty: "Nenhuma publicação ainda."}
}

// FriendButton is the add-friend control. Self hides it.
type FriendButton struct {
	TeamID string
	State  social.FriendState
	Self   bool
	Error  string
}

// NewFriendButton builds the control for teamID
func NewFriendButton(vc *viewer.Context, teamID string, state social.FriendState) FriendButton {
	return FriendButton{TeamID: teamID, State: state, Self: vc.IsMe(teamID)}
}

// TeamCard is a team in a result list
type TeamCard struct {
	Team   models.Team
	Friend FriendButton
}

// TeamList is search results or the directory
type TeamList struct {
	Query   string
	Cards   []TeamCard
	Message string
	Error   string
}

// NewTeamList builds cards for search results
func NewTeamList(vc *viewer.Context, res *search.Results) TeamList {
	tl := TeamList{Query: res.Query, Message: res.Message}
	for _, t := range res.Teams {
		tl.Cards = append(tl.Cards, TeamCard{Team: t, Friend: NewFriendButton(vc, t.ID, social.FriendNone)})
	}
	return tl
}

// RecommendationCard is one discovery suggestion
type RecommendationCard struct {
	Rec    models.Recommendation
	Friend FriendButton
}

// RecommendationsView is the discovery widget
type RecommendationsView struct {
	Cards []RecommendationCard
	Empty string
	Error string
}

// NewRecommendations builds the discovery widget
func NewRecommendations(vc *viewer.Context, recs []models.Recommendation) RecommendationsView {
	v := RecommendationsView{}
	for _, r := range recs {
		if vc.IsMe(r.ID) {
			continue
		}
		v.Cards = append(v.Cards, RecommendationCard{Rec: r, Friend: NewFriendButton(vc, r.ID, social.FriendNone)})
	}
	if len(v.Cards) == 0 {
		v.Empty = search.NoRecommendationsMessage
	}
	return v
}

// ActivityView is the activity sidebar
type ActivityView struct {
	Events []models.ActivityEvent
	Error  string
}

// HomePage is /index.html
type HomePage struct {
	Page
	Feed            FeedView
	Recommendations RecommendationsView
	Popular         FeedView
	Activity        ActivityView
}

// ProfilePage is /profile.html
type ProfilePage struct {
	Page
	Team         models.Team
	IsMe         bool
	Friend       FriendButton
	Feed         FeedView
	Friends      []models.TeamStub
	FriendsError string
}

// AuthPage is /login.html and /register.html
type AuthPage struct {
	Page
	Values  url.Values
	Errors  forms.Errors
	Error   string
	Notice  string
	Expired bool
}

// EditProfilePage is /edit-profile.html
type EditProfilePage struct {
	Page
	Values url.Values
	Errors forms.Errors
	Error  string
	Saved  bool
	Roster RosterView
}

// RosterView is the roster editor
type RosterView struct {
	Team   models.Team
	Values url.Values
	Errors forms.Errors
	Error  string
}

// RoleSelect is the role dropdown for a game
type RoleSelect struct {
	Name     string
	Roles    []string
	Selected string
}

// NewRoleSelect lists exactly the roles of game, none when it is unset
func NewRoleSelect(game, selected string) RoleSelect {
	return RoleSelect{Name: "role", Roles: models.RolesFor(game), Selected: selected}
}

// Disabled reports whether there is nothing to choose
func (r RoleSelect) Disabled() bool { return len(r.Roles) == 0 }

// ScrimsView is the three scrim lists
type ScrimsView struct {
	Scrims *social.Scrims
	Error  string
}

// ScrimsPage is /scrims.html
type ScrimsPage struct {
	Page
	Lists   ScrimsView
	Friends []models.TeamStub
	Values  url.Values
	Error   string
	Notice  string
}

// ErrorPage replaces a page whose main read failed
type ErrorPage struct {
	Page
	Error string
}

// ListPage is /search.html and /teams.html
type ListPage struct {
	Page
	Teams TeamList
}

// ModalView is the notifications modal body
type ModalView struct {
	Snapshot *notify.Snapshot
	Empty    string
	Error    string
	// Badge re-renders the navbar badge out of band
	Badge bool
}

// NewModalView builds the modal from a snapshot
func NewModalView(s *notify.Snapshot, badge bool) ModalView {
	return ModalView{Snapshot: s, Empty: notify.EmptyMessage, Badge: badge}
}

// BadgeView is the navbar count
type BadgeView struct {
	Count int
	OOB   bool
}

// NewHomePage assembles the home page from its loaded sections
func NewHomePage(vc *viewer.Context, home feed.Home, errText func(error) string) HomePage {
	p := HomePage{Page: NewPage("Início", "home", vc)}

	p.Feed = GlobalFeed(vc, home.Posts.Items)
	if home.Posts.Err != nil {
		p.Feed.Error = errText(home.Posts.Err)
	}

	if home.Recommendations.Err != nil {
		p.Recommendations.Error = errText(home.Recommendations.Err)
	} else {
		p.Recommendations = NewRecommendations(vc, home.Recommendations.Items)
	}

	p.Popular = FeedView{Empty: "Nenhuma publicação em destaque."}
	if home.Popular.Err != nil {
		p.Popular.Error = errText(home.Popular.Err)
	} else {
		p.Popular.Posts = NewPostViews(vc, home.Popular.Items)
	}

	if home.Activity.Err != nil {
		p.Activity.Error = errText(home.Activity.Err)
	} else {
		p.Activity.Events = home.Activity.Items
	}
	return p
}

// NewProfilePage assembles a team page
func NewProfilePage(vc *viewer.Context, prof *feed.Profile, errText func(error) string) ProfilePage {
	p := ProfilePage{
		Page: NewPage(prof.Team.TeamName, "profile", vc),
		Team: prof.Team,
		IsMe: prof.IsMe,
		Feed: FeedView{Compose: prof.IsMe, Empty: "Este time ainda não fez nenhuma publicação."},
	}
	if prof.Posts.Err != nil {
		p.Feed.Error = errText(prof.Posts.Err)
	} else {
		p.Feed.Posts = NewPostViews(vc, prof.Posts.Items)
	}
	if prof.Friends.Err != nil {
		p.FriendsError = errText(prof.Friends.Err)
	} else {
		p.Friends = prof.Friends.Items
	}

	p.Friend = NewFriendButton(vc, prof.Team.ID, social.StateFor(vc.ID(), prof.Friends.Items))
	return p
}

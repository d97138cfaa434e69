package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxPostLength is the longest post content the platform accepts.
const MaxPostLength = 280

// Socials holds a team's public links
type Socials struct {
	Discord string `json:"discord,omitempty"`
	Twitter string `json:"twitter,omitempty"`
	Twitch  string `json:"twitch,omitempty"`
}

// Player is a roster member of exactly one team
type Player struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Team is the platform's account entity
type Team struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	TeamName  string   `json:"team_name"`
	Tag       string   `json:"tag,omitempty"`
	MainGame  string   `json:"main_game,omitempty"`
	LogoURL   string   `json:"logo_url,omitempty"`
	Bio       string   `json:"bio,omitempty"`
	Socials   *Socials `json:"socials,omitempty"`
	Players   []Player `json:"players"`
	CreatedAt Time     `json:"created_at"`
}

// Stub returns the short form used by friend lists and post authors.
func (t Team) Stub() TeamStub {
	return TeamStub{ID: t.ID, TeamName: t.TeamName, Tag: t.Tag, MainGame: t.MainGame}
}

// TeamStub is the abbreviated team embedded in posts, comments, friends and scrims
type TeamStub struct {
	ID       string `json:"id"`
	TeamName string `json:"team_name"`
	Tag      string `json:"tag,omitempty"`
	MainGame string `json:"main_game,omitempty"`
}

// Comment belongs to one post
type Comment struct {
	Author    TeamStub `json:"author"`
	Content   string   `json:"content"`
	CreatedAt Time     `json:"created_at"`
}

// Post is a feed entry authored by one team
type Post struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	CreatedAt  Time      `json:"created_at"`
	Author     TeamStub  `json:"author"`
	LikesCount int       `json:"likes_count"`
	Likes      []string  `json:"likes"`
	Comments   []Comment `json:"comments"`
}

// LikedBy reports whether teamID is in the post's like set.
func (p Post) LikedBy(teamID string) bool {
	if teamID == "" {
		return false
	}
	for _, id := range p.Likes {
		if id == teamID {
			return true
		}
	}
	return false
}

// LikeResult is the authoritative like state returned by a toggle
type LikeResult struct {
	LikesCount int      `json:"likes_count"`
	Likes      []string `json:"likes"`
}

// LikedBy reports whether teamID is in the returned like set.
func (r LikeResult) LikedBy(teamID string) bool {
	return Post{Likes: r.Likes}.LikedBy(teamID)
}

// Recommendation is a suggested team ranked by friendship similarity
type Recommendation struct {
	ID         string  `json:"id"`
	TeamName   string  `json:"team_name"`
	MainGame   string  `json:"main_game,omitempty"`
	Similarity float64 `json:"similarity"`
}

// Notifications is the aggregated pending-work payload
type Notifications struct {
	FriendRequests []TeamStub `json:"friend_requests"`
	ScrimInvites   []Scrim    `json:"scrim_invites"`
}

// Token is the backend login response
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TeamCreate is the registration body
type TeamCreate struct {
	Email    string `json:"email"`
	TeamName string `json:"team_name"`
	Password string `json:"password"`
	Tag      string `json:"tag,omitempty"`
	MainGame string `json:"main_game,omitempty"`
}

// ProfileUpdate is the body of a profile edit
type ProfileUpdate struct {
	TeamName string   `json:"team_name"`
	Tag      string   `json:"tag"`
	MainGame string   `json:"main_game"`
	Bio      string   `json:"bio"`
	LogoURL  string   `json:"logo_url,omitempty"`
	Socials  *Socials `json:"socials,omitempty"`
}

// PlayerCreate is the body for adding a roster member
type PlayerCreate struct {
	Nickname string `json:"nickname"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// ScrimCreate is the body of a scrim proposal
type ScrimCreate struct {
	OpponentTeamID string `json:"opponent_team_id"`
	ScrimDatetime  string `json:"scrim_datetime"`
	Game           string `json:"game,omitempty"`
}

// Initial returns the upper-cased first letter of a team name, used as avatar.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

// ValidPostContent reports whether content fits the platform's post limits.
func ValidPostContent(content string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	return n >= 1 && n <= MaxPostLength
}

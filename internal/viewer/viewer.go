// Package viewer resolves who is looking at a page. The Context it builds is
// created once per request, after the profile fetch, and handed to every
// renderer and action instead of living in shared mutable state.
package viewer

import (
	"context"
	"fmt"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
)

// ProfileAPI is the backend call the loader needs
type ProfileAPI interface {
	MyProfile(ctx context.Context, token string) (*models.Team, error)
}

// Context is the per-request identity shared by renderers
type Context struct {
	SessionID string
	Token     string
	Me        models.Team
}

// FetchMyProfile performs the single authenticated profile read for a
// request. There is no retry; callers route failures to the auth handler.
func FetchMyProfile(ctx context.Context, api ProfileAPI, sessionID, token string) (*Context, error) {
	me, err := api.MyProfile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch my profile: %w", err)
	}
	return &Context{SessionID: sessionID, Token: token, Me: *me}, nil
}

// ID is the viewer's team id
func (c *Context) ID() string {
	if c == nil {
		return ""
	}
	return c.Me.ID
}

// IsMe reports whether teamID is the viewer's own team
func (c *Context) IsMe(teamID string) bool {
	return c != nil && teamID != "" && c.Me.ID == teamID
}

// HasLiked reports whether the viewer is in the post's like set
func (c *Context) HasLiked(p models.Post) bool {
	return p.LikedBy(c.ID())
}

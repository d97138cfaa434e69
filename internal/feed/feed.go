// Package feed loads and mutates post feeds. One Source type covers the
// global feed and a single team's feed so both pages share the renderer.
package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/analytics"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/pubsub"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/viewer"
)

// Validation errors, shown as-is in the composer
var (
	ErrEmptyPost    = errors.New("A publicação não pode estar vazia.")
	ErrPostTooLong  = fmt.Errorf("A publicação pode ter no máximo %d caracteres.", models.MaxPostLength)
	ErrEmptyComment = errors.New("O comentário não pode estar vazio.")
)

// API is the slice of the backend the feed needs
type API interface {
	ListPosts(ctx context.Context, token string) ([]models.Post, error)
	TeamPosts(ctx context.Context, token, id string) ([]models.Post, error)
	PopularPosts(ctx context.Context, token string) ([]models.Post, error)
	Recommendations(ctx context.Context, token string) ([]models.Recommendation, error)
	ActivityStream(ctx context.Context, token string) ([]models.ActivityEvent, error)
	GetTeam(ctx context.Context, token, id string) (*models.Team, error)
	TeamFriends(ctx context.Context, token, id string) ([]models.TeamStub, error)
	CreatePost(ctx context.Context, token, content string) (*models.Post, error)
	ToggleLike(ctx context.Context, token, postID string) (*models.LikeResult, error)
	AddComment(ctx context.Context, token, postID, content string) (*models.Post, error)
}

// Source selects which posts a feed shows
type Source struct {
	teamID string
}

// Global is every team's posts (GET /posts)
func Global() Source { return Source{} }

// Team is one team's posts (GET /teams/{id}/posts)
func Team(id string) Source { return Source{teamID: id} }

// TeamID is empty for the global feed
func (s Source) TeamID() string { return s.teamID }

// Fetch reads the source's posts in server order
func (s Source) Fetch(ctx context.Context, api API, token string) ([]models.Post, error) {
	if s.teamID == "" {
		return api.ListPosts(ctx, token)
	}
	return api.TeamPosts(ctx, token, s.teamID)
}

// Section is one independently loaded part of a page
type Section[T any] struct {
	Items []T
	Err   error
}

// Home is everything the home page shows besides the navbar
type Home struct {
	Posts           Section[models.Post]
	Recommendations Section[models.Recommendation]
	Popular         Section[models.Post]
	Activity        Section[models.ActivityEvent]
}

// Profile is a team page
type Profile struct {
	Team    models.Team
	IsMe    bool
	Posts   Section[models.Post]
	Friends Section[models.TeamStub]
}

// Service runs feed reads and actions
type Service struct {
	api   API
	bus   pubsub.Publisher
	rec   analytics.Recorder
	likes singleflight.Group
}

// NewService creates a feed service
func NewService(api API, bus pubsub.Publisher, rec analytics.Recorder) *Service {
	if rec == nil {
		rec = analytics.Nop{}
	}
	return &Service{api: api, bus: bus, rec: rec}
}

// LoadHome fetches the four home sections concurrently. Each failure stays
// in its own section.
func (s *Service) LoadHome(ctx context.Context, vc *viewer.Context) Home {
	var home Home
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		home.Posts.Items, home.Posts.Err = Global().Fetch(gctx, s.api, vc.Token)
		return nil
	})
	g.Go(func() error {
		home.Recommendations.Items, home.Recommendations.Err = s.api.Recommendations(gctx, vc.Token)
		return nil
	})
	g.Go(func() error {
		home.Popular.Items, home.Popular.Err = s.api.PopularPosts(gctx, vc.Token)
		return nil
	})
	g.Go(func() error {
		home.Activity.Items, home.Activity.Err = s.api.ActivityStream(gctx, vc.Token)
		return nil
	})
	_ = g.Wait()

	for name, err := range map[string]error{
		"posts":           home.Posts.Err,
		"recommendations": home.Recommendations.Err,
		"popular":         home.Popular.Err,
		"activity":        home.Activity.Err,
	} {
		if err != nil {
			logger.Warn("Home section failed", "section", name, "error", err)
		}
	}
	return home
}

// LoadProfile fetches a team with its posts and friends. Only a failed team
// read fails the page.
func (s *Service) LoadProfile(ctx context.Context, vc *viewer.Context, teamID string) (*Profile, error) {
	if teamID == "" {
		teamID = vc.ID()
	}
	p := &Profile{IsMe: vc.IsMe(teamID)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		team, err := s.api.GetTeam(gctx, vc.Token, teamID)
		if err != nil {
			return err
		}
		p.Team = *team
		return nil
	})
	// section reads use ctx so a failed team read does not cancel them midway
	g.Go(func() error {
		p.Posts.Items, p.Posts.Err = Team(teamID).Fetch(ctx, s.api, vc.Token)
		return nil
	})
	g.Go(func() error {
		p.Friends.Items, p.Friends.Err = s.api.TeamFriends(ctx, vc.Token, teamID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

// Posts reads one source's posts for the viewer
func (s *Service) Posts(ctx context.Context, vc *viewer.Context, src Source) ([]models.Post, error) {
	return src.Fetch(ctx, s.api, vc.Token)
}

// CreatePost publishes content after the local length check
func (s *Service) CreatePost(ctx context.Context, vc *viewer.Context, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyPost
	}
	if !models.ValidPostContent(content) {
		return nil, ErrPostTooLong
	}

	post, err := s.api.CreatePost(ctx, vc.Token, content)
	if err != nil {
		return nil, err
	}
	s.rec.Record(ctx, analytics.Action{SessionID: vc.SessionID, TeamID: vc.ID(), Kind: analytics.ActionPost, TargetID: post.ID})
	if s.bus != nil {
		s.bus.Publish(pubsub.PostCreated(post.ID, vc.ID()))
	}
	return post, nil
}

// ToggleLike flips the viewer's like. Concurrent duplicates from one session
// share a single backend call and its result. The shared call outlives the
// request that started it, so a caller that hangs up does not fail the rest.
func (s *Service) ToggleLike(ctx context.Context, vc *viewer.Context, postID string) (*models.LikeResult, error) {
	v, err, shared := s.likes.Do(vc.SessionID+":"+postID, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		res, err := s.api.ToggleLike(ctx, vc.Token, postID)
		if err != nil {
			return nil, err
		}
		s.rec.Record(ctx, analytics.Action{SessionID: vc.SessionID, TeamID: vc.ID(), Kind: analytics.ActionLike, TargetID: postID})
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("Collapsed duplicate like", "post_id", postID)
	}
	return v.(*models.LikeResult), nil
}

// AddComment posts a comment and returns the updated post
func (s *Service) AddComment(ctx context.Context, vc *viewer.Context, postID, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	post, err := s.api.AddComment(ctx, vc.Token, postID, content)
	if err != nil {
		return nil, err
	}
	s.rec.Record(ctx, analytics.Action{SessionID: vc.SessionID, TeamID: vc.ID(), Kind: analytics.ActionComment, TargetID: postID})
	return post, nil
}

package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/analytics"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/backend"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/pubsub"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/viewer"
)

type fakeAPI struct {
	mu       sync.Mutex
	posts    []models.Post
	teamErr  error
	recErr   error
	likeGate chan struct{}
	likes    atomic.Int32
	created  []string
}

func (f *fakeAPI) ListPosts(ctx context.Context, token string) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Post(nil), f.posts...), nil
}

func (f *fakeAPI) TeamPosts(ctx context.Context, token, id string) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.posts {
		if p.Author.ID == id {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeAPI) PopularPosts(ctx context.Context, token string) ([]models.Post, error) {
	return nil, &backend.TransportError{Op: "GET /posts/popular", Err: errors.New("refused")}
}

func (f *fakeAPI) Recommendations(ctx context.Context, token string) ([]models.Recommendation, error) {
	if f.recErr != nil {
		return nil, f.recErr
	}
	return []models.Recommendation{{ID: "t3", TeamName: "Gamma", Similarity: 0.5}}, nil
}

func (f *fakeAPI) ActivityStream(ctx context.Context, token string) ([]models.ActivityEvent, error) {
	return []models.ActivityEvent{{Type: models.ActivityNewPost}}, nil
}

func (f *fakeAPI) GetTeam(ctx context.Context, token, id string) (*models.Team, error) {
	if f.teamErr != nil {
		return nil, f.teamErr
	}
	return &models.Team{ID: id, TeamName: "Team " + id}, nil
}

func (f *fakeAPI) TeamFriends(ctx context.Context, token, id string) ([]models.TeamStub, error) {
	return nil, &backend.APIError{StatusCode: 500, Detail: "boom"}
}

func (f *fakeAPI) CreatePost(ctx context.Context, token, content string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, content)
	p := models.Post{ID: "new", Content: content, Author: models.TeamStub{ID: "t1"}}
	f.posts = append([]models.Post{p}, f.posts...)
	return &p, nil
}

func (f *fakeAPI) ToggleLike(ctx context.Context, token, postID string) (*models.LikeResult, error) {
	f.likes.Add(1)
	if f.likeGate != nil {
		<-f.likeGate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.LikeResult{LikesCount: 1, Likes: []string{"t1"}}, nil
}

func (f *fakeAPI) AddComment(ctx context.Context, token, postID, content string) (*models.Post, error) {
	return &models.Post{ID: postID, Comments: []models.Comment{{Content: content}}}, nil
}

type countingRecorder struct {
	mu      sync.Mutex
	actions []analytics.Action
}

func (r *countingRecorder) Record(_ context.Context, a analytics.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
}

func (r *countingRecorder) Ping(context.Context) error { return nil }
func (r *countingRecorder) Close() error               { return nil }

func (r *countingRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actions)
}

func me() *viewer.Context {
	return &viewer.Context{SessionID: "s1", Token: "tok", Me: models.Team{ID: "t1", TeamName: "Alpha"}}
}

func TestSourceSelectsEndpoint(t *testing.T) {
	api := &fakeAPI{posts: []models.Post{
		{ID: "p1", Author: models.TeamStub{ID: "t1"}},
		{ID: "p2", Author: models.TeamStub{ID: "t2"}},
	}}

	all, err := Global().Fetch(context.Background(), api, "tok")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := Team("t2").Fetch(context.Background(), api, "tok")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "p2", mine[0].ID)
	assert.Equal(t, "t2", Team("t2").TeamID())
	assert.Empty(t, Global().TeamID())
}

func TestLoadHomeSectionsFailIndependently(t *testing.T) {
	api := &fakeAPI{
		posts:  []models.Post{{ID: "p1"}},
		recErr: &backend.APIError{StatusCode: 500, Detail: "no recs"},
	}
	home := NewService(api, nil, nil).LoadHome(context.Background(), me())

	assert.NoError(t, home.Posts.Err)
	assert.Len(t, home.Posts.Items, 1)
	assert.Error(t, home.Recommendations.Err)
	assert.True(t, backend.IsTransport(home.Popular.Err))
	assert.NoError(t, home.Activity.Err)
	assert.Len(t, home.Activity.Items, 1)
}

func TestLoadProfile(t *testing.T) {
	api := &fakeAPI{posts: []models.Post{{ID: "p1", Author: models.TeamStub{ID: "t1"}}}}
	svc := NewService(api, nil, nil)

	p, err := svc.LoadProfile(context.Background(), me(), "")
	require.NoError(t, err)
	assert.True(t, p.IsMe)
	assert.Equal(t, "t1", p.Team.ID)
	assert.Len(t, p.Posts.Items, 1)
	assert.Error(t, p.Friends.Err)

	p, err = svc.LoadProfile(context.Background(), me(), "t9")
	require.NoError(t, err)
	assert.False(t, p.IsMe)

	api.teamErr = &backend.APIError{StatusCode: 404, Detail: "Time não encontrado"}
	_, err = svc.LoadProfile(context.Background(), me(), "t9")
	assert.Equal(t, "Time não encontrado", backend.Message(err))
}

func TestCreatePostValidatesLocally(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, nil, nil)

	_, err := svc.CreatePost(context.Background(), me(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPost)
	_, err = svc.CreatePost(context.Background(), me(), strings.Repeat("a", models.MaxPostLength+1))
	assert.ErrorIs(t, err, ErrPostTooLong)
	assert.Empty(t, api.created)
}

func TestCreatePostThenFeedIncludesIt(t *testing.T) {
	api := &fakeAPI{}
	bus := pubsub.New()
	ch := bus.Subscribe()
	svc := NewService(api, bus, nil)

	post, err := svc.CreatePost(context.Background(), me(), "GG")
	require.NoError(t, err)
	assert.Equal(t, "GG", post.Content)

	posts, err := Global().Fetch(context.Background(), api, "tok")
	require.NoError(t, err)
	require.NotEmpty(t, posts)
	assert.Equal(t, "GG", posts[0].Content)
	assert.Zero(t, posts[0].LikesCount)

	select {
	case ev := <-ch:
		assert.Equal(t, pubsub.TypePostCreated, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected post event")
	}
}

func TestToggleLikeCollapsesInFlightDuplicates(t *testing.T) {
	api := &fakeAPI{likeGate: make(chan struct{})}
	svc := NewService(api, nil, nil)

	var wg sync.WaitGroup
	results := make([]*models.LikeResult, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.ToggleLike(context.Background(), me(), "p1")
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	// let both callers join the flight before releasing it
	require.Eventually(t, func() bool { return api.likes.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(api.likeGate)
	wg.Wait()

	assert.EqualValues(t, 1, api.likes.Load())
	for _, r := range results {
		require.NotNil(t, r)
		assert.True(t, r.LikedBy("t1"))
		assert.Equal(t, len(r.Likes), r.LikesCount)
	}
}

func TestToggleLikeSurvivesFirstCallerHangingUp(t *testing.T) {
	api := &fakeAPI{likeGate: make(chan struct{})}
	rec := &countingRecorder{}
	svc := NewService(api, nil, rec)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var firstErr, secondErr error
	var second *models.LikeResult

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = svc.ToggleLike(ctx, me(), "p1")
	}()
	require.Eventually(t, func() bool { return api.likes.Load() == 1 }, time.Second, 5*time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		second, secondErr = svc.ToggleLike(context.Background(), me(), "p1")
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	close(api.likeGate)
	wg.Wait()

	assert.NoError(t, firstErr)
	require.NoError(t, secondErr)
	require.NotNil(t, second)
	assert.True(t, second.LikedBy("t1"))
	assert.EqualValues(t, 1, api.likes.Load())
	assert.Equal(t, 1, rec.count(), "a collapsed double-click is one action")
}

func TestAddCommentRequiresContent(t *testing.T) {
	svc := NewService(&fakeAPI{}, nil, nil)

	_, err := svc.AddComment(context.Background(), me(), "p1", " ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	post, err := svc.AddComment(context.Background(), me(), "p1", "boa!")
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "boa!", post.Comments[0].Content)
}

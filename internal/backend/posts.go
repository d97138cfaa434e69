package backend

import (
	"context"
	"net/http"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
)

// ListPosts returns the global feed in server order (GET /posts)
func (c *Client) ListPosts(ctx context.Context, token string) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, call{method: http.MethodGet, path: "/posts", token: token, out: &posts})
	return posts, err
}

// PopularPosts returns the most liked posts (GET /posts/popular)
func (c *Client) PopularPosts(ctx context.Context, token string) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, call{method: http.MethodGet, path: "/posts/popular", token: token, out: &posts})
	return posts, err
}

// CreatePost publishes a post as the caller (POST /posts)
func (c *Client) CreatePost(ctx context.Context, token, content string) (*models.Post, error) {
	var post models.Post
	err := c.do(ctx, call{
		method: http.MethodPost, path: "/posts", token: token,
		body: map[string]string{"content": content}, out: &post,
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ToggleLike flips the caller's membership in a post's like set
// (POST /posts/{id}/like) and returns the server's resulting state.
func (c *Client) ToggleLike(ctx context.Context, token, postID string) (*models.LikeResult, error) {
	var res models.LikeResult
	err := c.do(ctx, call{
		method: http.MethodPost, path: "/posts/{id}/like", token: token,
		params: map[string]string{"id": postID}, out: &res,
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// AddComment comments on a post (POST /posts/{id}/comments) and returns the
// updated post.
func (c *Client) AddComment(ctx context.Context, token, postID, content string) (*models.Post, error) {
	var post models.Post
	err := c.do(ctx, call{
		method: http.MethodPost, path: "/posts/{id}/comments", token: token,
		params: map[string]string{"id": postID},
		body:   map[string]string{"content": content}, out: &post,
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

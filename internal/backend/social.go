package backend

import (
	"context"
	"net/http"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
)

// Friends returns the caller's friends (GET /friends)
func (c *Client) Friends(ctx context.Context, token string) ([]models.TeamStub, error) {
	var friends []models.TeamStub
	err := c.do(ctx, call{method: http.MethodGet, path: "/friends", token: token, out: &friends})
	return friends, err
}

// FriendRequests returns the teams waiting for the caller to accept them
// (GET /friends/requests)
func (c *Client) FriendRequests(ctx context.Context, token string) ([]models.TeamStub, error) {
	var reqs []models.TeamStub
	err := c.do(ctx, call{method: http.MethodGet, path: "/friends/requests", token: token, out: &reqs})
	return reqs, err
}

// SendFriendRequest asks targetID to become a friend (POST /friends/request/{id})
func (c *Client) SendFriendRequest(ctx context.Context, token, targetID string) error {
	return c.do(ctx, call{
		method: http.MethodPost, path: "/friends/request/{id}", token: token,
		params: map[string]string{"id": targetID},
	})
}

// AcceptFriendRequest accepts a pending request from requesterID (POST /friends/accept/{id})
func (c *Client) AcceptFriendRequest(ctx context.Context, token, requesterID string) error {
	return c.do(ctx, call{
		method: http.MethodPost, path: "/friends/accept/{id}", token: token,
		params: map[string]string{"id": requesterID},
	})
}

// MyScrims returns every scrim the caller proposed or was invited to (GET /scrims/me)
func (c *Client) MyScrims(ctx context.Context, token string) ([]models.Scrim, error) {
	var scrims []models.Scrim
	err := c.do(ctx, call{method: http.MethodGet, path: "/scrims/me", token: token, out: &scrims})
	return scrims, err
}

// ProposeScrim invites another team to a scrim (POST /scrims)
func (c *Client) ProposeScrim(ctx context.Context, token string, in models.ScrimCreate) (*models.Scrim, error) {
	var scrim models.Scrim
	err := c.do(ctx, call{method: http.MethodPost, path: "/scrims", token: token, body: in, out: &scrim})
	if err != nil {
		return nil, err
	}
	return &scrim, nil
}

// AcceptScrim confirms a pending scrim invite (POST /scrims/{id}/accept)
func (c *Client) AcceptScrim(ctx context.Context, token, scrimID string) error {
	return c.do(ctx, call{
		method: http.MethodPost, path: "/scrims/{id}/accept", token: token,
		params: map[string]string{"id": scrimID},
	})
}

// Notifications returns the server-aggregated pending work (GET /notifications)
func (c *Client) Notifications(ctx context.Context, token string) (*models.Notifications, error) {
	var n models.Notifications
	err := c.do(ctx, call{method: http.MethodGet, path: "/notifications", token: token, out: &n})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ActivityStream returns recent platform events (GET /activity-stream)
func (c *Client) ActivityStream(ctx context.Context, token string) ([]models.ActivityEvent, error) {
	var events []models.ActivityEvent
	err := c.do(ctx, call{method: http.MethodGet, path: "/activity-stream", token: token, out: &events})
	return events, err
}

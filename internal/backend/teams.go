package backend

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
)

// Register creates a team account (POST /teams)
func (c *Client) Register(ctx context.Context, in models.TeamCreate) (*models.Team, error) {
	var team models.Team
	err := c.do(ctx, call{method: http.MethodPost, path: "/teams", body: in, out: &team})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// Login exchanges email and password for an access token using the OAuth2
// password grant that POST /login implements (form-encoded username/password).
func (c *Client) Login(ctx context.Context, email, password string) (*models.Token, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: "POST /login", Err: err}
	}

	cfg := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + "/login",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http.GetClient())

	tok, err := cfg.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return nil, newAPIError(re.Response.StatusCode, re.Body)
		}
		return nil, &TransportError{Op: "POST /login", Err: err}
	}

	return &models.Token{AccessToken: tok.AccessToken, TokenType: tok.TokenType}, nil
}

// MyProfile returns the caller's own team (GET /teams/me/profile)
func (c *Client) MyProfile(ctx context.Context, token string) (*models.Team, error) {
	var team models.Team
	err := c.do(ctx, call{method: http.MethodGet, path: "/teams/me/profile", token: token, out: &team})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// UpdateProfile replaces the caller's editable profile fields (PUT /teams/me/profile)
func (c *Client) UpdateProfile(ctx context.Context, token string, in models.ProfileUpdate) (*models.Team, error) {
	var team models.Team
	err := c.do(ctx, call{method: http.MethodPut, path: "/teams/me/profile", token: token, body: in, out: &team})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetTeam returns one team (GET /teams/{id})
func (c *Client) GetTeam(ctx context.Context, token, id string) (*models.Team, error) {
	var team models.Team
	err := c.do(ctx, call{
		method: http.MethodGet, path: "/teams/{id}", token: token,
		params: map[string]string{"id": id}, out: &team,
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// ListTeams returns every registered team (GET /teams)
func (c *Client) ListTeams(ctx context.Context, token string) ([]models.Team, error) {
	var teams []models.Team
	err := c.do(ctx, call{method: http.MethodGet, path: "/teams", token: token, out: &teams})
	return teams, err
}

// TeamPosts returns the posts authored by one team (GET /teams/{id}/posts)
func (c *Client) TeamPosts(ctx context.Context, token, id string) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, call{
		method: http.MethodGet, path: "/teams/{id}/posts", token: token,
		params: map[string]string{"id": id}, out: &posts,
	})
	return posts, err
}

// TeamFriends returns a team's friends (GET /teams/{id}/friends)
func (c *Client) TeamFriends(ctx context.Context, token, id string) ([]models.TeamStub, error) {
	var friends []models.TeamStub
	err := c.do(ctx, call{
		method: http.MethodGet, path: "/teams/{id}/friends", token: token,
		params: map[string]string{"id": id}, out: &friends,
	})
	return friends, err
}

// SearchTeams runs the backend team search (GET /teams/search?q=)
func (c *Client) SearchTeams(ctx context.Context, token, q string) ([]models.Team, error) {
	var teams []models.Team
	err := c.do(ctx, call{
		method: http.MethodGet, path: "/teams/search", token: token,
		query: map[string]string{"q": q}, out: &teams,
	})
	return teams, err
}

// Recommendations returns suggested teams for the caller (GET /teams/recommendations)
func (c *Client) Recommendations(ctx context.Context, token string) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	err := c.do(ctx, call{method: http.MethodGet, path: "/teams/recommendations", token: token, out: &recs})
	return recs, err
}

// AddPlayer adds a roster member to a team (POST /teams/{id}/players)
func (c *Client) AddPlayer(ctx context.Context, token, teamID string, in models.PlayerCreate) (*models.Player, error) {
	var player models.Player
	err := c.do(ctx, call{
		method: http.MethodPost, path: "/teams/{id}/players", token: token,
		params: map[string]string{"id": teamID}, body: in, out: &player,
	})
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// DeletePlayer removes a roster member (DELETE /players/{id})
func (c *Client) DeletePlayer(ctx context.Context, token, playerID string) error {
	return c.do(ctx, call{
		method: http.MethodDelete, path: "/players/{id}", token: token,
		params: map[string]string{"id": playerID},
	})
}

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL + "/api"})
}

func TestMyProfileSendsBearerToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/teams/me/profile", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"id": "t1", "email": "a@b.c", "team_name": "Alpha", "main_game": "Valorant",
			"players": []any{}, "created_at": "2024-01-01T00:00:00",
		})
	})
	c := newTestClient(t, mux)

	team, err := c.MyProfile(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", team.TeamName)
	assert.Equal(t, "Valorant", team.MainGame)
}

func TestUnauthorizedIsClassified(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/friends", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Could not validate credentials"})
	})
	c := newTestClient(t, mux)

	_, err := c.Friends(context.Background(), "stale")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsTransport(err))
	assert.Equal(t, "Could not validate credentials", Message(err))
}

func TestStructuredDetailIsStringified(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/teams/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"query", "q"}, "msg": "field required"}},
		})
	})
	c := newTestClient(t, mux)

	_, err := c.SearchTeams(context.Background(), "", "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, `[{"loc":["query","q"],"msg":"field required"}]`, apiErr.Detail)
	assert.False(t, IsUnauthorized(err))
}

func TestPlainTextErrorBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})
	mux.HandleFunc("GET /api/posts/popular", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := newTestClient(t, mux)

	_, err := c.ListPosts(context.Background(), "")
	assert.Equal(t, "upstream exploded", Message(err))

	_, err = c.PopularPosts(context.Background(), "")
	assert.Equal(t, "Internal Server Error", Message(err))
}

func TestTransportErrorHasGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Options{BaseURL: url + "/api"})
	_, err := c.ListPosts(context.Background(), "")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, GenericTransportMessage, Message(err))
}

func TestSearchEscapesQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/teams/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Alpha & Co", r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "t1", "team_name": "Alpha & Co"}})
	})
	c := newTestClient(t, mux)

	teams, err := c.SearchTeams(context.Background(), "", "Alpha & Co")
	require.NoError(t, err)
	require.Len(t, teams, 1)
}

func TestToggleLikeReturnsServerState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts/{id}/like", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "p 1", r.PathValue("id"))
		writeJSON(w, http.StatusOK, map[string]any{"likes_count": 3, "likes": []string{"a", "b", "me"}})
	})
	c := newTestClient(t, mux)

	res, err := c.ToggleLike(context.Background(), "tok", "p 1")
	require.NoError(t, err)
	assert.Equal(t, 3, res.LikesCount)
	assert.True(t, res.LikedBy("me"))
}

func TestAddCommentAndCreatePostBodies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusCreated, map[string]any{"id": "p9", "content": body["content"], "likes_count": 0})
	})
	mux.HandleFunc("POST /api/posts/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, map[string]any{
			"id": r.PathValue("id"), "content": "GG",
			"comments": []map[string]any{{"author": map[string]string{"id": "me", "team_name": "Alpha"}, "content": body["content"]}},
		})
	})
	c := newTestClient(t, mux)

	post, err := c.CreatePost(context.Background(), "tok", "GG")
	require.NoError(t, err)
	assert.Equal(t, "GG", post.Content)
	assert.Equal(t, 0, post.LikesCount)

	post, err = c.AddComment(context.Background(), "tok", "p9", "wp")
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "wp", post.Comments[0].Content)
}

func TestLoginUsesPasswordGrant(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		if r.PostForm.Get("username") != "a@b.c" || r.PostForm.Get("password") != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Email ou senha incorretos"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "jwt-abc", "token_type": "bearer"})
	})
	c := newTestClient(t, mux)

	tok, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", tok.AccessToken)

	_, err = c.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Email ou senha incorretos", Message(err))
}

func TestRegisterAndProfileRoundTrip(t *testing.T) {
	var stored models.Team
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/teams", func(w http.ResponseWriter, r *http.Request) {
		var in models.TeamCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		stored = models.Team{ID: "t1", Email: in.Email, TeamName: in.TeamName, MainGame: in.MainGame}
		writeJSON(w, http.StatusCreated, stored)
	})
	mux.HandleFunc("PUT /api/teams/me/profile", func(w http.ResponseWriter, r *http.Request) {
		var in models.ProfileUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		stored.TeamName, stored.Tag, stored.MainGame, stored.Bio = in.TeamName, in.Tag, in.MainGame, in.Bio
		writeJSON(w, http.StatusOK, stored)
	})
	mux.HandleFunc("GET /api/teams/me/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stored)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.Register(ctx, models.TeamCreate{Email: "a@b.c", TeamName: "Old", Password: "secret", MainGame: "CS2"})
	require.NoError(t, err)

	_, err = c.UpdateProfile(ctx, "tok", models.ProfileUpdate{TeamName: "Alpha", Tag: "ALP", MainGame: "Valorant", Bio: "hi"})
	require.NoError(t, err)

	got, err := c.MyProfile(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.TeamName)
	assert.Equal(t, "ALP", got.Tag)
	assert.Equal(t, "Valorant", got.MainGame)
	assert.Equal(t, "hi", got.Bio)
}

func TestSocialEndpoints(t *testing.T) {
	var sent, accepted, scrimAccepted atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/friends/request/{id}", func(w http.ResponseWriter, r *http.Request) {
		sent.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("POST /api/friends/accept/{id}", func(w http.ResponseWriter, r *http.Request) {
		accepted.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("POST /api/scrims/{id}/accept", func(w http.ResponseWriter, r *http.Request) {
		scrimAccepted.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("POST /api/scrims", func(w http.ResponseWriter, r *http.Request) {
		var in models.ScrimCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "2025-03-09T21:15:00", in.ScrimDatetime)
		writeJSON(w, http.StatusCreated, map[string]any{"id": "s1", "status": "Pendente", "scrim_datetime": in.ScrimDatetime})
	})
	mux.HandleFunc("GET /api/notifications", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"friend_requests": []map[string]string{{"id": "t2", "team_name": "Beta"}},
			"scrim_invites":   []map[string]any{},
		})
	})
	mux.HandleFunc("DELETE /api/players/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	require.NoError(t, c.SendFriendRequest(ctx, "tok", "t2"))
	require.NoError(t, c.AcceptFriendRequest(ctx, "tok", "t2"))
	require.NoError(t, c.AcceptScrim(ctx, "tok", "s1"))
	require.NoError(t, c.DeletePlayer(ctx, "tok", "pl1"))

	scrim, err := c.ProposeScrim(ctx, "tok", models.ScrimCreate{OpponentTeamID: "t2", ScrimDatetime: "2025-03-09T21:15:00"})
	require.NoError(t, err)
	assert.Equal(t, models.ScrimPending, scrim.Status)

	n, err := c.Notifications(ctx, "tok")
	require.NoError(t, err)
	assert.Len(t, n.FriendRequests, 1)

	assert.EqualValues(t, 1, sent.Load())
	assert.EqualValues(t, 1, accepted.Load())
	assert.EqualValues(t, 1, scrimAccepted.Load())
}

func TestStringifyDetail(t *testing.T) {
	assert.Equal(t, "", StringifyDetail(nil))
	assert.Equal(t, "", StringifyDetail(json.RawMessage("null")))
	assert.Equal(t, "plain", StringifyDetail(json.RawMessage(`"plain"`)))
	assert.Equal(t, `{"a":1}`, StringifyDetail(json.RawMessage(`{ "a" : 1 }`)))
	assert.Equal(t, "42", StringifyDetail(json.RawMessage(`42`)))
}

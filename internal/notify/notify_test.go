package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/backend"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/viewer"
)

type fakeAPI struct {
	requests []models.TeamStub
	scrims   []models.Scrim
	scrimErr error
}

func (f *fakeAPI) FriendRequests(ctx context.Context, token string) ([]models.TeamStub, error) {
	return f.requests, nil
}

func (f *fakeAPI) MyScrims(ctx context.Context, token string) ([]models.Scrim, error) {
	return f.scrims, f.scrimErr
}

func (f *fakeAPI) Notifications(ctx context.Context, token string) (*models.Notifications, error) {
	return &models.Notifications{FriendRequests: f.requests}, nil
}

var vc = &viewer.Context{Token: "tok", Me: models.Team{ID: "t1"}}

func TestLoadCountsRequestsAndInvites(t *testing.T) {
	api := &fakeAPI{
		requests: []models.TeamStub{{ID: "t2"}, {ID: "t3"}},
		scrims: []models.Scrim{
			{ID: "a", Status: models.ScrimPending, OpponentTeam: models.TeamStub{ID: "t1"}},
			{ID: "b", Status: models.ScrimPending, OpponentTeam: models.TeamStub{ID: "t9"}},
			{ID: "c", Status: models.ScrimConfirmed, OpponentTeam: models.TeamStub{ID: "t1"}},
		},
	}
	snap, err := Load(context.Background(), api, vc)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Count())
	require.Len(t, snap.ScrimInvites, 1)
	assert.Equal(t, "a", snap.ScrimInvites[0].ID)
	assert.False(t, snap.Empty())
}

func TestLoadEmpty(t *testing.T) {
	snap, err := Load(context.Background(), &fakeAPI{}, vc)
	require.NoError(t, err)
	assert.True(t, snap.Empty())
	assert.Zero(t, (*Snapshot)(nil).Count())
}

func TestLoadPropagatesUnauthorized(t *testing.T) {
	api := &fakeAPI{scrimErr: &backend.APIError{StatusCode: 401, Detail: "Could not validate credentials"}}
	_, err := Load(context.Background(), api, vc)
	assert.True(t, backend.IsUnauthorized(err))
}

func TestAggregated(t *testing.T) {
	snap, err := Aggregated(context.Background(), &fakeAPI{requests: []models.TeamStub{{ID: "t2"}}}, vc)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Count())
}

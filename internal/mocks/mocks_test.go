package mocks

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/analytics"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/pubsub"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/storage"
)

func TestMockRecorderKeepsMostRecent(t *testing.T) {
	m := NewMockRecorder(2)
	ctx := context.Background()

	m.Record(ctx, analytics.Action{Kind: analytics.ActionLike, TargetID: "p1"})
	m.Record(ctx, analytics.Action{Kind: analytics.ActionComment, TargetID: "p2"})
	m.Record(ctx, analytics.Action{Kind: analytics.ActionSearch, TargetID: "fur"})

	recent := m.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, analytics.ActionComment, recent[0].Kind)
	assert.Equal(t, analytics.ActionSearch, recent[1].Kind)
	assert.False(t, recent[1].At.IsZero())
	assert.NoError(t, m.Ping(ctx))
}

func TestMockNATSBridgesBuses(t *testing.T) {
	upstream := NewMockNATSPubSub()
	a := pubsub.NewWithUpstream(upstream)
	b := pubsub.NewWithUpstream(upstream)
	defer a.Close()
	defer b.Close()

	ch := b.Subscribe()
	a.Publish(pubsub.NotificationsChanged("friend_request", "team-2"))

	select {
	case ev := <-ch:
		assert.True(t, ev.For("team-2"))
	case <-time.After(time.Second):
		t.Fatal("event did not cross instances")
	}
}

func TestMockPostgresStoreIsAStore(t *testing.T) {
	s, err := NewMockPostgresStore(filepath.Join(t.TempDir(), "mock.sqlite"))
	require.NoError(t, err)
	defer s.Close()

	var _ storage.Store = s
	var _ storage.Purger = s

	ctx := context.Background()
	require.NoError(t, s.SetItem(ctx, "sid", storage.AccessTokenKey, "tok"))
	v, err := s.GetItem(ctx, "sid", storage.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok", v)
}

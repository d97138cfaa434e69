// Package notify builds the notification badge and modal. Both read the same
// Snapshot so an accept can refresh them from one round of fetches.
package notify

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/viewer"
)

// EmptyMessage is shown when nothing is waiting
const EmptyMessage = "Nenhuma notificação nova."

// API is the slice of the backend notifications read
type API interface {
	FriendRequests(ctx context.Context, token string) ([]models.TeamStub, error)
	MyScrims(ctx context.Context, token string) ([]models.Scrim, error)
	Notifications(ctx context.Context, token string) (*models.Notifications, error)
}

// Snapshot is the viewer's pending work at one moment
type Snapshot struct {
	FriendRequests []models.TeamStub
	ScrimInvites   []models.Scrim
}

// Count is the badge number
func (s *Snapshot) Count() int {
	if s == nil {
		return 0
	}
	return len(s.FriendRequests) + len(s.ScrimInvites)
}

// Empty reports whether the modal shows EmptyMessage
func (s *Snapshot) Empty() bool { return s.Count() == 0 }

// Load fetches friend requests and scrims together and keeps the scrims
// the viewer can accept.
func Load(ctx context.Context, api API, vc *viewer.Context) (*Snapshot, error) {
	var (
		requests []models.TeamStub
		scrims   []models.Scrim
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		requests, err = api.FriendRequests(gctx, vc.Token)
		return err
	})
	g.Go(func() (err error) {
		scrims, err = api.MyScrims(gctx, vc.Token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Snapshot{
		FriendRequests: requests,
		ScrimInvites:   models.PendingInvites(scrims, vc.ID()),
	}, nil
}

// Aggregated reads the server-side summary (GET /notifications)
func Aggregated(ctx context.Context, api API, vc *viewer.Context) (*Snapshot, error) {
	n, err := api.Notifications(ctx, vc.Token)
	if err != nil {
		return nil, err
	}
	return &Snapshot{FriendRequests: n.FriendRequests, ScrimInvites: n.ScrimInvites}, nil
}

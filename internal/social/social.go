// Package social holds the friend and scrim actions. Every action is a single
// POST; state changes the UI does not cause itself are found by re-fetching.
package social

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/analytics"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/pubsub"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/viewer"
)

var (
	ErrSelfRequest   = errors.New("Você não pode adicionar o seu próprio time.")
	ErrNoOpponent    = errors.New("Escolha o time adversário.")
	ErrScrimSchedule = errors.New("Informe a data e o horário da scrim.")
)

// API is the slice of the backend the social actions need
type API interface {
	Friends(ctx context.Context, token string) ([]models.TeamStub, error)
	SendFriendRequest(ctx context.Context, token, targetID string) error
	AcceptFriendRequest(ctx context.Context, token, requesterID string) error
	MyScrims(ctx context.Context, token string) ([]models.Scrim, error)
	ProposeScrim(ctx context.Context, token string, in models.ScrimCreate) (*models.Scrim, error)
	AcceptScrim(ctx context.Context, token, scrimID string) error
}

// FriendState is a relationship as this client sees it. Only None to
// Pending happens locally; anything else is learned from a fetch.
type FriendState int

const (
	FriendNone FriendState = iota
	FriendPending
	FriendAccepted
)

// Label is the add-friend control text
func (s FriendState) Label() string {
	switch s {
	case FriendPending:
		return "Enviado"
	case FriendAccepted:
		return "Amigos"
	default:
		return "Adicionar amigo"
	}
}

// Disabled reports whether the control accepts clicks
func (s FriendState) Disabled() bool { return s != FriendNone }

// StateFor derives the state of targetID from a friend list
func StateFor(targetID string, friends []models.TeamStub) FriendState {
	for _, f := range friends {
		if f.ID == targetID {
			return FriendAccepted
		}
	}
	return FriendNone
}

// Scrims is the scrims page split by status
type Scrims struct {
	Pending   []models.Scrim
	Confirmed []models.Scrim
	History   []models.Scrim
}

// Service runs the social actions
type Service struct {
	api   API
	bus   pubsub.Publisher
	rec   analytics.Recorder
	sends singleflight.Group
}

// NewService creates a social service
func NewService(api API, bus pubsub.Publisher, rec analytics.Recorder) *Service {
	if rec == nil {
		rec = analytics.Nop{}
	}
	return &Service{api: api, bus: bus, rec: rec}
}

func (s *Service) publish(ev pubsub.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

// SendFriendRequest asks targetID for friendship and returns the new state
// of the control. Duplicate clicks while the first is in flight share it.
func (s *Service) SendFriendRequest(ctx context.Context, vc *viewer.Context, targetID string) (FriendState, error) {
	if vc.IsMe(targetID) {
		return FriendNone, ErrSelfRequest
	}
	_, err, _ := s.sends.Do(vc.SessionID+":"+targetID, func() (interface{}, error) {
		// detached so one browser hanging up does not fail the callers sharing it
		ctx := context.WithoutCancel(ctx)
		if err := s.api.SendFriendRequest(ctx, vc.Token, targetID); err != nil {
			return nil, err
		}
		logger.Info("Friend request sent", "from", vc.ID(), "to", targetID)
		s.rec.Record(ctx, analytics.Action{SessionID: vc.SessionID, TeamID: vc.ID(), Kind: analytics.ActionFriendRequest, TargetID: targetID})
		s.publish(pubsub.NotificationsChanged("friend_request", targetID))
		return nil, nil
	})
	if err != nil {
		return FriendNone, err
	}
	return FriendPending, nil
}

// AcceptFriendRequest accepts requesterID. Callers re-fetch notifications
// to show the result.
func (s *Service) AcceptFriendRequest(ctx context.Context, vc *viewer.Context, requesterID string) error {
	if err := s.api.AcceptFriendRequest(ctx, vc.Token, requesterID); err != nil {
		return err
	}

	logger.Info("Friend request accepted", "team", vc.ID(), "requester", requesterID)
	s.rec.Record(ctx, analytics.Action{SessionID: vc.SessionID, TeamID: vc.ID(), Kind: analytics.ActionFriendAccept, TargetID: requesterID})
	s.publish(pubsub.NotificationsChanged("friend_accepted", requesterID, vc.ID()))
	return nil
}

// ProposeScrim invites opponentID to play at date (YYYY-MM-DD) and clock
// (HH:MM). Whether the moment lies in the future is for the backend to say.
func (s *Service) ProposeScrim(ctx context.Context, vc *viewer.Context, opponentID, date, clock, game string) (*models.Scrim, error) {
	opponentID = strings.TrimSpace(opponentID)
	if opponentID == "" {
		return nil, ErrNoOpponent
	}
	when, err := models.CombineDateTime(date, clock)
	if err != nil {
		return nil, ErrScrimSchedule
	}

	scrim, err := s.api.ProposeScrim(ctx, vc.Token, models.ScrimCreate{
		OpponentTeamID: opponentID,
		ScrimDatetime:  when,
		Game:           strings.TrimSpace(game),
	})
	if err != nil {
		return nil, err
	}

	s.rec.Record(ctx, analytics.Action{SessionID: vc.SessionID, TeamID: vc.ID(), Kind: analytics.ActionScrimPropose, TargetID: opponentID})
	s.publish(pubsub.NotificationsChanged("scrim_proposed", opponentID))
	return scrim, nil
}

// AcceptScrim confirms scrimID and returns the re-fetched lists
func (s *Service) AcceptScrim(ctx context.Context, vc *viewer.Context, scrimID string) (*Scrims, error) {
	if err := s.api.AcceptScrim(ctx, vc.Token, scrimID); err != nil {
		return nil, err
	}
	s.rec.Record(ctx, analytics.Action{SessionID: vc.SessionID, TeamID: vc.ID(), Kind: analytics.ActionScrimAccept, TargetID: scrimID})

	all, err := s.api.MyScrims(ctx, vc.Token)
	if err != nil {
		return nil, err
	}

	teams := []string{vc.ID()}
	for _, sc := range all {
		if sc.ID == scrimID {
			teams = append(teams, sc.ProposingTeam.ID)
		}
	}
	s.publish(pubsub.NotificationsChanged("scrim_accepted", teams...))

	return partition(all, vc.ID()), nil
}

// LoadScrims fetches the viewer's scrims split by status
func (s *Service) LoadScrims(ctx context.Context, vc *viewer.Context) (*Scrims, error) {
	all, err := s.api.MyScrims(ctx, vc.Token)
	if err != nil {
		return nil, err
	}
	return partition(all, vc.ID()), nil
}

// Friends returns the viewer's friends, used to pick scrim opponents
func (s *Service) Friends(ctx context.Context, vc *viewer.Context) ([]models.TeamStub, error) {
	return s.api.Friends(ctx, vc.Token)
}

func partition(all []models.Scrim, viewerID string) *Scrims {
	var sc Scrims
	sc.Pending, sc.Confirmed, sc.History = models.PartitionScrims(all, viewerID)
	return &sc
}

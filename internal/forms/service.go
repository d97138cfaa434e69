package forms

import (
	"context"
	"fmt"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/viewer"
)

// API is the slice of the backend the forms submit to
type API interface {
	Register(ctx context.Context, in models.TeamCreate) (*models.Team, error)
	MyProfile(ctx context.Context, token string) (*models.Team, error)
	UpdateProfile(ctx context.Context, token string, in models.ProfileUpdate) (*models.Team, error)
	AddPlayer(ctx context.Context, token, teamID string, in models.PlayerCreate) (*models.Player, error)
	DeletePlayer(ctx context.Context, token, playerID string) error
}

// Service submits validated forms
type Service struct {
	api API
}

// NewService creates a form service
func NewService(api API) *Service {
	return &Service{api: api}
}

// Register creates the team. Signing in afterwards is up to the caller.
func (s *Service) Register(ctx context.Context, in Register) (*models.Team, error) {
	team, err := s.api.Register(ctx, in.Body())
	if err != nil {
		return nil, err
	}
	logger.Info("Team registered", "team_id", team.ID, "main_game", team.MainGame)
	return team, nil
}

// UpdateProfile saves the profile and returns it as the backend now has it
func (s *Service) UpdateProfile(ctx context.Context, vc *viewer.Context, in models.ProfileUpdate) (*models.Team, error) {
	if _, err := s.api.UpdateProfile(ctx, vc.Token, in); err != nil {
		return nil, err
	}
	return s.api.MyProfile(ctx, vc.Token)
}

// AddPlayer adds a roster member and returns the re-fetched profile
func (s *Service) AddPlayer(ctx context.Context, vc *viewer.Context, in models.PlayerCreate) (*models.Team, error) {
	if _, err := s.api.AddPlayer(ctx, vc.Token, vc.ID(), in); err != nil {
		return nil, err
	}
	return s.refetch(ctx, vc)
}

// DeletePlayer removes a roster member and returns the re-fetched profile
func (s *Service) DeletePlayer(ctx context.Context, vc *viewer.Context, playerID string) (*models.Team, error) {
	if err := s.api.DeletePlayer(ctx, vc.Token, playerID); err != nil {
		return nil, err
	}
	return s.refetch(ctx, vc)
}

func (s *Service) refetch(ctx context.Context, vc *viewer.Context) (*models.Team, error) {
	team, err := s.api.MyProfile(ctx, vc.Token)
	if err != nil {
		return nil, fmt.Errorf("refetch roster: %w", err)
	}
	return team, nil
}

// Package search finds teams by name and lists teams worth befriending.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/analytics"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/viewer"
)

// Messages shown instead of a list
const (
	NoQueryMessage           = "Nenhum termo de busca fornecido."
	NoResultsMessage         = "Nenhum time encontrado para este termo."
	NoTeamsMessage           = "Nenhum time cadastrado ainda."
	NoRecommendationsMessage = "Nenhuma recomendação no momento."
)

// API is the slice of the backend search reads
type API interface {
	SearchTeams(ctx context.Context, token, q string) ([]models.Team, error)
	ListTeams(ctx context.Context, token string) ([]models.Team, error)
	Recommendations(ctx context.Context, token string) ([]models.Recommendation, error)
}

// Results is a rendered search. Message is set when there is nothing to list.
type Results struct {
	Query   string
	Teams   []models.Team
	Message string
}

// Service runs searches
type Service struct {
	api API
	rec analytics.Recorder
}

// NewService creates a search service
func NewService(api API, rec analytics.Recorder) *Service {
	if rec == nil {
		rec = analytics.Nop{}
	}
	return &Service{api: api, rec: rec}
}

// Perform searches teams by name. A blank query makes no backend call.
func (s *Service) Perform(ctx context.Context, vc *viewer.Context, q string) (*Results, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return &Results{Message: NoQueryMessage}, nil
	}

	teams, err := s.api.SearchTeams(ctx, vc.Token, q)
	if err != nil {
		return nil, err
	}
	s.rec.Record(ctx, analytics.Action{SessionID: vc.SessionID, TeamID: vc.ID(), Kind: analytics.ActionSearch, TargetID: q})

	if len(teams) == 0 {
		return &Results{Query: q, Message: NoResultsMessage}, nil
	}
	return &Results{Query: q, Teams: Rank(q, teams)}, nil
}

// Rank orders teams by how closely their names match q. Names the matcher
// does not accept keep their server order after the matches.
func Rank(q string, teams []models.Team) []models.Team {
	// distances are computed on the raw strings, so lower both sides
	names := make([]string, len(teams))
	for i, t := range teams {
		names[i] = strings.ToLower(t.TeamName)
	}

	ranks := fuzzy.RankFindNormalizedFold(strings.ToLower(q), names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]models.Team, 0, len(teams))
	seen := make([]bool, len(teams))
	for _, r := range ranks {
		if !seen[r.OriginalIndex] {
			seen[r.OriginalIndex] = true
			out = append(out, teams[r.OriginalIndex])
		}
	}
	for i, t := range teams {
		if !seen[i] {
			out = append(out, t)
		}
	}
	return out
}

// Recommendations lists suggested teams in server order, without the
// viewer's own team.
func (s *Service) Recommendations(ctx context.Context, vc *viewer.Context) ([]models.Recommendation, error) {
	recs, err := s.api.Recommendations(ctx, vc.Token)
	if err != nil {
		return nil, err
	}
	out := recs[:0]
	for _, r := range recs {
		if !vc.IsMe(r.ID) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Directory lists every registered team
func (s *Service) Directory(ctx context.Context, vc *viewer.Context) (*Results, error) {
	teams, err := s.api.ListTeams(ctx, vc.Token)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return &Results{Message: NoTeamsMessage}, nil
	}
	return &Results{Teams: teams}, nil
}

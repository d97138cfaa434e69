package models

import (
	"fmt"
	"strings"
	"time"
)

// Scrim statuses as the backend spells them.
const (
	ScrimPending   = "Pendente"
	ScrimConfirmed = "Confirmada"
)

// Scrim is a practice match proposal between two teams
type Scrim struct {
	ID            string   `json:"id"`
	ProposingTeam TeamStub `json:"proposing_team"`
	OpponentTeam  TeamStub `json:"opponent_team"`
	ScrimDatetime Time     `json:"scrim_datetime"`
	CreatedAt     Time     `json:"created_at"`
	Status        string   `json:"status"`
	Game          string   `json:"game,omitempty"`
}

// CanAccept reports whether viewerID may accept this scrim.
func (s Scrim) CanAccept(viewerID string) bool {
	return viewerID != "" && s.OpponentTeam.ID == viewerID && s.Status == ScrimPending
}

// StatusClass is the lower-cased status used as a CSS class.
func (s Scrim) StatusClass() string {
	return strings.ToLower(s.Status)
}

// PartitionScrims splits scrims into the three lists the scrims page shows.
// Pending only holds invites the viewer can act on.
func PartitionScrims(scrims []Scrim, viewerID string) (pending, confirmed, history []Scrim) {
	for _, s := range scrims {
		switch s.Status {
		case ScrimPending:
			if s.OpponentTeam.ID == viewerID {
				pending = append(pending, s)
			}
		case ScrimConfirmed:
			confirmed = append(confirmed, s)
		default:
			history = append(history, s)
		}
	}
	return pending, confirmed, history
}

// PendingInvites returns the scrims the viewer can accept.
func PendingInvites(scrims []Scrim, viewerID string) []Scrim {
	var out []Scrim
	for _, s := range scrims {
		if s.CanAccept(viewerID) {
			out = append(out, s)
		}
	}
	return out
}

// CombineDateTime joins a date (YYYY-MM-DD) and a time (HH:MM) into the
// timestamp string the backend expects. The value is not checked against now.
func CombineDateTime(date, clock string) (string, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return "", fmt.Errorf("date and time are required")
	}
	t, err := time.Parse("2006-01-02T15:04", date+"T"+clock)
	if err != nil {
		return "", fmt.Errorf("invalid date or time: %w", err)
	}
	return t.Format("2006-01-02T15:04:05"), nil
}

package pubsub

import "slices"

// Event types carried on the bus.
const (
	TypeNotificationsChanged = "notifications:changed"
	TypePostCreated          = "feed:post"
)

// Event is a change notice. Teams addresses it; an empty list means everyone.
type Event struct {
	Type    string         `json:"type"`
	Teams   []string       `json:"teams,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// For reports whether the event concerns teamID.
func (e Event) For(teamID string) bool {
	return len(e.Teams) == 0 || slices.Contains(e.Teams, teamID)
}

// NotificationsChanged tells the given teams to refresh their badge.
func NotificationsChanged(reason string, teams ...string) Event {
	return Event{
		Type:    TypeNotificationsChanged,
		Teams:   compact(teams),
		Payload: map[string]any{"reason": reason},
	}
}

// PostCreated announces a new post to every open feed.
func PostCreated(postID, authorID string) Event {
	return Event{
		Type:    TypePostCreated,
		Payload: map[string]any{"post_id": postID, "author_id": authorID},
	}
}

func compact(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

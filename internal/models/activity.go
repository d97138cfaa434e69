package models

import "encoding/json"

// Activity event kinds.
const (
	ActivityNewPost       = "new_post"
	ActivityNewFriendship = "new_friendship"
)

// PostExcerpt is the post payload of a new_post event
type PostExcerpt struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// ActivityEvent is one entry of the platform activity stream. Type selects
// which of the optional fields are set; unknown kinds keep Raw for display.
type ActivityEvent struct {
	Type      string          `json:"type"`
	CreatedAt Time            `json:"created_at"`
	Team      *TeamStub       `json:"team,omitempty"`
	Post      *PostExcerpt    `json:"post,omitempty"`
	Friend    *TeamStub       `json:"friend,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

func (e *ActivityEvent) UnmarshalJSON(b []byte) error {
	type plain ActivityEvent
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*e = ActivityEvent(p)
	if !e.Known() {
		e.Raw = append(json.RawMessage(nil), b...)
	}
	return nil
}

// Known reports whether the event kind has a dedicated rendering and its
// payload is present.
func (e ActivityEvent) Known() bool {
	switch e.Type {
	case ActivityNewPost:
		return e.Team != nil && e.Post != nil
	case ActivityNewFriendship:
		return e.Team != nil && e.Friend != nil
	default:
		return false
	}
}

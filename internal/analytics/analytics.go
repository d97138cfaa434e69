// Package analytics records what teams do in the UI. Recording is best
// effort and never fails the request that triggered it.
package analytics

import (
	"context"
	"time"
)

// Action kinds
const (
	ActionLike          = "like"
	ActionComment       = "comment"
	ActionPost          = "post"
	ActionFriendRequest = "friend_request"
	ActionFriendAccept  = "friend_accept"
	ActionScrimPropose  = "scrim_propose"
	ActionScrimAccept   = "scrim_accept"
	ActionSearch        = "search"
	ActionLogin         = "login"
)

// Action is one recorded UI interaction
type Action struct {
	At        time.Time
	SessionID string
	TeamID    string
	Kind      string
	TargetID  string
}

// Recorder accepts actions
type Recorder interface {
	Record(ctx context.Context, a Action)
	Ping(ctx context.Context) error
	Close() error
}

// Nop drops everything
type Nop struct{}

func (Nop) Record(context.Context, Action) {}
func (Nop) Ping(context.Context) error { return nil }
func (Nop) Close() error { return nil }

package storage

import (
	"context"
	"errors"
	"time"
)

// AccessTokenKey is the only item the UI keeps per browser session.
const AccessTokenKey = "accessToken"

// ErrNotFound is returned when a session has no value for a key.
var ErrNotFound = errors.New("storage: item not found")

// Store is a per-browser-session key/value store, the server-side stand-in
// for the browser's localStorage.
type Store interface {
	GetItem(ctx context.Context, session, key string) (string, error)
	SetItem(ctx context.Context, session, key, value string) error
	RemoveItem(ctx context.Context, session, key string) error
	// Clear drops every item of a session.
	Clear(ctx context.Context, session string) error
	Ping(ctx context.Context) error
	Close() error
}

// Purger is implemented by stores that can expire abandoned sessions.
type Purger interface {
	PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

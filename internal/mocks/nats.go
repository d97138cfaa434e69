package mocks

import (
	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/pubsub"
)

// MockNATSPubSub is an in-memory Upstream for running without NATS. Events
// published to it reach every bus bridged to it within the process.
type MockNATSPubSub struct {
	*pubsub.PubSub
}

// NewMockNATSPubSub creates the in-memory upstream
func NewMockNATSPubSub() *MockNATSPubSub {
	logger.Info("Using MOCK NATS/JetStream (in-memory pub/sub)")
	return &MockNATSPubSub{PubSub: pubsub.New()}
}

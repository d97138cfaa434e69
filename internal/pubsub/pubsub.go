package pubsub

import (
	"sync"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
)

// Upstream is a bus shared between instances (NATS JetStream, embedded NATS
// or the in-memory mock).
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// Publisher is what actions need to announce a change
type Publisher interface {
	Publish(Event)
}

// PubSub is the in-process bus handlers subscribe to. With an upstream,
// publishes go out through it and come back to every instance, this one
// included.
type PubSub struct {
	local    *fanout
	upstream Upstream
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// New creates a process-local PubSub
func New() *PubSub {
	return &PubSub{local: newFanout(10)}
}

// NewWithUpstream creates a PubSub bridged to an upstream bus
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := &PubSub{
		local:    newFanout(10),
		upstream: upstream,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	ch := upstream.Subscribe()
	stop, done := ps.stop, ps.done
	go func() {
		defer close(done)
		logger.Debug("PubSub: Subscribed to upstream, waiting for events")
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					logger.Debug("PubSub: Upstream channel closed")
					return
				}
				ps.local.broadcast(event)
			case <-stop:
				upstream.Unsubscribe(ch)
				return
			}
		}
	}()

	return ps
}

// Subscribe adds a new subscriber and returns its channel
func (ps *PubSub) Subscribe() chan Event {
	return ps.local.subscribe()
}

// Unsubscribe removes and closes a subscriber
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.local.unsubscribe(ch)
}

// Publish sends an event to every subscriber of every instance
func (ps *PubSub) Publish(event Event) {
	logger.Debug("PubSub: Publish called", "type", event.Type, "teams", event.Teams, "hasUpstream", ps.upstream != nil)
	if ps.upstream != nil {
		ps.upstream.Publish(event)
		return
	}
	ps.local.broadcast(event)
}

// SubscriberCount returns the number of local subscribers
func (ps *PubSub) SubscriberCount() int {
	return ps.local.count()
}

// Close detaches from the upstream and closes local subscribers. It is safe
// to call more than once.
func (ps *PubSub) Close() {
	ps.once.Do(func() {
		if ps.stop != nil {
			close(ps.stop)
			// the bridge may be mid-broadcast; let it finish before closing
			<-ps.done
		}
		ps.local.closeAll()
	})
}

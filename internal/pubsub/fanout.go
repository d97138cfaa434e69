package pubsub

import (
	"sync"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
)

// fanout is the local subscriber set shared by every bus implementation.
// Delivery never blocks: a full subscriber misses the event.
type fanout struct {
	mu          sync.RWMutex
	subscribers []chan Event
	buffer      int
}

func newFanout(buffer int) *fanout {
	return &fanout{subscribers: []chan Event{}, buffer: buffer}
}

func (f *fanout) subscribe() chan Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan Event, f.buffer)
	f.subscribers = append(f.subscribers, ch)
	logger.Debug("PubSub: New subscriber added", "total_subscribers", len(f.subscribers))
	return ch
}

// unsubscribe closes ch only if it belongs to this set.
func (f *fanout) unsubscribe(ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, sub := range f.subscribers {
		if sub == ch {
			close(ch)
			f.subscribers = append(f.subscribers[:i], f.subscribers[i+1:]...)
			logger.Debug("PubSub: Subscriber removed", "remaining_subscribers", len(f.subscribers))
			return
		}
	}
}

func (f *fanout) broadcast(event Event) int {
	// sends are non-blocking, so holding the read lock keeps closeAll from
	// closing a channel mid-send
	f.mu.RLock()
	defer f.mu.RUnlock()

	delivered := 0
	for _, ch := range f.subscribers {
		select {
		case ch <- event:
			delivered++
		default:
			logger.Warn("PubSub: Skipping slow subscriber", "event_type", event.Type)
		}
	}
	return delivered
}

func (f *fanout) count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subscribers {
		close(ch)
	}
	f.subscribers = nil
}

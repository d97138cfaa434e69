package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/pubsub"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/viewer"
)

// sseName maps bus event types to the names the page listens for
var sseName = map[string]string{
	pubsub.TypeNotificationsChanged: "notifications",
	pubsub.TypePostCreated:          "feed",
}

// Events streams the bus events addressed to the viewer's team as
// Server-Sent Events. The page turns them into htmx triggers.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request, vc *viewer.Context) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := h.bus.Subscribe()
	defer h.bus.Unsubscribe(events)
	logger.Debug("SSE client connected", "team_id", vc.ID(), "subscribers", h.bus.SubscriberCount())

	fmt.Fprint(w, "retry: 5000\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			name, known := sseName[ev.Type]
			if !known || !ev.For(vc.ID()) {
				continue
			}
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Error("Failed to encode event", "type", ev.Type, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected", "team_id", vc.ID())
			return
		}
	}
}

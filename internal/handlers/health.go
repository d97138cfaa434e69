package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func probe(ctx context.Context, ping func(context.Context) error) check {
	if err := ping(ctx); err != nil {
		return check{Status: "unhealthy", Error: err.Error()}
	}
	return check{Status: "healthy"}
}

// Health reports the state of the session store, analytics and the bus
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if h.store != nil {
		c := probe(ctx, h.store.Ping)
		if c.Error != "" {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		checks["storage"] = c
	} else {
		checks["storage"] = check{Status: "not_configured"}
	}

	// analytics never blocks requests, so a failure keeps the 200
	c := probe(ctx, h.rec.Ping)
	if c.Error != "" {
		status = "degraded"
	}
	checks["analytics"] = c

	if h.bus != nil {
		checks["pubsub"] = map[string]any{"status": "healthy", "subscribers": h.bus.SubscriberCount()}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"checks":    checks,
	})
}

// Liveness handles Kubernetes liveness probes. It never checks dependencies.
func (h *Handlers) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// Readiness handles Kubernetes readiness probes. Only the session store is
// critical: without it nobody can stay signed in.
func (h *Handlers) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{
				"status": "not_ready",
				"reason": "storage unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}

package pubsub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
)

const (
	// DefaultSubject is where UI instances exchange change events
	DefaultSubject = "scrimhub.events"
	// DefaultStream is the JetStream stream backing DefaultSubject
	DefaultStream = "SCRIMHUB_EVENTS"
)

// jetStreamBus is the part shared by the external and embedded NATS buses:
// publish as JSON, consume new messages and fan them out locally.
type jetStreamBus struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	sub     *nats.Subscription
	subject string
	local   *fanout
}

func newJetStreamBus(nc *nats.Conn, stream *nats.StreamConfig) (*jetStreamBus, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if _, err := js.StreamInfo(stream.Name); err != nil {
		if _, err := js.AddStream(stream); err != nil {
			return nil, fmt.Errorf("failed to create stream %s: %w", stream.Name, err)
		}
		logger.Info("JetStream stream created", "stream", stream.Name, "subjects", stream.Subjects)
	}

	b := &jetStreamBus{
		nc:      nc,
		js:      js,
		subject: stream.Subjects[0],
		local:   newFanout(100),
	}

	b.sub, err = js.Subscribe(b.subject, b.receive, nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}
	logger.Debug("Subscribed to JetStream", "subject", b.subject)
	return b, nil
}

func (b *jetStreamBus) receive(msg *nats.Msg) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to unmarshal event from JetStream", "error", err)
		_ = msg.Term()
		return
	}
	b.local.broadcast(event)
	_ = msg.Ack()
}

// Publish sends the event to the stream. Local subscribers get it when it
// comes back through the subscription, like every other instance.
func (b *jetStreamBus) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return
	}
	if _, err := b.js.Publish(b.subject, data); err != nil {
		logger.Error("Failed to publish to NATS", "error", err, "subject", b.subject, "event_type", event.Type)
		return
	}
	logger.Debug("Published event to NATS", "event_type", event.Type, "subject", b.subject)
}

func (b *jetStreamBus) Subscribe() chan Event { return b.local.subscribe() }

func (b *jetStreamBus) Unsubscribe(ch chan Event) { b.local.unsubscribe(ch) }

// GetSubscriberCount returns the number of active local subscribers
func (b *jetStreamBus) GetSubscriberCount() int { return b.local.count() }

func (b *jetStreamBus) close() {
	if b.sub != nil {
		_ = b.sub.Unsubscribe()
	}
	b.local.closeAll()
	if b.nc != nil {
		b.nc.Close()
	}
}

// NATSPubSub bridges UI instances through an external NATS JetStream server
type NATSPubSub struct {
	*jetStreamBus
}

// NewNATSPubSub connects to natsURL and binds the stream for subject
func NewNATSPubSub(natsURL, subject string) (*NATSPubSub, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	nc, err := nats.Connect(natsURL,
		nats.Name("scrimhub-ui"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	bus, err := newJetStreamBus(nc, &nats.StreamConfig{
		Name:     DefaultStream,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		nc.Close()
		return nil, err
	}

	logger.Info("Connected to NATS", "url", natsURL, "subject", subject)
	return &NATSPubSub{jetStreamBus: bus}, nil
}

// Close drops the subscription and the connection
func (p *NATSPubSub) Close() {
	p.close()
}

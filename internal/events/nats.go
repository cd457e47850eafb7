package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

// NATSForwarder republishes domain events to a JetStream stream.
type NATSForwarder struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	prefix string
	log    *zap.Logger
}

// NewNATSForwarder connects to url and ensures a stream covering prefix.>.
func NewNATSForwarder(ctx context.Context, url, prefix string, log *zap.Logger) (*NATSForwarder, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(10*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", url))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     "JOBBOARD_EVENTS",
		Subjects: []string{prefix + ".>"},
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create stream: %w", err)
	}

	log.Info("NATS event forwarding enabled", zap.String("url", url), zap.String("prefix", prefix))
	return &NATSForwarder{nc: nc, js: js, prefix: prefix, log: log}, nil
}

// Subject returns the subject an event type is published on.
func Subject(prefix string, eventType EventType) string {
	return prefix + "." + string(eventType)
}

// Register subscribes the forwarder to every event type. Forwarding failures
// are logged and never fail the originating request.
func (f *NATSForwarder) Register(dispatcher Dispatcher) {
	for _, eventType := range AllEventTypes {
		dispatcher.Subscribe(eventType, f.forward)
	}
}

func (f *NATSForwarder) forward(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		f.log.Error("encode event", zap.String("event_type", string(event.Type)), zap.Error(err))
		return nil
	}
	if _, err := f.js.Publish(ctx, Subject(f.prefix, event.Type), data); err != nil {
		f.log.Warn("forward event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
	return nil
}

// Close drains the connection.
func (f *NATSForwarder) Close() {
	if f != nil && f.nc != nil {
		_ = f.nc.Drain()
	}
}

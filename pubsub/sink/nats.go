package sink

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/maxpert/pubcast/cfg"
	"github.com/maxpert/pubcast/pubsub"
)

func init() {
	pubsub.RegisterBroadcaster("nats", func(config cfg.SinkConfiguration) (pubsub.Broadcaster, error) {
		if config.NatsURL == "" {
			return nil, fmt.Errorf("nats sink requires nats_url")
		}
		return NewNatsBroadcaster(config.NatsURL)
	})
}

// NatsBroadcaster implements the Broadcaster interface over core NATS
// publish. Fire-and-forget by design: delivery guarantees are out of the
// engine's scope, and subscribers only ever see the current topic stream.
type NatsBroadcaster struct {
	nc *nats.Conn
}

// NewNatsBroadcaster connects to NATS and returns a broadcaster
func NewNatsBroadcaster(url string) (*NatsBroadcaster, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NatsBroadcaster{nc: nc}, nil
}

// Broadcast publishes one resolved topic to NATS. The topic maps to the
// subject (":" becomes "." per NATS subject rules); event, channel and any
// extra args travel as headers so the payload stays exactly what the engine
// produced.
func (b *NatsBroadcaster) Broadcast(channel, topic, event string, payload []byte, args ...string) error {
	msg := &nats.Msg{
		Subject: SubjectForTopic(topic),
		Data:    payload,
		Header:  nats.Header{"event": []string{event}},
	}
	if channel != "" {
		msg.Header.Set("channel", channel)
	}
	for i, arg := range args {
		msg.Header.Add("arg-"+strconv.Itoa(i), arg)
	}

	if err := b.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", msg.Subject, err)
	}
	return nil
}

// Close releases resources held by the NatsBroadcaster
func (b *NatsBroadcaster) Close() error {
	if b.nc != nil {
		b.nc.Close()
	}
	return nil
}

// SubjectForTopic converts a topic string to a valid NATS subject. Topic
// segments are joined with ":" which NATS does not treat as a token
// separator, so segments become subject tokens.
func SubjectForTopic(topic string) string {
	return strings.ReplaceAll(topic, ":", ".")
}

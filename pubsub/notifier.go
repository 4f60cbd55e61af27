package pubsub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maxpert/pubcast/cfg"
	"github.com/maxpert/pubcast/encoding"
	"github.com/maxpert/pubcast/telemetry"
)

// NotifierConfig configures one fan-out notifier
type NotifierConfig struct {
	Rules   []Rule      // publication rules, evaluated in order
	Prefix  string      // topic prefix, may be empty
	Channel string      // named channel; non-empty switches to envelope payloads
	Format  string      // payload format: cfg.FormatJSON (default) or cfg.FormatMsgpack
	Sink    Broadcaster // destination sink
}

// Notifier expands and dispatches the publication rules of one resource
// configuration. The payload shape (raw notification vs envelope) and
// format are resolved once at construction, never per notification.
type Notifier struct {
	config   NotifierConfig
	envelope bool
	encode   func(any) ([]byte, error)
}

// NewNotifier creates a notifier, validating every rule up front so that a
// misconfigured rule fails at setup time, never at notify time.
func NewNotifier(config NotifierConfig) (*Notifier, error) {
	if config.Sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if len(config.Rules) == 0 {
		return nil, fmt.Errorf("at least one publication rule is required")
	}
	for i, rule := range config.Rules {
		if err := rule.validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}

	var encode func(any) ([]byte, error)
	switch config.Format {
	case "", cfg.FormatJSON:
		encode = json.Marshal
	case cfg.FormatMsgpack:
		encode = encoding.Marshal
	default:
		return nil, fmt.Errorf("unknown payload format: %q", config.Format)
	}

	return &Notifier{
		config:   config,
		envelope: config.Channel != "",
		encode:   encode,
	}, nil
}

// Notify runs one notification through every matching rule and broadcasts
// one message per resolved topic. Iteration is fail-fast: the first sink
// error propagates unmodified and remaining topics are not attempted. There
// is no transactionality across topics.
func (p *Notifier) Notify(n *Notification) error {
	start := time.Now()

	// Raw payloads do not vary by topic, so encode at most once.
	var raw []byte

	for _, rule := range p.config.Rules {
		if !rule.Matches(n) {
			continue
		}

		topics, err := rule.Topics(n, p.config.Prefix)
		if err != nil {
			return fmt.Errorf("rule %s: %w", rule.Filter(), err)
		}
		if len(topics) == 0 {
			// every branch pruned: addressed context absent for this event
			telemetry.RulesPrunedTotal.With(n.Resource).Inc()
			continue
		}

		event := rule.EventFor(n)
		for _, topic := range topics {
			var payload []byte
			if p.envelope {
				payload, err = p.encode(&Envelope{Topic: topic, Event: event, Payload: n})
			} else {
				if raw == nil {
					raw, err = p.encode(n)
				}
				payload = raw
			}
			if err != nil {
				return fmt.Errorf("failed to encode payload for %s: %w", topic, err)
			}

			if err := p.config.Sink.Broadcast(p.config.Channel, topic, event, payload, rule.extraArgs...); err != nil {
				telemetry.BroadcastFailuresTotal.Inc()
				return fmt.Errorf("broadcast to %s failed: %w", topic, err)
			}

			log.Debug().
				Str("resource", n.Resource).
				Str("topic", topic).
				Str("event", event).
				Msg("Broadcast notification")
			telemetry.TopicsPublishedTotal.With(n.Resource).Inc()
		}
	}

	telemetry.NotificationsTotal.With(n.Resource).Inc()
	telemetry.NotifyDurationSeconds.Observe(time.Since(start).Seconds())

	return nil
}

// Rules returns the notifier's publication rules
func (p *Notifier) Rules() []Rule {
	return p.config.Rules
}

package pubsub

import "fmt"

// ActionType classifies the kind of data change an action performs
type ActionType uint8

const (
	ActionCreate ActionType = iota
	ActionUpdate
	ActionDestroy
)

// String returns the configuration name of the action type
func (t ActionType) String() string {
	switch t {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDestroy:
		return "destroy"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ParseActionType parses the configuration name of an action type
func ParseActionType(s string) (ActionType, error) {
	switch s {
	case "create":
		return ActionCreate, nil
	case "update":
		return ActionUpdate, nil
	case "destroy":
		return ActionDestroy, nil
	default:
		return 0, fmt.Errorf("unknown action type: %q", s)
	}
}

// Action identifies the operation that produced a notification
type Action struct {
	Name string     `json:"name" msgpack:"name"`
	Type ActionType `json:"type" msgpack:"type"`
}

// Notification is the data-change event driving topic generation. It is
// produced upstream once per changed record and consumed synchronously.
//
// Data holds the record as it now exists. PreviousData holds the
// pre-change values and is only meaningful for updates; for any field a
// template references, Data and PreviousData share the same key domain.
// Tenant is empty when no multi-tenancy partition applies.
type Notification struct {
	Resource     string         `json:"resource" msgpack:"resource"`
	Action       Action         `json:"action" msgpack:"action"`
	Data         map[string]any `json:"data" msgpack:"data"`
	PreviousData map[string]any `json:"previous_data,omitempty" msgpack:"previous_data,omitempty"`
	Tenant       string         `json:"tenant,omitempty" msgpack:"tenant,omitempty"`
}

// Envelope is the structured payload shape used when a named channel
// (multiplexed transport) is configured
type Envelope struct {
	Topic   string        `json:"topic" msgpack:"topic"`
	Event   string        `json:"event" msgpack:"event"`
	Payload *Notification `json:"payload" msgpack:"payload"`
}

// Broadcaster is the outbound sink for resolved topics (e.g. NATS, Kafka).
// Channel is empty unless a named channel is configured. Delivery
// guarantees, retries and backpressure are the broadcaster's concern, not
// the engine's.
type Broadcaster interface {
	// Broadcast sends one message for one resolved topic
	Broadcast(channel, topic, event string, payload []byte, args ...string) error
	// Close releases any resources held by the broadcaster
	Close() error
}

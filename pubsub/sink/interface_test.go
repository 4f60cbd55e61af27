package sink

import "github.com/maxpert/pubcast/pubsub"

// Compile-time interface checks
var (
	_ pubsub.Broadcaster = (*NatsBroadcaster)(nil)
	_ pubsub.Broadcaster = (*KafkaBroadcaster)(nil)
	_ pubsub.Broadcaster = (*MockBroadcaster)(nil)
)

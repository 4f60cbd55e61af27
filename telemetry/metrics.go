package telemetry

// NotifyBuckets for in-process notification fan-out (no network inside the engine)
var NotifyBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05}

// Pub/sub fan-out metrics
var (
	// NotificationsTotal counts notifications processed, by resource type
	NotificationsTotal CounterVec = noopCounterVec{}

	// TopicsPublishedTotal counts topics broadcast, by resource type
	TopicsPublishedTotal CounterVec = noopCounterVec{}

	// RulesPrunedTotal counts matched rules whose expansion produced zero
	// topics (missing field or tenant), by resource type
	RulesPrunedTotal CounterVec = noopCounterVec{}

	// BroadcastFailuresTotal counts failed sink broadcasts
	BroadcastFailuresTotal Counter = NoopStat{}

	// NotifyDurationSeconds measures per-notification fan-out latency
	NotifyDurationSeconds Histogram = NoopStat{}
)

// Inbound relay metrics
var (
	// InboundMessagesTotal counts inbound notification messages by result
	// (ok, decode_failed, notify_failed)
	InboundMessagesTotal CounterVec = noopCounterVec{}
)

func initMetrics() {
	NotificationsTotal = NewCounterVec(
		"notifications_total",
		"Notifications processed by the fan-out engine",
		[]string{"resource"})

	TopicsPublishedTotal = NewCounterVec(
		"topics_published_total",
		"Topics broadcast to the sink",
		[]string{"resource"})

	RulesPrunedTotal = NewCounterVec(
		"rules_pruned_total",
		"Matched rules whose expansion produced zero topics",
		[]string{"resource"})

	BroadcastFailuresTotal = NewCounter(
		"broadcast_failures_total",
		"Failed sink broadcast attempts")

	NotifyDurationSeconds = NewHistogram(
		"notify_duration_seconds",
		"Per-notification fan-out latency",
		NotifyBuckets)

	InboundMessagesTotal = NewCounterVec(
		"inbound_messages_total",
		"Inbound notification messages by result",
		[]string{"result"})
}

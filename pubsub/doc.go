// Package pubsub implements the rule-driven topic fan-out engine for
// pubcast.
//
// Given a Notification describing a data change (which resource, which
// action, before/after values, optional tenant) and a set of publication
// rules, the engine decides which rules apply and computes every concrete
// topic string the event must be broadcast on.
//
// # Architecture
//
// The package consists of four layers:
//
// 1. Templates: a closed node variant (Literal, Field, Tenant, Skip, Any)
// describing the shape of the topics a rule produces
// 2. Rules: an action filter (exact name or action type) bound to a
// template, with optional event override and extra broadcast args
// 3. Notifier: expands and renders matching rules for one notification and
// dispatches one broadcast per deduplicated topic
// 4. Registry: routes notifications to notifiers by resource-type glob
// pattern and manages the sink lifecycle
//
// # Topic expansion
//
// A template is an ordered node sequence. Expansion is a depth-first
// Cartesian product over node positions:
//
//   - Literal contributes its string, one branch
//   - Field resolves against the notification data; on updates both the
//     before and the after value become branches (before first, deduplicated)
//   - Tenant resolves to the notification tenant
//   - Skip occupies a position but renders to nothing
//   - Any substitutes each alternative node in place and unions the results
//
// A Field or Tenant node with no value prunes its whole branch: no topic is
// generated through it. This is deliberate, not an error - a topic
// addressing a context that does not exist for this event is simply never
// published. Skip is different: the branch survives and the segment is
// omitted from the rendered topic.
//
// Example, for an update of record 50 in tenant "org_1" with team_id 1:
//
//	template: [[:team_id, :_tenant], "updated", [:id, :_skip]]
//	topics:   1:updated:50  1:updated  org_1:updated:50  org_1:updated
//
// # Dispatch
//
// For every rendered topic the notifier invokes the configured Broadcaster
// exactly once with the event name (rule override or action name) and the
// encoded payload. When a named channel is configured the payload is a
// {topic, event, payload} envelope; otherwise the raw notification is
// forwarded. The shape is fixed at construction time. Sink errors propagate
// to the caller unmodified; the engine never retries and never buffers.
//
// # Thread Safety
//
// Rules and templates are immutable after construction and safe to share.
// The engine holds no mutable per-notification state, so a Notifier may
// process notifications from multiple goroutines concurrently. The Registry
// protects its entry list with a mutex and caches resource resolution in a
// concurrent map.
package pubsub

package pubsub

import (
	"fmt"

	"github.com/maxpert/pubcast/cfg"
)

type filterKind uint8

const (
	filterByName filterKind = iota
	filterByType
)

// Rule is one configured mapping from an action to a topic template. Rules
// are built once at configuration-load time and are immutable thereafter.
type Rule struct {
	kind       filterKind
	actionName string
	actionType ActionType
	template   Template
	event      string
	extraArgs  []string
}

// Publish builds a rule matching one action by exact name
func Publish(action string, template Template) Rule {
	return Rule{kind: filterByName, actionName: action, template: template}
}

// PublishAll builds a rule matching every action of the given type
func PublishAll(actionType ActionType, template Template) Rule {
	return Rule{kind: filterByType, actionType: actionType, template: template}
}

// WithEvent overrides the broadcast event name, which otherwise defaults to
// the action name
func (r Rule) WithEvent(event string) Rule {
	r.event = event
	return r
}

// WithExtraArgs sets extra positional arguments forwarded to the
// broadcaster on every dispatch of this rule
func (r Rule) WithExtraArgs(args ...string) Rule {
	r.extraArgs = args
	return r
}

// CompileRule builds a rule from its configuration declaration. All
// structural errors (missing filter, both filters set, bad action type,
// malformed template) surface here at load time, never at notify time.
func CompileRule(config cfg.PublicationConfiguration) (Rule, error) {
	if config.Action == "" && config.Type == "" {
		return Rule{}, fmt.Errorf("publication requires an action name or an action type")
	}
	if config.Action != "" && config.Type != "" {
		return Rule{}, fmt.Errorf("publication cannot filter by both action name %q and type %q", config.Action, config.Type)
	}

	template, err := ParseTemplate(config.Topic)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid topic template: %w", err)
	}

	var rule Rule
	if config.Action != "" {
		rule = Publish(config.Action, template)
	} else {
		actionType, err := ParseActionType(config.Type)
		if err != nil {
			return Rule{}, err
		}
		rule = PublishAll(actionType, template)
	}

	if config.Event != "" {
		rule = rule.WithEvent(config.Event)
	}
	if len(config.ExtraArgs) > 0 {
		rule = rule.WithExtraArgs(config.ExtraArgs...)
	}
	return rule, nil
}

// Matches reports whether this rule applies to the notification. Name
// filters compare the action name, type filters the action type. A
// name-filtered and a type-filtered rule that both apply fire
// independently; there is no precedence between them.
func (r Rule) Matches(n *Notification) bool {
	if r.kind == filterByName {
		return r.actionName == n.Action.Name
	}
	return r.actionType == n.Action.Type
}

// EventFor returns the broadcast event name for a notification dispatched
// through this rule
func (r Rule) EventFor(n *Notification) string {
	if r.event != "" {
		return r.event
	}
	return n.Action.Name
}

// Topics computes the deduplicated set of topic strings this rule resolves
// to for one notification. Single-literal templates bypass the expansion
// machinery. A zero-length result means every branch was pruned.
func (r Rule) Topics(n *Notification, prefix string) ([]string, error) {
	if literal, ok := r.template.literal(); ok {
		return []string{joinPrefix(prefix, literal)}, nil
	}

	sequences, err := expand(r.template, n)
	if err != nil {
		return nil, err
	}
	return renderTopics(sequences, prefix), nil
}

// validate rejects structurally invalid rules before any notification flows
// through them
func (r Rule) validate() error {
	if r.kind == filterByName && r.actionName == "" {
		return fmt.Errorf("rule action name is required")
	}
	return r.template.Validate()
}

// Filter describes the rule's action filter for logs and introspection
func (r Rule) Filter() string {
	if r.kind == filterByName {
		return r.actionName
	}
	return "type:" + r.actionType.String()
}

// TemplateSource renders the rule's template in source form
func (r Rule) TemplateSource() string {
	return r.template.String()
}

package pubsub

import (
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog/log"

	"github.com/maxpert/pubcast/cfg"
)

// RegistryConfig configures the fan-out registry
type RegistryConfig struct {
	Sink      Broadcaster                 // shared outbound sink
	Prefix    string                      // topic prefix for every notifier
	Channel   string                      // named channel, see NotifierConfig
	Format    string                      // payload format
	Resources []cfg.ResourceConfiguration // from config
}

type registryEntry struct {
	filter   *ResourceFilter
	notifier *Notifier
}

// Registry routes notifications to the notifiers whose resource patterns
// match, and owns the sink lifecycle. Resolution of resource type to
// notifier list is cached per resource type; the cache is invalidated when
// a resource configuration is added.
type Registry struct {
	mu       sync.Mutex
	entries  []*registryEntry
	sink     Broadcaster
	config   RegistryConfig
	resolved *xsync.MapOf[string, []*Notifier]
}

// NewRegistry creates a registry with one notifier per configured resource
// block. On error every partially built state is discarded and the sink is
// left open for the caller to close.
func NewRegistry(config RegistryConfig) (*Registry, error) {
	if config.Sink == nil {
		return nil, fmt.Errorf("sink is required")
	}

	registry := &Registry{
		entries:  make([]*registryEntry, 0, len(config.Resources)),
		sink:     config.Sink,
		config:   config,
		resolved: xsync.NewMapOf[string, []*Notifier](),
	}

	for i, resource := range config.Resources {
		if err := registry.AddResource(resource); err != nil {
			return nil, fmt.Errorf("resource block %d: %w", i, err)
		}
	}

	log.Info().
		Int("resources", len(registry.entries)).
		Msg("Fan-out registry initialized")

	return registry, nil
}

// AddResource compiles and registers one resource configuration
func (r *Registry) AddResource(config cfg.ResourceConfiguration) error {
	filter, err := NewResourceFilter(config.Resources...)
	if err != nil {
		return err
	}

	rules := make([]Rule, 0, len(config.Publications))
	for i, publication := range config.Publications {
		rule, err := CompileRule(publication)
		if err != nil {
			return fmt.Errorf("publication %d: %w", i, err)
		}
		rules = append(rules, rule)
	}

	notifier, err := NewNotifier(NotifierConfig{
		Rules:   rules,
		Prefix:  r.config.Prefix,
		Channel: r.config.Channel,
		Format:  r.config.Format,
		Sink:    r.sink,
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.entries = append(r.entries, &registryEntry{filter: filter, notifier: notifier})
	r.mu.Unlock()

	// New patterns may widen existing resolutions
	r.resolved.Clear()

	log.Info().
		Strs("resources", config.Resources).
		Int("rules", len(rules)).
		Msg("Registered resource publications")

	return nil
}

// Notify routes one notification to every notifier whose resource pattern
// matches its resource type. Fail-fast: the first notifier error stops the
// iteration.
func (r *Registry) Notify(n *Notification) error {
	notifiers, _ := r.resolved.LoadOrCompute(n.Resource, func() []*Notifier {
		return r.resolve(n.Resource)
	})

	for _, notifier := range notifiers {
		if err := notifier.Notify(n); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) resolve(resource string) []*Notifier {
	r.mu.Lock()
	defer r.mu.Unlock()

	var notifiers []*Notifier
	for _, entry := range r.entries {
		if entry.filter.Match(resource) {
			notifiers = append(notifiers, entry.notifier)
		}
	}
	return notifiers
}

// RuleInfo describes one compiled rule for introspection
type RuleInfo struct {
	Resources []string `json:"resources"`
	Filter    string   `json:"filter"`
	Template  string   `json:"template"`
	Event     string   `json:"event,omitempty"`
}

// Rules returns every compiled rule across all resource configurations
func (r *Registry) Rules() []RuleInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	var infos []RuleInfo
	for _, entry := range r.entries {
		for _, rule := range entry.notifier.Rules() {
			infos = append(infos, RuleInfo{
				Resources: entry.filter.Patterns(),
				Filter:    rule.Filter(),
				Template:  rule.TemplateSource(),
				Event:     rule.event,
			})
		}
	}
	return infos
}

// Close closes the shared sink
func (r *Registry) Close() error {
	return r.sink.Close()
}

// BroadcasterFactory creates a Broadcaster from a sink configuration
type BroadcasterFactory func(cfg.SinkConfiguration) (Broadcaster, error)

var (
	factoryMu            sync.RWMutex
	broadcasterFactories = make(map[string]BroadcasterFactory)
)

// RegisterBroadcaster registers a broadcaster factory for a sink type
func RegisterBroadcaster(sinkType string, factory BroadcasterFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	broadcasterFactories[sinkType] = factory
}

// NewBroadcaster creates a broadcaster from the sink configuration
func NewBroadcaster(config cfg.SinkConfiguration) (Broadcaster, error) {
	factoryMu.RLock()
	factory, exists := broadcasterFactories[config.Type]
	factoryMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown sink type: %s", config.Type)
	}
	return factory(config)
}

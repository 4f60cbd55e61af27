package cfg

import (
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

// Payload formats supported for sink payloads and inbound notifications
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// LoggingConfiguration controls logging behavior
type LoggingConfiguration struct {
	Verbose bool   `toml:"verbose"`
	Format  string `toml:"format"` // "console" or "json"
}

// AdminConfiguration for the ops HTTP endpoint (health, rules, metrics)
type AdminConfiguration struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
	Port    int    `toml:"port"`
}

// PrometheusConfiguration for metrics
type PrometheusConfiguration struct {
	Enabled bool `toml:"enabled"`
}

// InboundConfiguration controls the inbound notification subscription
type InboundConfiguration struct {
	NatsURL string `toml:"nats_url"`
	Subject string `toml:"subject"`
	Queue   string `toml:"queue"`  // optional queue group for load-balanced relays
	Format  string `toml:"format"` // "json" or "msgpack"
}

// SinkConfiguration selects and configures the outbound broadcast sink
type SinkConfiguration struct {
	Type    string   `toml:"type"`     // "nats" or "kafka"
	NatsURL string   `toml:"nats_url"` // for nats sinks
	Brokers []string `toml:"brokers"`  // for kafka sinks
}

// PublicationConfiguration declares one publication rule for a resource.
// Exactly one of Action (exact action name) or Type (action type) must be
// set. Topic is the template in source form: strings are literal segments,
// ":name" strings reference notification fields, ":_tenant" and ":_skip"
// are the tenant and skip placeholders, and nested arrays list alternatives.
type PublicationConfiguration struct {
	Action    string   `toml:"action"`
	Type      string   `toml:"type"`
	Topic     []any    `toml:"topic"`
	Event     string   `toml:"event"`
	ExtraArgs []string `toml:"extra_args"`
}

// ResourceConfiguration binds a set of publication rules to resource types.
// Resources are glob patterns matched against the notification resource type.
type ResourceConfiguration struct {
	Resources    []string                   `toml:"resources"`
	Publications []PublicationConfiguration `toml:"publish"`
}

// PubSubConfiguration controls topic generation and dispatch
type PubSubConfiguration struct {
	Prefix    string                  `toml:"prefix"`  // prepended to every generated topic
	Channel   string                  `toml:"channel"` // named channel; non-empty enables envelope payloads
	Format    string                  `toml:"format"`  // payload format: "json" or "msgpack"
	Resources []ResourceConfiguration `toml:"resource"`
}

// Configuration is the main configuration structure
type Configuration struct {
	Logging    LoggingConfiguration    `toml:"logging"`
	Admin      AdminConfiguration      `toml:"admin"`
	Prometheus PrometheusConfiguration `toml:"prometheus"`
	Inbound    InboundConfiguration    `toml:"inbound"`
	Sink       SinkConfiguration       `toml:"sink"`
	PubSub     PubSubConfiguration     `toml:"pubsub"`
}

// Command line flags
var (
	ConfigPathFlag = flag.String("config", "config.toml", "Path to configuration file")
	VerboseFlag    = flag.Bool("verbose", false, "Enable debug logging (overrides config)")
)

// Default configuration
var Config = &Configuration{
	Logging: LoggingConfiguration{
		Verbose: false,
		Format:  "console",
	},

	Admin: AdminConfiguration{
		Enabled: true,
		Address: "0.0.0.0",
		Port:    8090,
	},

	Prometheus: PrometheusConfiguration{
		Enabled: true,
	},

	Inbound: InboundConfiguration{
		NatsURL: "nats://localhost:4222",
		Subject: "pubcast.notifications",
		Format:  FormatJSON,
	},

	Sink: SinkConfiguration{
		Type:    "nats",
		NatsURL: "nats://localhost:4222",
	},

	PubSub: PubSubConfiguration{
		Format: FormatJSON,
	},
}

// Load loads configuration from file and applies CLI overrides
func Load(configPath string) error {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			log.Info().Str("path", configPath).Msg("Loading configuration")
			if _, err := toml.DecodeFile(configPath, Config); err != nil {
				return fmt.Errorf("failed to decode config: %w", err)
			}
		} else {
			log.Warn().Str("path", configPath).Msg("Config file not found, using defaults")
		}
	}

	if *VerboseFlag {
		Config.Logging.Verbose = true
	}

	return nil
}

// Validate checks configuration for errors
func Validate() error {
	if Config.Admin.Enabled && (Config.Admin.Port < 1 || Config.Admin.Port > 65535) {
		return fmt.Errorf("invalid admin port: %d", Config.Admin.Port)
	}

	if err := validateFormat(Config.Inbound.Format); err != nil {
		return fmt.Errorf("inbound: %w", err)
	}
	if err := validateFormat(Config.PubSub.Format); err != nil {
		return fmt.Errorf("pubsub: %w", err)
	}

	if Config.Inbound.Subject == "" {
		return fmt.Errorf("inbound subject is required")
	}
	if Config.Inbound.NatsURL == "" {
		return fmt.Errorf("inbound nats_url is required")
	}

	if Config.Sink.Type == "" {
		return fmt.Errorf("sink type is required")
	}

	for i, resource := range Config.PubSub.Resources {
		if len(resource.Resources) == 0 {
			return fmt.Errorf("resource block %d: at least one resource pattern is required", i)
		}
		if len(resource.Publications) == 0 {
			return fmt.Errorf("resource block %d: at least one publication is required", i)
		}
	}

	return nil
}

func validateFormat(format string) error {
	switch format {
	case FormatJSON, FormatMsgpack:
		return nil
	default:
		return fmt.Errorf("unknown payload format: %q", format)
	}
}

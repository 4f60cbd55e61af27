package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/maxpert/pubcast/admin"
	"github.com/maxpert/pubcast/cfg"
	"github.com/maxpert/pubcast/encoding"
	"github.com/maxpert/pubcast/pubsub"
	_ "github.com/maxpert/pubcast/pubsub/sink" // register broadcaster factories
	"github.com/maxpert/pubcast/telemetry"
)

func main() {
	flag.Parse()

	// Load configuration
	err := cfg.Load(*cfg.ConfigPathFlag)
	if err != nil {
		panic(err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	// Setup logging
	var writer io.Writer = zerolog.NewConsoleWriter()
	if cfg.Config.Logging.Format == "json" {
		writer = os.Stdout
	}
	gLog := zerolog.New(writer).
		With().
		Timestamp().
		Logger()

	if cfg.Config.Logging.Verbose {
		log.Logger = gLog.Level(zerolog.DebugLevel)
	} else {
		log.Logger = gLog.Level(zerolog.InfoLevel)
	}

	log.Info().Msg("Pubcast - rule-driven pub/sub topic fan-out")
	log.Debug().Msg("Initializing telemetry")
	telemetry.InitializeTelemetry()

	// Outbound sink
	log.Info().Str("type", cfg.Config.Sink.Type).Msg("Creating broadcast sink")
	sink, err := pubsub.NewBroadcaster(cfg.Config.Sink)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create broadcast sink")
		return
	}

	// Compile publication rules into the fan-out registry
	registry, err := pubsub.NewRegistry(pubsub.RegistryConfig{
		Sink:      sink,
		Prefix:    cfg.Config.PubSub.Prefix,
		Channel:   cfg.Config.PubSub.Channel,
		Format:    cfg.Config.PubSub.Format,
		Resources: cfg.Config.PubSub.Resources,
	})
	if err != nil {
		sink.Close()
		log.Fatal().Err(err).Msg("Failed to build fan-out registry")
		return
	}
	defer registry.Close()

	// Ops endpoint
	var adminServer interface {
		Shutdown(context.Context) error
	}
	if cfg.Config.Admin.Enabled {
		adminServer = admin.StartServer(cfg.Config.Admin.Address, cfg.Config.Admin.Port, registry)
	}

	// Inbound notification subscription
	nc, err := nats.Connect(cfg.Config.Inbound.NatsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to inbound NATS")
		return
	}
	defer nc.Close()

	decode := decoderFor(cfg.Config.Inbound.Format)
	handler := func(msg *nats.Msg) {
		var notification pubsub.Notification
		if err := decode(msg.Data, &notification); err != nil {
			telemetry.InboundMessagesTotal.With("decode_failed").Inc()
			log.Warn().Err(err).Str("subject", msg.Subject).Msg("Failed to decode inbound notification")
			return
		}

		if err := registry.Notify(&notification); err != nil {
			telemetry.InboundMessagesTotal.With("notify_failed").Inc()
			log.Error().
				Err(err).
				Str("resource", notification.Resource).
				Str("action", notification.Action.Name).
				Msg("Failed to fan out notification")
			return
		}
		telemetry.InboundMessagesTotal.With("ok").Inc()
	}

	var sub *nats.Subscription
	if cfg.Config.Inbound.Queue != "" {
		sub, err = nc.QueueSubscribe(cfg.Config.Inbound.Subject, cfg.Config.Inbound.Queue, handler)
	} else {
		sub, err = nc.Subscribe(cfg.Config.Inbound.Subject, handler)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to subscribe to inbound subject")
		return
	}
	log.Info().
		Str("subject", cfg.Config.Inbound.Subject).
		Str("queue", cfg.Config.Inbound.Queue).
		Msg("Subscribed to inbound notifications")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	if err := sub.Drain(); err != nil {
		log.Warn().Err(err).Msg("Failed to drain inbound subscription")
	}

	if adminServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := adminServer.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Admin server shutdown failed")
		}
		cancel()
	}
}

func decoderFor(format string) func([]byte, any) error {
	if format == cfg.FormatMsgpack {
		return encoding.Unmarshal
	}
	return func(data []byte, v any) error {
		return json.Unmarshal(data, v)
	}
}

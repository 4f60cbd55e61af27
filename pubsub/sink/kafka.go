package sink

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/maxpert/pubcast/cfg"
	"github.com/maxpert/pubcast/pubsub"
)

const (
	DefaultKafkaBatchSize  = 100
	DefaultKafkaBatchBytes = 1 << 20 // 1MB
)

func init() {
	pubsub.RegisterBroadcaster("kafka", func(config cfg.SinkConfiguration) (pubsub.Broadcaster, error) {
		return NewKafkaBroadcaster(DefaultKafkaConfig(config.Brokers))
	})
}

// KafkaBroadcaster implements the Broadcaster interface for Kafka
type KafkaBroadcaster struct {
	writer *kafka.Writer
}

// KafkaConfig holds configuration for KafkaBroadcaster
type KafkaConfig struct {
	Brokers          []string           // Kafka broker addresses
	BatchSize        int                // Batch size for writes (default: 100)
	BatchBytes       int64              // Max batch bytes (default: 1MB)
	RequiredAcks     kafka.RequiredAcks // Ack requirement (default: RequireAll)
	AutoCreateTopics bool               // Auto-create topics if they don't exist (default: true)
}

// DefaultKafkaConfig returns a KafkaConfig with sensible defaults
func DefaultKafkaConfig(brokers []string) KafkaConfig {
	return KafkaConfig{
		Brokers:          brokers,
		BatchSize:        DefaultKafkaBatchSize,
		BatchBytes:       DefaultKafkaBatchBytes,
		RequiredAcks:     kafka.RequireAll,
		AutoCreateTopics: true,
	}
}

// NewKafkaBroadcaster creates a new KafkaBroadcaster with the given configuration
func NewKafkaBroadcaster(config KafkaConfig) (*KafkaBroadcaster, error) {
	if len(config.Brokers) == 0 {
		return nil, fmt.Errorf("kafka sink requires at least one broker address")
	}

	if config.BatchSize == 0 {
		config.BatchSize = DefaultKafkaBatchSize
	}
	if config.BatchBytes == 0 {
		config.BatchBytes = DefaultKafkaBatchBytes
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(config.Brokers...),
		Balancer:               &kafka.Hash{}, // Partition by key for per-topic ordering
		BatchSize:              config.BatchSize,
		BatchBytes:             config.BatchBytes,
		RequiredAcks:           config.RequiredAcks,
		Async:                  false, // Sync writes so sink errors propagate to Notify
		AllowAutoTopicCreation: config.AutoCreateTopics,
	}

	return &KafkaBroadcaster{writer: writer}, nil
}

// Broadcast publishes one resolved topic to Kafka. The resolved topic
// string is the partition key, so all events for one topic land on one
// partition in order; the Kafka topic name is the sanitized topic (":" is
// not a legal Kafka topic character).
//
// Uses context.Background() because the engine is synchronous and fail-fast;
// the caller decides what to do with a failed broadcast.
func (k *KafkaBroadcaster) Broadcast(channel, topic, event string, payload []byte, args ...string) error {
	headers := make([]kafka.Header, 0, len(args)+2)
	headers = append(headers, kafka.Header{Key: "event", Value: []byte(event)})
	if channel != "" {
		headers = append(headers, kafka.Header{Key: "channel", Value: []byte(channel)})
	}
	for i, arg := range args {
		headers = append(headers, kafka.Header{Key: "arg-" + strconv.Itoa(i), Value: []byte(arg)})
	}

	msg := kafka.Message{
		Topic:   KafkaTopicFor(topic),
		Key:     []byte(topic),
		Value:   payload,
		Headers: headers,
	}

	return k.writer.WriteMessages(context.Background(), msg)
}

// Close releases resources held by the KafkaBroadcaster
func (k *KafkaBroadcaster) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}

// KafkaTopicFor converts a resolved topic string to a legal Kafka topic name
func KafkaTopicFor(topic string) string {
	return strings.ReplaceAll(topic, ":", ".")
}

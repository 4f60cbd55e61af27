package cfg

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[logging]
verbose = true
format = "json"

[sink]
type = "kafka"
brokers = ["localhost:9092"]

[inbound]
nats_url = "nats://localhost:4222"
subject = "app.notifications"
format = "msgpack"

[pubsub]
prefix = "post"
channel = "mux"
format = "msgpack"

[[pubsub.resource]]
resources = ["post", "draft_*"]

[[pubsub.resource.publish]]
action = "archive"
topic = ["archived", ":id"]
event = "record_archived"
extra_args = ["priority"]

[[pubsub.resource.publish]]
type = "update"
topic = [[":team_id", ":_tenant"], "updated", [":id", ":_skip"]]
`

func decodeConfig(t *testing.T, body string) *Configuration {
	t.Helper()
	config := &Configuration{}
	_, err := toml.Decode(body, config)
	require.NoError(t, err)
	return config
}

func TestDecodeConfiguration(t *testing.T) {
	config := decodeConfig(t, sampleConfig)

	assert.True(t, config.Logging.Verbose)
	assert.Equal(t, "json", config.Logging.Format)

	assert.Equal(t, "kafka", config.Sink.Type)
	assert.Equal(t, []string{"localhost:9092"}, config.Sink.Brokers)

	assert.Equal(t, "app.notifications", config.Inbound.Subject)
	assert.Equal(t, FormatMsgpack, config.Inbound.Format)

	assert.Equal(t, "post", config.PubSub.Prefix)
	assert.Equal(t, "mux", config.PubSub.Channel)

	require.Len(t, config.PubSub.Resources, 1)
	resource := config.PubSub.Resources[0]
	assert.Equal(t, []string{"post", "draft_*"}, resource.Resources)
	require.Len(t, resource.Publications, 2)

	archive := resource.Publications[0]
	assert.Equal(t, "archive", archive.Action)
	assert.Equal(t, []any{"archived", ":id"}, archive.Topic)
	assert.Equal(t, "record_archived", archive.Event)
	assert.Equal(t, []string{"priority"}, archive.ExtraArgs)
}

func TestDecodeNestedTemplateArrays(t *testing.T) {
	config := decodeConfig(t, sampleConfig)

	topic := config.PubSub.Resources[0].Publications[1].Topic
	require.Len(t, topic, 3)

	first, ok := topic[0].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{":team_id", ":_tenant"}, first)

	assert.Equal(t, "updated", topic[1])

	last, ok := topic[2].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{":id", ":_skip"}, last)
}

func withConfig(t *testing.T, mutate func(*Configuration)) func() {
	t.Helper()
	saved := *Config
	mutate(Config)
	return func() { *Config = saved }
}

func TestValidateDefaults(t *testing.T) {
	defer withConfig(t, func(c *Configuration) {})()
	assert.NoError(t, Validate())
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Configuration)
		want   string
	}{
		{"bad admin port", func(c *Configuration) { c.Admin.Port = 0 }, "invalid admin port"},
		{"bad inbound format", func(c *Configuration) { c.Inbound.Format = "xml" }, "unknown payload format"},
		{"bad pubsub format", func(c *Configuration) { c.PubSub.Format = "yaml" }, "unknown payload format"},
		{"missing subject", func(c *Configuration) { c.Inbound.Subject = "" }, "subject is required"},
		{"missing inbound url", func(c *Configuration) { c.Inbound.NatsURL = "" }, "nats_url is required"},
		{"missing sink type", func(c *Configuration) { c.Sink.Type = "" }, "sink type is required"},
		{
			"resource without patterns",
			func(c *Configuration) {
				c.PubSub.Resources = []ResourceConfiguration{{
					Publications: []PublicationConfiguration{{Action: "a", Topic: []any{"x"}}},
				}}
			},
			"at least one resource pattern",
		},
		{
			"resource without publications",
			func(c *Configuration) {
				c.PubSub.Resources = []ResourceConfiguration{{Resources: []string{"post"}}}
			},
			"at least one publication",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			restore := withConfig(t, tc.mutate)
			defer restore()

			err := Validate()
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

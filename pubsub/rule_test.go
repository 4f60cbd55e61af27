package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpert/pubcast/cfg"
)

func TestRuleMatchesByName(t *testing.T) {
	rule := Publish("archive", Template{Literal("archived")})

	archived := &Notification{Action: Action{Name: "archive", Type: ActionUpdate}}
	assert.True(t, rule.Matches(archived))

	// Same type, different name: no match
	renamed := &Notification{Action: Action{Name: "rename", Type: ActionUpdate}}
	assert.False(t, rule.Matches(renamed))
}

func TestRuleMatchesByType(t *testing.T) {
	rule := PublishAll(ActionUpdate, Template{Literal("changed")})

	// Any action of the filtered type matches, regardless of name
	assert.True(t, rule.Matches(&Notification{Action: Action{Name: "archive", Type: ActionUpdate}}))
	assert.True(t, rule.Matches(&Notification{Action: Action{Name: "rename", Type: ActionUpdate}}))

	assert.False(t, rule.Matches(&Notification{Action: Action{Name: "archive", Type: ActionCreate}}))
}

func TestNameAndTypeRulesFireIndependently(t *testing.T) {
	// An exact-name rule and a type-level rule that both apply are both
	// dispatched; there is no precedence between them
	byName := Publish("archive", Template{Literal("archived")})
	byType := PublishAll(ActionUpdate, Template{Literal("changed")})
	n := &Notification{Action: Action{Name: "archive", Type: ActionUpdate}}

	assert.True(t, byName.Matches(n))
	assert.True(t, byType.Matches(n))
}

func TestRuleEventFor(t *testing.T) {
	n := &Notification{Action: Action{Name: "archive", Type: ActionUpdate}}

	plain := Publish("archive", Template{Literal("archived")})
	assert.Equal(t, "archive", plain.EventFor(n))

	overridden := plain.WithEvent("record_archived")
	assert.Equal(t, "record_archived", overridden.EventFor(n))
}

func TestRuleTopicsLiteralFastPath(t *testing.T) {
	rule := Publish("create", Template{Literal("created")})
	n := &Notification{Action: Action{Name: "create", Type: ActionCreate}}

	topics, err := rule.Topics(n, "post")
	require.NoError(t, err)
	assert.Equal(t, []string{"post:created"}, topics)

	topics, err = rule.Topics(n, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"created"}, topics)
}

func TestRuleTopicsExpansion(t *testing.T) {
	rule := Publish("create", Template{Literal("foo"), Field("id")})
	n := &Notification{
		Action: Action{Name: "create", Type: ActionCreate},
		Data:   map[string]any{"id": 50},
	}

	topics, err := rule.Topics(n, "post")
	require.NoError(t, err)
	assert.Equal(t, []string{"post:foo:50"}, topics)
}

func TestCompileRule(t *testing.T) {
	rule, err := CompileRule(cfg.PublicationConfiguration{
		Action: "archive",
		Topic:  []any{"archived", ":id"},
		Event:  "record_archived",
	})
	require.NoError(t, err)

	assert.Equal(t, "archive", rule.Filter())
	assert.Equal(t, "[archived, :id]", rule.TemplateSource())

	n := &Notification{Action: Action{Name: "archive", Type: ActionUpdate}}
	assert.True(t, rule.Matches(n))
	assert.Equal(t, "record_archived", rule.EventFor(n))
}

func TestCompileRuleByType(t *testing.T) {
	rule, err := CompileRule(cfg.PublicationConfiguration{
		Type:  "update",
		Topic: []any{"changed"},
	})
	require.NoError(t, err)

	assert.Equal(t, "type:update", rule.Filter())
	assert.True(t, rule.Matches(&Notification{Action: Action{Name: "anything", Type: ActionUpdate}}))
}

func TestCompileRuleErrors(t *testing.T) {
	tests := []struct {
		name   string
		config cfg.PublicationConfiguration
	}{
		{"neither action nor type", cfg.PublicationConfiguration{Topic: []any{"x"}}},
		{"both action and type", cfg.PublicationConfiguration{Action: "a", Type: "update", Topic: []any{"x"}}},
		{"unknown action type", cfg.PublicationConfiguration{Type: "upsert", Topic: []any{"x"}}},
		{"empty template", cfg.PublicationConfiguration{Action: "a"}},
		{"malformed template", cfg.PublicationConfiguration{Action: "a", Topic: []any{42}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CompileRule(tc.config)
			assert.Error(t, err)
		})
	}
}

func TestParseActionType(t *testing.T) {
	for name, expected := range map[string]ActionType{
		"create":  ActionCreate,
		"update":  ActionUpdate,
		"destroy": ActionDestroy,
	} {
		actual, err := ParseActionType(name)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		assert.Equal(t, name, actual.String())
	}

	_, err := ParseActionType("upsert")
	assert.Error(t, err)
}

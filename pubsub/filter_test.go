package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResourceFilter(t *testing.T) {
	filter, err := NewResourceFilter("post", "comment")
	require.NoError(t, err)
	require.NotNil(t, filter)

	assert.Equal(t, []string{"post", "comment"}, filter.Patterns())
}

func TestResourceFilterEmptyMatchesAll(t *testing.T) {
	filter, err := NewResourceFilter()
	require.NoError(t, err)

	assert.True(t, filter.Match("post"))
	assert.True(t, filter.Match("anything"))
	assert.True(t, filter.Match(""))
}

func TestResourceFilterExactMatch(t *testing.T) {
	filter, err := NewResourceFilter("post")
	require.NoError(t, err)

	assert.True(t, filter.Match("post"))
	assert.False(t, filter.Match("comment"))
	assert.False(t, filter.Match("posts"))
}

func TestResourceFilterWildcard(t *testing.T) {
	filter, err := NewResourceFilter("audit_*", "user")
	require.NoError(t, err)

	assert.True(t, filter.Match("audit_log"))
	assert.True(t, filter.Match("audit_event"))
	assert.True(t, filter.Match("user"))
	assert.False(t, filter.Match("users"))
	assert.False(t, filter.Match("audit"))
}

func TestResourceFilterInvalidPattern(t *testing.T) {
	_, err := NewResourceFilter("post[")
	assert.Error(t, err)
}

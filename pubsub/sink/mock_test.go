package sink

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockBroadcasterRecordsMessages(t *testing.T) {
	mock := &MockBroadcaster{}

	require.NoError(t, mock.Broadcast("mux", "post:created", "create", []byte("{}"), "extra"))
	require.NoError(t, mock.Broadcast("", "post:updated", "update", nil))

	require.Len(t, mock.Messages, 2)
	assert.Equal(t, "mux", mock.Messages[0].Channel)
	assert.Equal(t, []string{"extra"}, mock.Messages[0].Args)
	assert.Equal(t, []string{"post:created", "post:updated"}, mock.Topics())

	mock.Reset()
	assert.Empty(t, mock.Messages)
}

func TestMockBroadcasterError(t *testing.T) {
	mockErr := errors.New("down")
	mock := &MockBroadcaster{BroadcastErr: mockErr}

	assert.ErrorIs(t, mock.Broadcast("", "t", "e", nil), mockErr)
	assert.Empty(t, mock.Messages)
}

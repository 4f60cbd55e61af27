package sink

import "sync"

// MockBroadcaster is a mock implementation of pubsub.Broadcaster for testing
type MockBroadcaster struct {
	Messages     []MockMessage
	BroadcastErr error
	mu           sync.Mutex
}

// MockMessage records one broadcast for later inspection in tests
type MockMessage struct {
	Channel string
	Topic   string
	Event   string
	Payload []byte
	Args    []string
}

// Broadcast records a message for later inspection in tests
func (m *MockBroadcaster) Broadcast(channel, topic, event string, payload []byte, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.BroadcastErr != nil {
		return m.BroadcastErr
	}

	m.Messages = append(m.Messages, MockMessage{
		Channel: channel,
		Topic:   topic,
		Event:   event,
		Payload: payload,
		Args:    args,
	})

	return nil
}

// Close is a no-op for MockBroadcaster
func (m *MockBroadcaster) Close() error {
	return nil
}

// Topics returns the topics of all recorded messages, in broadcast order
func (m *MockBroadcaster) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	topics := make([]string, len(m.Messages))
	for i, msg := range m.Messages {
		topics[i] = msg.Topic
	}
	return topics
}

// Reset clears all recorded messages
func (m *MockBroadcaster) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = nil
}

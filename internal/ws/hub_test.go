package ws

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentEvent struct {
	event   string
	payload any
}

// fakeClient stands in for a live connection in hub and handler tests.
type fakeClient struct {
	id       string
	userID   int64
	username string

	mu      sync.Mutex
	events  []sentEvent
	sendErr error
	closed  bool
}

func (f *fakeClient) ID() string       { return f.id }
func (f *fakeClient) UserID() int64    { return f.userID }
func (f *fakeClient) Username() string { return f.username }

func (f *fakeClient) Send(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.events = append(f.events, sentEvent{event: event, payload: payload})
	return nil
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeClient) received(event string) []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentEvent
	for _, e := range f.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func TestHubJoinAndLeaveDropsEmptyRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := &fakeClient{id: "c1", userID: 1}

	hub.Join("conversation:1", client)
	require.Equal(t, 1, hub.RoomSize("conversation:1"))

	// Joining twice must not double-count.
	hub.Join("conversation:1", client)
	require.Equal(t, 1, hub.RoomSize("conversation:1"))

	hub.Leave("conversation:1", client)
	require.Equal(t, 0, hub.RoomSize("conversation:1"))

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	assert.Empty(t, hub.rooms)
	assert.Empty(t, hub.joined)
}

func TestHubRemoveClientClearsEveryRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := &fakeClient{id: "c1", userID: 1}
	other := &fakeClient{id: "c2", userID: 2}

	hub.Join("user:1", client)
	hub.Join("conversation:1", client)
	hub.Join("conversation:2", client)
	hub.Join("conversation:1", other)

	hub.RemoveClient(client)

	require.Equal(t, 0, hub.RoomSize("user:1"))
	require.Equal(t, 0, hub.RoomSize("conversation:2"))
	require.Equal(t, 1, hub.RoomSize("conversation:1"))
}

func TestHubBroadcastExcludesSender(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sender := &fakeClient{id: "c1", userID: 1}
	member := &fakeClient{id: "c2", userID: 2}
	outsider := &fakeClient{id: "c3", userID: 3}

	hub.Join("conversation:1", sender)
	hub.Join("conversation:1", member)
	hub.Join("conversation:2", outsider)

	hub.Broadcast("conversation:1", "typing", "payload", sender)

	assert.Empty(t, sender.received("typing"))
	assert.Len(t, member.received("typing"), 1)
	assert.Empty(t, outsider.received("typing"))
}

func TestHubBroadcastAllReachesEveryConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	self := &fakeClient{id: "c1", userID: 1}
	a := &fakeClient{id: "c2", userID: 2}
	b := &fakeClient{id: "c3", userID: 3}

	hub.Join("user:1", self)
	hub.Join("user:2", a)
	hub.Join("user:3", b)
	hub.Join("conversation:9", a)

	hub.BroadcastAll("userStatus", "payload", self)

	assert.Empty(t, self.received("userStatus"))
	// One delivery per connection, not per room membership.
	assert.Len(t, a.received("userStatus"), 1)
	assert.Len(t, b.received("userStatus"), 1)
}

func TestHubEvictsClientOnWriteFailure(t *testing.T) {
	hub := NewHub(zap.NewNop())
	broken := &fakeClient{id: "c1", userID: 1, sendErr: errors.New("write: broken pipe")}
	healthy := &fakeClient{id: "c2", userID: 2}

	hub.Join("conversation:1", broken)
	hub.Join("conversation:1", healthy)

	hub.Broadcast("conversation:1", "newMessage", "payload", nil)

	require.Equal(t, 1, hub.RoomSize("conversation:1"))
	assert.True(t, broken.closed)
	assert.Len(t, healthy.received("newMessage"), 1)
}

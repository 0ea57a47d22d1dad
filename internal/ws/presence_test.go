package ws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/mocks"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
)

func TestPresenceSingleOnlineAcrossMultipleConnections(t *testing.T) {
	hub := NewHub(zap.NewNop())
	users := new(mocks.UserRepositoryMock)
	presence := NewPresenceTracker(hub, users, zap.NewNop())

	observer := &fakeClient{id: "obs", userID: 9}
	hub.Join(UserRoom(9), observer)

	users.On("TouchLastActive", mock.Anything, int64(5), mock.Anything).Return(nil)

	first := &fakeClient{id: "c1", userID: 5, username: "alice"}
	second := &fakeClient{id: "c2", userID: 5, username: "alice"}

	presence.Connected(context.Background(), first)
	presence.Connected(context.Background(), second)

	events := observer.received(models.EventUserStatus)
	require.Len(t, events, 1)
	status := events[0].payload.(models.UserStatusEvent)
	assert.Equal(t, int64(5), status.UserID)
	assert.Equal(t, models.StatusOnline, status.Status)
	assert.Equal(t, "alice", status.Username)
	assert.True(t, presence.Online(5))
}

func TestPresenceOfflineOnlyAfterLastDisconnect(t *testing.T) {
	hub := NewHub(zap.NewNop())
	users := new(mocks.UserRepositoryMock)
	presence := NewPresenceTracker(hub, users, zap.NewNop())

	observer := &fakeClient{id: "obs", userID: 9}
	hub.Join(UserRoom(9), observer)

	users.On("TouchLastActive", mock.Anything, int64(5), mock.Anything).Return(nil)

	first := &fakeClient{id: "c1", userID: 5, username: "alice"}
	second := &fakeClient{id: "c2", userID: 5, username: "alice"}
	presence.Connected(context.Background(), first)
	presence.Connected(context.Background(), second)

	presence.Disconnected(context.Background(), first)
	require.Len(t, observer.received(models.EventUserStatus), 1)
	assert.True(t, presence.Online(5))

	presence.Disconnected(context.Background(), second)
	events := observer.received(models.EventUserStatus)
	require.Len(t, events, 2)
	status := events[1].payload.(models.UserStatusEvent)
	assert.Equal(t, models.StatusOffline, status.Status)
	assert.False(t, presence.Online(5))
}

func TestPresenceBroadcastExcludesTransitioningConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	users := new(mocks.UserRepositoryMock)
	presence := NewPresenceTracker(hub, users, zap.NewNop())

	users.On("TouchLastActive", mock.Anything, int64(5), mock.Anything).Return(nil)

	self := &fakeClient{id: "c1", userID: 5, username: "alice"}
	hub.Join(UserRoom(5), self)

	presence.Connected(context.Background(), self)

	assert.Empty(t, self.received(models.EventUserStatus))
}

func TestPresenceStoreFailureDoesNotBlockTransition(t *testing.T) {
	hub := NewHub(zap.NewNop())
	users := new(mocks.UserRepositoryMock)
	presence := NewPresenceTracker(hub, users, zap.NewNop())

	observer := &fakeClient{id: "obs", userID: 9}
	hub.Join(UserRoom(9), observer)

	users.On("TouchLastActive", mock.Anything, int64(5), mock.Anything).Return(assert.AnError)

	presence.Connected(context.Background(), &fakeClient{id: "c1", userID: 5, username: "alice"})

	require.Len(t, observer.received(models.EventUserStatus), 1)
}

package notifications

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/mocks"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/ws"
)

type fakeClient struct {
	id     string
	userID int64

	mu     sync.Mutex
	events []string
}

func (f *fakeClient) ID() string       { return f.id }
func (f *fakeClient) UserID() int64    { return f.userID }
func (f *fakeClient) Username() string { return "" }
func (f *fakeClient) Close() error     { return nil }

func (f *fakeClient) Send(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeClient) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e == event {
			n++
		}
	}
	return n
}

func TestSendDeliversToUserRoom(t *testing.T) {
	store := new(mocks.NotificationRepositoryMock)
	cache := new(mocks.CacheMock)
	hub := ws.NewHub(zap.NewNop())
	service := NewService(store, cache, hub, zap.NewNop())

	recipient := &fakeClient{id: "c1", userID: 5}
	bystander := &fakeClient{id: "c2", userID: 6}
	hub.Join(ws.UserRoom(5), recipient)
	hub.Join(ws.UserRoom(6), bystander)

	input := models.NotificationInput{UserID: 5, Type: models.NotificationLike, Content: "bob liked your post"}
	stored := models.Notification{ID: 31, UserID: 5, Type: models.NotificationLike, Content: "bob liked your post"}

	cache.On("Increment", mock.Anything, "notifications:rate:5:like", rateWindow).Return(int64(1), nil).Once()
	store.On("Create", mock.Anything, input).Return(stored, nil).Once()
	cache.On("SetWithTTL", mock.Anything, "notifications:31", stored, cacheTTL).Return(nil).Once()

	notification, err := service.Send(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, notification)
	assert.Equal(t, int64(31), notification.ID)
	assert.Equal(t, 1, recipient.count(models.EventNotification))
	assert.Equal(t, 0, bystander.count(models.EventNotification))
	store.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSendDropsAboveRateLimit(t *testing.T) {
	store := new(mocks.NotificationRepositoryMock)
	cache := new(mocks.CacheMock)
	hub := ws.NewHub(zap.NewNop())
	service := NewService(store, cache, hub, zap.NewNop())

	recipient := &fakeClient{id: "c1", userID: 5}
	hub.Join(ws.UserRoom(5), recipient)

	input := models.NotificationInput{UserID: 5, Type: models.NotificationLike}
	cache.On("Increment", mock.Anything, "notifications:rate:5:like", rateWindow).Return(int64(rateLimit+1), nil).Once()

	notification, err := service.Send(context.Background(), input)

	require.NoError(t, err)
	assert.Nil(t, notification)
	assert.Equal(t, 0, recipient.count(models.EventNotification))
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSendWindowBoundary(t *testing.T) {
	store := new(mocks.NotificationRepositoryMock)
	cache := new(mocks.CacheMock)
	hub := ws.NewHub(zap.NewNop())
	service := NewService(store, cache, hub, zap.NewNop())

	recipient := &fakeClient{id: "c1", userID: 5}
	hub.Join(ws.UserRoom(5), recipient)

	input := models.NotificationInput{UserID: 5, Type: models.NotificationComment}
	stored := models.Notification{ID: 40, UserID: 5, Type: models.NotificationComment}

	// The fifth increment in a window still delivers; the sixth does not.
	cache.On("Increment", mock.Anything, "notifications:rate:5:comment", rateWindow).Return(int64(rateLimit), nil).Once()
	store.On("Create", mock.Anything, input).Return(stored, nil).Once()
	cache.On("SetWithTTL", mock.Anything, "notifications:40", stored, cacheTTL).Return(nil).Once()

	notification, err := service.Send(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, notification)

	cache.On("Increment", mock.Anything, "notifications:rate:5:comment", rateWindow).Return(int64(rateLimit+1), nil).Once()
	notification, err = service.Send(context.Background(), input)
	require.NoError(t, err)
	assert.Nil(t, notification)

	assert.Equal(t, 1, recipient.count(models.EventNotification))
}

func TestSendRejectsUnknownType(t *testing.T) {
	store := new(mocks.NotificationRepositoryMock)
	cache := new(mocks.CacheMock)
	service := NewService(store, cache, ws.NewHub(zap.NewNop()), zap.NewNop())

	_, err := service.Send(context.Background(), models.NotificationInput{UserID: 5, Type: "poke"})

	require.ErrorIs(t, err, ErrUnknownType)
	cache.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendCounterFailure(t *testing.T) {
	store := new(mocks.NotificationRepositoryMock)
	cache := new(mocks.CacheMock)
	service := NewService(store, cache, ws.NewHub(zap.NewNop()), zap.NewNop())

	cache.On("Increment", mock.Anything, mock.Anything, rateWindow).Return(int64(0), assert.AnError).Once()

	_, err := service.Send(context.Background(), models.NotificationInput{UserID: 5, Type: models.NotificationFollow})

	require.Error(t, err)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSendStoreFailureSuppressesDelivery(t *testing.T) {
	store := new(mocks.NotificationRepositoryMock)
	cache := new(mocks.CacheMock)
	hub := ws.NewHub(zap.NewNop())
	service := NewService(store, cache, hub, zap.NewNop())

	recipient := &fakeClient{id: "c1", userID: 5}
	hub.Join(ws.UserRoom(5), recipient)

	cache.On("Increment", mock.Anything, mock.Anything, rateWindow).Return(int64(1), nil).Once()
	store.On("Create", mock.Anything, mock.Anything).Return(models.Notification{}, assert.AnError).Once()

	_, err := service.Send(context.Background(), models.NotificationInput{UserID: 5, Type: models.NotificationFollow})

	require.Error(t, err)
	assert.Equal(t, 0, recipient.count(models.EventNotification))
}

func TestSendCacheWriteFailure(t *testing.T) {
	store := new(mocks.NotificationRepositoryMock)
	cache := new(mocks.CacheMock)
	service := NewService(store, cache, ws.NewHub(zap.NewNop()), zap.NewNop())

	input := models.NotificationInput{UserID: 5, Type: models.NotificationMention}
	stored := models.Notification{ID: 41, UserID: 5, Type: models.NotificationMention}

	cache.On("Increment", mock.Anything, mock.Anything, rateWindow).Return(int64(1), nil).Once()
	store.On("Create", mock.Anything, input).Return(stored, nil).Once()
	cache.On("SetWithTTL", mock.Anything, "notifications:41", stored, cacheTTL).Return(assert.AnError).Once()

	_, err := service.Send(context.Background(), input)

	require.Error(t, err)
}

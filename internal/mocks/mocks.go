package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/cache"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/identity"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/repositories"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/uploads"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int64) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) TouchLastActive(ctx context.Context, userID int64, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) GetParticipants(ctx context.Context, conversationID int64) ([]int64, error) {
	args := m.Called(ctx, conversationID)
	var ids []int64
	if val := args.Get(0); val != nil {
		ids = val.([]int64)
	}
	return ids, args.Error(1)
}

func (m *ConversationRepositoryMock) ListConversationsFor(ctx context.Context, userID int64) ([]int64, error) {
	args := m.Called(ctx, userID)
	var ids []int64
	if val := args.Get(0); val != nil {
		ids = val.([]int64)
	}
	return ids, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, p repositories.CreateMessageParams) (models.Message, error) {
	args := m.Called(ctx, p)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, messageIDs []int64, at time.Time) error {
	args := m.Called(ctx, messageIDs, at)
	return args.Error(0)
}

func (m *MessageRepositoryMock) GetByIDs(ctx context.Context, messageIDs []int64) ([]models.MessageRef, error) {
	args := m.Called(ctx, messageIDs)
	var refs []models.MessageRef
	if val := args.Get(0); val != nil {
		refs = val.([]models.MessageRef)
	}
	return refs, args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) Create(ctx context.Context, input models.NotificationInput) (models.Notification, error) {
	args := m.Called(ctx, input)
	var n models.Notification
	if val := args.Get(0); val != nil {
		n = val.(models.Notification)
	}
	return n, args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *CacheMock) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CacheMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type UploaderMock struct {
	mock.Mock
}

func (m *UploaderMock) Upload(ctx context.Context, data []byte, folder string, kind uploads.Kind, contentType string) (uploads.Upload, error) {
	args := m.Called(ctx, data, folder, kind, contentType)
	var up uploads.Upload
	if val := args.Get(0); val != nil {
		up = val.(uploads.Upload)
	}
	return up, args.Error(1)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Verify(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.NotificationRepository = (*NotificationRepositoryMock)(nil)
var _ cache.Cache = (*CacheMock)(nil)
var _ uploads.Service = (*UploaderMock)(nil)
var _ identity.Resolver = (*ResolverMock)(nil)

package handler_test

import (
	"faithlink/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore doubles storage.Storage for the REST surface tests.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) FindUsersByIDs(ids []string) (map[string]*models.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*models.User), args.Error(1)
}

func (m *MockStore) SaveMessage(msg *models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStore) FindMessageByID(id uint) (*models.ChatMessage, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockStore) DeleteMessage(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStore) MarkConversationRead(userID, adminID, readerID string) (int64, error) {
	args := m.Called(userID, adminID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) MarkMessagesRead(ids []uint) (int64, error) {
	args := m.Called(ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) GetConversationPage(userID, adminID string, page, limit int) ([]models.ChatMessage, int64, error) {
	args := m.Called(userID, adminID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.ChatMessage), args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) ListConversations(viewer *models.User) ([]models.ConversationSummary, error) {
	args := m.Called(viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConversationSummary), args.Error(1)
}

func (m *MockStore) GetAdminStats(adminID string) (*models.ChatStats, error) {
	args := m.Called(adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatStats), args.Error(1)
}

func (m *MockStore) PublishEvent(f models.Fanout) error {
	args := m.Called(f)
	return args.Error(0)
}

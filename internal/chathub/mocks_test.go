package chathub_test

import (
	"sync/atomic"

	"faithlink/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify double for the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) FindUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) FindUsersByIDs(ids []string) (map[string]*models.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*models.User), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) FindMessageByID(id uint) (*models.ChatMessage, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockStorage) DeleteMessage(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) MarkConversationRead(userID, adminID, readerID string) (int64, error) {
	args := m.Called(userID, adminID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) MarkMessagesRead(ids []uint) (int64, error) {
	args := m.Called(ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetConversationPage(userID, adminID string, page, limit int) ([]models.ChatMessage, int64, error) {
	args := m.Called(userID, adminID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.ChatMessage), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) ListConversations(viewer *models.User) ([]models.ConversationSummary, error) {
	args := m.Called(viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConversationSummary), args.Error(1)
}

func (m *MockStorage) GetAdminStats(adminID string) (*models.ChatStats, error) {
	args := m.Called(adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatStats), args.Error(1)
}

func (m *MockStorage) PublishEvent(f models.Fanout) error {
	args := m.Called(f)
	return args.Error(0)
}

// mockClient is an in-memory chathub.Client with a buffered receive
// channel so tests never block the hub.
type mockClient struct {
	id     string
	role   string
	name   string
	Recv   chan models.Event
	closed atomic.Bool
}

func newMockClient(id, role, name string) *mockClient {
	return &mockClient{
		id:   id,
		role: role,
		name: name,
		Recv: make(chan models.Event, 16),
	}
}

func (c *mockClient) GetUserID() string                   { return c.id }
func (c *mockClient) GetRole() string                     { return c.role }
func (c *mockClient) GetName() string                     { return c.name }
func (c *mockClient) GetSendChannel() chan<- models.Event { return c.Recv }
func (c *mockClient) Run()                                {}
func (c *mockClient) Close()                              { c.closed.Store(true) }

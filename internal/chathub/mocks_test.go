package chathub_test

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"mailroom/backend/internal/models"
)

// MockStore is a testify mock over history.Store, for tests that need to
// force storage failures or assert exact persistence calls.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Append(roomID string, msg models.PersistedMessage) error {
	args := m.Called(roomID, msg)
	return args.Error(0)
}

func (m *MockStore) Messages(roomID string, limit int) ([]models.PersistedMessage, error) {
	args := m.Called(roomID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PersistedMessage), args.Error(1)
}

func (m *MockStore) Count(roomID string) (int, error) {
	args := m.Called(roomID)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) Metadata(roomID string) (*models.RoomMetadata, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoomMetadata), args.Error(1)
}

// recorderNotifier captures notification intents for assertions.
type recorderNotifier struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (r *recorderNotifier) Notify(n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorderNotifier) byMethod(method string) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notes {
		if n.Method == method {
			out = append(out, n)
		}
	}
	return out
}

// mockClient is a hub client backed by a plain channel.
type mockClient struct {
	id     string
	Recv   chan models.Notification
	closed bool
}

func newMockClient(id string) *mockClient {
	return &mockClient{id: id, Recv: make(chan models.Notification, 8)}
}

func (c *mockClient) ClientID() string                            { return c.id }
func (c *mockClient) SendChannel() chan<- models.Notification     { return c.Recv }
func (c *mockClient) Run()                                        {}
func (c *mockClient) Close()                                      { c.closed = true }

package chathub

import (
	"sync"

	"mailroom/backend/internal/models"
)

// ConnectionTable is the process-wide session registry shared by every
// request handler: client id (transport handle) to participant. It is
// constructed once in main and injected, never a package global. It also
// answers the registry's presence checks.
type ConnectionTable struct {
	mu    sync.RWMutex
	users map[string]*models.User // client id -> user
	ids   map[string]string       // identity id -> client id
}

func NewConnectionTable() *ConnectionTable {
	return &ConnectionTable{
		users: make(map[string]*models.User),
		ids:   make(map[string]string),
	}
}

func (t *ConnectionTable) Add(u *models.User) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.users[u.ClientID] = u
	t.ids[u.ID] = u.ClientID
}

// Get resolves a client id to its participant, or nil.
func (t *ConnectionTable) Get(clientID string) *models.User {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.users[clientID]
}

// Remove drops the session and returns the participant that held it, or
// nil if the client id was unknown.
func (t *ConnectionTable) Remove(clientID string) *models.User {
	t.mu.Lock()
	defer t.mu.Unlock()
	u, ok := t.users[clientID]
	if !ok {
		return nil
	}
	delete(t.users, clientID)
	delete(t.ids, u.ID)
	return u
}

// IsConnected implements rooms.Presence.
func (t *ConnectionTable) IsConnected(userID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ids[userID]
	return ok
}

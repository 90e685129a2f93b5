package rooms

import (
	"sync"
	"time"

	"mailroom/backend/internal/models"
)

// Presence reports whether an identity is currently attached to the
// transport layer. Capacity checks depend on it: a seat whose holder
// silently disconnected stays reserved for ownership purposes but does
// not count when deciding whether a newcomer may claim a seat.
type Presence interface {
	IsConnected(userID string) bool
}

// Registry is the in-memory authority over room existence, membership
// and active state. It holds the forward room map and a reverse map from
// identity to the single room that identity occupies. Mutating calls are
// short critical sections that never touch I/O; storage access belongs
// to the caller, outside the registry lock.
type Registry struct {
	presence Presence

	mu       sync.RWMutex
	rooms    map[string]*models.Room
	userRoom map[string]string
}

func NewRegistry(presence Presence) *Registry {
	return &Registry{
		presence: presence,
		rooms:    make(map[string]*models.Room),
		userRoom: make(map[string]string),
	}
}

// Get returns the room or nil. No side effects.
func (r *Registry) Get(roomID string) *models.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[roomID]
}

// Create registers a new single-occupant room under the caller-supplied
// id. Fails with ErrRoomExists when the id is already registered.
func (r *Registry) Create(roomID string, first *models.User) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomID]; ok {
		return nil, models.ErrRoomExists
	}
	room := &models.Room{
		RoomID:    roomID,
		User1:     first,
		CreatedAt: time.Now(),
		Active:    true,
	}
	r.rooms[roomID] = room
	r.userRoom[first.ID] = roomID
	return room, nil
}

// Join seats a user in an existing room. The returned partner is the
// already-seated connected occupant, or nil when the joiner took the
// only live seat; a non-nil partner signals a "partner joined" event to
// the caller. Fullness is computed against connected occupants only: a
// seat whose holder has gone away without leaving is handed to the
// newcomer rather than blocking the room forever.
func (r *Registry) Join(roomID string, user *models.User) (*models.Room, *models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, nil, models.ErrRoomNotFound
	}
	if !room.Active {
		return nil, nil, models.ErrRoomClosed
	}

	connected := r.connectedOccupants(room)
	if len(connected) >= 2 {
		return nil, nil, models.ErrRoomFull
	}

	if len(connected) == 0 {
		room.User1 = user
		room.User2 = nil
		r.userRoom[user.ID] = roomID
		return room, nil, nil
	}

	partner := connected[0]
	if room.User1 != nil && room.User1.ID == partner.ID {
		room.User2 = user
	} else {
		room.User1 = user
	}
	r.userRoom[user.ID] = roomID
	return room, partner, nil
}

// connectedOccupants requires r.mu held.
func (r *Registry) connectedOccupants(room *models.Room) []*models.User {
	var users []*models.User
	for _, u := range room.Occupants() {
		if r.presence.IsConnected(u.ID) {
			users = append(users, u)
		}
	}
	return users
}

// Close marks the room terminal. The room is returned so the caller can
// still read who the partner was at the moment of closure.
func (r *Registry) Close(roomID string) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, models.ErrRoomNotFound
	}
	r.closeLocked(room)
	return room, nil
}

// closeLocked requires r.mu held.
func (r *Registry) closeLocked(room *models.Room) {
	room.Active = false
	for _, u := range room.Occupants() {
		if r.userRoom[u.ID] == room.RoomID {
			delete(r.userRoom, u.ID)
		}
	}
}

// RemoveUser handles ungraceful departure: it resolves the identity's
// current room through the reverse map, closes it, and reports whether
// the room was still active when the user was removed. Returns nil when
// the identity occupied no room.
func (r *Registry) RemoveUser(userID string) (*models.Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.userRoom[userID]
	if !ok {
		return nil, false
	}
	room := r.rooms[roomID]
	if room == nil {
		delete(r.userRoom, userID)
		return nil, false
	}
	wasActive := room.Active
	r.closeLocked(room)
	delete(r.userRoom, userID)
	return room, wasActive
}

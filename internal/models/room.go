package models

import "time"

// Room is a conversation container for exactly two participants,
// identified by a stable caller-chosen key. A room holds 0, 1, or 2
// distinct occupants. Once Active flips to false the room is terminal:
// no further joins or sends are permitted, though its history remains
// readable through the durable store.
type Room struct {
	// RoomID is the caller-supplied key, immutable once created. It is
	// both the registry lookup key and the storage key.
	RoomID    string
	User1     *User
	User2     *User
	CreatedAt time.Time
	Active    bool
}

// Partner returns the other occupant for a given identity, or nil when
// the room has no second occupant or the identity is not in the room.
func (r *Room) Partner(userID string) *User {
	if r.User1 != nil && r.User1.ID == userID {
		return r.User2
	}
	if r.User2 != nil && r.User2.ID == userID {
		return r.User1
	}
	return nil
}

// HasUser reports whether the identity occupies one of the room's slots.
func (r *Room) HasUser(userID string) bool {
	if r.User1 != nil && r.User1.ID == userID {
		return true
	}
	return r.User2 != nil && r.User2.ID == userID
}

// Occupants returns the distinct users currently holding slots.
func (r *Room) Occupants() []*User {
	var users []*User
	if r.User1 != nil {
		users = append(users, r.User1)
	}
	if r.User2 != nil && (r.User1 == nil || r.User2.ID != r.User1.ID) {
		users = append(users, r.User2)
	}
	return users
}

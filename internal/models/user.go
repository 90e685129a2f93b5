package models

import "time"

// User represents one connected participant. It lives in memory for the
// duration of the connection and is never persisted directly; only the
// derived display name ends up in room history.
type User struct {
	// ID is the participant identity, generated at join time.
	ID string
	// DisplayName is the caller-supplied name. May be empty.
	DisplayName string
	// ClientID is the opaque transport-session handle used to address
	// notifications to this participant.
	ClientID string
	// JoinedAt is when the participant joined.
	JoinedAt time.Time
}

// Name returns the display name, or an anonymous label derived from the
// identity when no name was supplied.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	id := u.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "Anonymous-" + id
}

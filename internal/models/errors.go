package models

import "errors"

// Failure taxonomy for room operations. These are returned as values and
// surfaced to callers as structured failure results, never as panics.
var (
	// ErrRoomNotFound: the room (or its ledger) does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomExists: create was attempted for a registered room id.
	ErrRoomExists = errors.New("room already exists")
	// ErrRoomClosed: the room is terminal; no joins or sends permitted.
	ErrRoomClosed = errors.New("room is no longer active")
	// ErrRoomFull: both seats are held by currently connected users.
	ErrRoomFull = errors.New("room is full")
	// ErrNotMember: the caller does not occupy a seat in the room.
	ErrNotMember = errors.New("you are not in this room")
	// ErrNoPartner: the room has no second occupant yet.
	ErrNoPartner = errors.New("partner not found")
	// ErrUnknownClient: the client id does not resolve to a session.
	ErrUnknownClient = errors.New("unknown client id")
)

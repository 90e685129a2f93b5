package models

import "time"

// SystemSenderID is the sentinel sender recorded on lifecycle messages.
const SystemSenderID = "system"

// Message is the transient form of a user send. It exists only while
// one request is being handled and is converted to a PersistedMessage
// before reaching the durable store.
type Message struct {
	MessageID string
	RoomID    string
	SenderID  string
	Content   string
	Timestamp time.Time
}

// PersistedMessage is the durable message record. The sender name is
// denormalized at write time so history is insulated from later name
// changes. Once appended it is immutable.
type PersistedMessage struct {
	MessageID  string `json:"message_id"`
	RoomID     string `json:"room_id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Content    string `json:"content"`
	// Timestamp is an ISO-8601 string for stable JSON serialization.
	Timestamp string `json:"timestamp"`
	IsSystem  bool   `json:"is_system"`
}

// Ledger is the on-disk unit: one durable record per room. Messages are
// strictly append-only; Participants grows monotonically and keeps every
// display name ever seen, even after a user leaves.
type Ledger struct {
	RoomID       string             `json:"room_id"`
	CreatedAt    string             `json:"created_at"`
	Participants []string           `json:"participants"`
	Messages     []PersistedMessage `json:"messages"`
}

// RoomMetadata is the store's read view of a room. Active is always
// reported true by the store; the session coordinator overlays real
// liveness from the registry.
type RoomMetadata struct {
	RoomID       string
	CreatedAt    string
	LastActivity string
	MessageCount int
	Participants []string
	Active       bool
}

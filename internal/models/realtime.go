package models

// Notification methods pushed to a partner's transport connection.
const (
	NotifyMessageReceived     = "message.received"
	NotifyPartnerDisconnected = "partner.disconnected"
)

// Notification is a best-effort, fire-and-forget signal addressed to a
// transport handle. Delivery failure is tolerated silently.
type Notification struct {
	// ClientID addresses the recipient connection. Not serialized.
	ClientID string         `json:"-"`
	Method   string         `json:"method"`
	Params   map[string]any `json:"params"`
}

// ClientEvent is an action submitted by an attached websocket client.
// SenderClientID is stamped server-side from the connection; a client
// cannot speak for another handle.
type ClientEvent struct {
	SenderClientID string `json:"-"`
	// Type is "text" for a user send or "leave" to end the room.
	Type    string `json:"type"`
	RoomID  string `json:"room_id"`
	Content string `json:"content"`
}

package chathub

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"mailroom/backend/internal/history"
	"mailroom/backend/internal/models"
	"mailroom/backend/internal/rooms"
)

// Notifier hands a notification intent to the transport layer. Delivery
// is best-effort: implementations must not block the caller and a lost
// notification never rolls back the action that produced it.
type Notifier interface {
	Notify(n models.Notification)
}

// Coordinator orchestrates the registry, the durable store and the
// notifier in response to high-level actions. It owns neither membership
// state nor storage; it decides what gets persisted, which state
// transitions occur, and what notification (if any) must fire.
type Coordinator struct {
	store    history.Store
	registry *rooms.Registry
	conns    *ConnectionTable
	notifier Notifier
}

func NewCoordinator(store history.Store, registry *rooms.Registry, conns *ConnectionTable, notifier Notifier) *Coordinator {
	return &Coordinator{
		store:    store,
		registry: registry,
		conns:    conns,
		notifier: notifier,
	}
}

// KnownClient reports whether a client id resolves to a live session.
func (c *Coordinator) KnownClient(clientID string) bool {
	return c.conns.Get(clientID) != nil
}

// JoinResult reports the outcome of a join.
type JoinResult struct {
	Status   string // "room_created" or "joined"
	RoomID   string
	ClientID string
	// Partner is the display name of the already-seated occupant, empty
	// when the caller is waiting for one.
	Partner string
	Message string
}

// Join allocates a fresh identity and transport handle, then seats the
// participant: an unknown room id is created half-open, a known open
// room with a free seat is joined. Seating next to a waiting partner
// persists a system join message.
func (c *Coordinator) Join(roomID, displayName string) (*JoinResult, error) {
	user := &models.User{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		ClientID:    uuid.NewString(),
		JoinedAt:    time.Now(),
	}
	c.conns.Add(user)

	if room := c.registry.Get(roomID); room == nil {
		if _, err := c.registry.Create(roomID, user); err != nil {
			// Lost the race with a concurrent first join; fall through
			// to a regular join below.
			log.Printf("Room %s appeared concurrently, joining instead", roomID)
		} else {
			log.Printf("Created new room %s for %s", roomID, user.Name())
			return &JoinResult{
				Status:   "room_created",
				RoomID:   roomID,
				ClientID: user.ClientID,
				Message:  "New room created, waiting for another user to join",
			}, nil
		}
	}

	_, partner, err := c.registry.Join(roomID, user)
	if err != nil {
		c.conns.Remove(user.ClientID)
		return nil, err
	}
	log.Printf("User %s joined room %s", user.Name(), roomID)

	if partner == nil {
		return &JoinResult{
			Status:   "joined",
			RoomID:   roomID,
			ClientID: user.ClientID,
			Message:  "Successfully joined room, waiting for partner",
		}, nil
	}

	join := fmt.Sprintf("[System] %s has joined the chat.", user.Name())
	if err := c.appendSystem(roomID, join); err != nil {
		return nil, err
	}
	return &JoinResult{
		Status:   "joined",
		RoomID:   roomID,
		ClientID: user.ClientID,
		Partner:  partner.Name(),
		Message:  "Successfully joined room with " + partner.Name(),
	}, nil
}

// SendResult reports the persisted message id and timestamp.
type SendResult struct {
	MessageID string
	Timestamp string
}

// Send persists a user message and emits a message.received intent to
// the partner. The notification is dispatched only after the write has
// durably committed, and its loss never fails the send.
func (c *Coordinator) Send(roomID, clientID, content string) (*SendResult, error) {
	user := c.conns.Get(clientID)
	if user == nil {
		return nil, models.ErrUnknownClient
	}
	room := c.registry.Get(roomID)
	if room == nil {
		return nil, models.ErrRoomNotFound
	}
	if !room.Active {
		return nil, models.ErrRoomClosed
	}
	if !room.HasUser(user.ID) {
		return nil, models.ErrNotMember
	}
	partner := room.Partner(user.ID)
	if partner == nil {
		return nil, models.ErrNoPartner
	}

	msg := models.Message{
		MessageID: uuid.NewString(),
		RoomID:    roomID,
		SenderID:  user.ID,
		Content:   content,
		Timestamp: time.Now(),
	}
	timestamp := msg.Timestamp.Format(time.RFC3339)
	err := c.store.Append(roomID, models.PersistedMessage{
		MessageID:  msg.MessageID,
		RoomID:     roomID,
		SenderID:   user.ID,
		SenderName: user.Name(),
		Content:    content,
		Timestamp:  timestamp,
	})
	if err != nil {
		return nil, err
	}

	c.notifier.Notify(models.Notification{
		ClientID: partner.ClientID,
		Method:   models.NotifyMessageReceived,
		Params: map[string]any{
			"room_id": roomID,
			"message": content,
			"sender": map[string]any{
				"user_id":      user.ID,
				"display_name": user.Name(),
			},
			"timestamp": timestamp,
		},
	})
	return &SendResult{MessageID: msg.MessageID, Timestamp: timestamp}, nil
}

// Leave closes the room terminally, persists the departure system
// message, and tells the partner the conversation ended. The departure
// is always recorded even though the room becomes unusable.
func (c *Coordinator) Leave(roomID, clientID string) error {
	user := c.conns.Get(clientID)
	if user == nil {
		return models.ErrUnknownClient
	}
	room := c.registry.Get(roomID)
	if room == nil {
		return models.ErrRoomNotFound
	}
	if !room.HasUser(user.ID) {
		return models.ErrNotMember
	}

	partner := room.Partner(user.ID)
	if _, err := c.registry.Close(roomID); err != nil {
		return err
	}
	log.Printf("User %s left room %s", user.Name(), roomID)

	left := fmt.Sprintf("[System] %s has left the conversation.", user.Name())
	if err := c.appendSystem(roomID, left); err != nil {
		return err
	}

	if partner != nil {
		c.notifier.Notify(models.Notification{
			ClientID: partner.ClientID,
			Method:   models.NotifyPartnerDisconnected,
			Params:   map[string]any{"room_id": roomID, "reason": "left"},
		})
	}
	return nil
}

// Disconnect handles transport loss without an explicit leave: the
// session is dropped, the occupied room (if any) closes, and the partner
// is told. No system message is persisted; that distinguishes vanishing
// from leaving.
func (c *Coordinator) Disconnect(clientID string) {
	user := c.conns.Remove(clientID)
	if user == nil {
		return
	}
	room, wasActive := c.registry.RemoveUser(user.ID)
	if room != nil && wasActive {
		if partner := room.Partner(user.ID); partner != nil {
			c.notifier.Notify(models.Notification{
				ClientID: partner.ClientID,
				Method:   models.NotifyPartnerDisconnected,
				Params:   map[string]any{"room_id": room.RoomID, "reason": "disconnected"},
			})
		}
	}
	log.Printf("User %s disconnected", user.Name())
}

// StatusResult merges registry liveness with stored facts.
type StatusResult struct {
	RoomID       string
	Exists       bool
	Active       bool
	Participants []string
	MessageCount int
	CreatedAt    string
	LastActivity string
}

// Status prefers live registry data for participants when the room is in
// memory, falling back to the store's historical participant list.
func (c *Coordinator) Status(roomID string) (*StatusResult, error) {
	room := c.registry.Get(roomID)
	meta, err := c.store.Metadata(roomID)
	if err != nil {
		log.Printf("WARNING: metadata for room %s unavailable: %v", roomID, err)
		meta = nil
	}
	if room == nil && meta == nil {
		return &StatusResult{RoomID: roomID, Exists: false}, nil
	}

	result := &StatusResult{RoomID: roomID, Exists: true}
	if room != nil {
		result.Active = room.Active
		for _, u := range room.Occupants() {
			result.Participants = append(result.Participants, u.Name())
		}
		result.CreatedAt = room.CreatedAt.Format(time.RFC3339)
	}
	if meta != nil {
		result.MessageCount = meta.MessageCount
		result.CreatedAt = meta.CreatedAt
		result.LastActivity = meta.LastActivity
		if room == nil {
			result.Participants = meta.Participants
		}
	}
	return result, nil
}

// HistoryResult carries chronological messages plus the total count
// independent of any truncation.
type HistoryResult struct {
	RoomID     string
	Messages   []models.PersistedMessage
	TotalCount int
}

// History reads persisted messages; an absent room yields an empty list
// and a zero count rather than an error.
func (c *Coordinator) History(roomID string, limit int) (*HistoryResult, error) {
	msgs, err := c.store.Messages(roomID, limit)
	if err != nil {
		return nil, err
	}
	count, err := c.store.Count(roomID)
	if err != nil {
		return nil, err
	}
	return &HistoryResult{RoomID: roomID, Messages: msgs, TotalCount: count}, nil
}

func (c *Coordinator) appendSystem(roomID, content string) error {
	return c.store.Append(roomID, models.PersistedMessage{
		MessageID:  uuid.NewString(),
		RoomID:     roomID,
		SenderID:   models.SystemSenderID,
		SenderName: "System",
		Content:    content,
		Timestamp:  time.Now().Format(time.RFC3339),
		IsSystem:   true,
	})
}

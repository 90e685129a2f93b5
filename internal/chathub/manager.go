package chathub

import (
	"log"

	"mailroom/backend/internal/models"
)

const notifyBuffer = 64

// Hub tracks attached transport connections and fans notification
// intents out to them. It runs as a single dispatcher goroutine; the
// Clients map is touched only from Run, so it needs no lock. The hub is
// also where transport loss turns into a coordinator Disconnect.
type Hub struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	IncomingCh   chan models.ClientEvent

	notifyCh chan models.Notification

	coordinator *Coordinator
}

func NewHub() *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		IncomingCh:   make(chan models.ClientEvent),
		notifyCh:     make(chan models.Notification, notifyBuffer),
	}
}

// SetCoordinator wires the coordinator after construction; the hub and
// the coordinator reference each other.
func (h *Hub) SetCoordinator(c *Coordinator) {
	h.coordinator = c
}

// Notify implements Notifier. It never blocks: when the dispatcher is
// saturated the intent is dropped, which the delivery contract allows.
func (h *Hub) Notify(n models.Notification) {
	select {
	case h.notifyCh <- n:
	default:
		log.Printf("Dropping %s notification for %s: dispatcher saturated", n.Method, n.ClientID)
	}
}

// Run is the dispatcher loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.RegisterCh:
			h.Clients[client.ClientID()] = client
			log.Printf("Client %s attached", client.ClientID())

		case client := <-h.UnregisterCh:
			current, ok := h.Clients[client.ClientID()]
			if !ok || current != client {
				// A reconnect already replaced this connection.
				continue
			}
			delete(h.Clients, client.ClientID())
			client.Close()
			log.Printf("Client %s detached", client.ClientID())
			if h.coordinator != nil {
				h.coordinator.Disconnect(client.ClientID())
			}

		case n := <-h.notifyCh:
			client, ok := h.Clients[n.ClientID]
			if !ok {
				// Recipient not attached; mailbox semantics, they read
				// history on reconnect.
				continue
			}
			select {
			case client.SendChannel() <- n:
			default:
				log.Printf("Dropping %s notification for slow client %s", n.Method, n.ClientID)
			}

		case ev := <-h.IncomingCh:
			h.handleEvent(ev)
		}
	}
}

// handleEvent routes actions submitted over an attached connection
// through the same coordinator operations the tool surface uses.
func (h *Hub) handleEvent(ev models.ClientEvent) {
	if h.coordinator == nil {
		return
	}
	switch ev.Type {
	case "text":
		if _, err := h.coordinator.Send(ev.RoomID, ev.SenderClientID, ev.Content); err != nil {
			log.Printf("Rejected send from %s to room %s: %v", ev.SenderClientID, ev.RoomID, err)
		}
	case "leave":
		if err := h.coordinator.Leave(ev.RoomID, ev.SenderClientID); err != nil {
			log.Printf("Rejected leave from %s for room %s: %v", ev.SenderClientID, ev.RoomID, err)
		}
	default:
		log.Printf("Ignoring unknown event type %q from %s", ev.Type, ev.SenderClientID)
	}
}

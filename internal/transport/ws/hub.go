package ws

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
)

// Hub manages all active WebSocket clients and delivers per-account events.
type Hub struct {
	// clients maps accountID → client.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	deliver    chan *deliverMsg
}

type deliverMsg struct {
	accountID uuid.UUID
	data      []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan *deliverMsg, 256),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.accountID] = client
			slog.Debug("ws hub: connected", "account_id", client.accountID, "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client.accountID]; ok {
				delete(h.clients, client.accountID)
				close(client.send)
				close(client.done)
				slog.Debug("ws hub: disconnected", "account_id", client.accountID, "total", len(h.clients))
			}

		case msg := <-h.deliver:
			client, ok := h.clients[msg.accountID]
			if !ok {
				continue
			}
			select {
			case client.send <- msg.data:
			default:
				// Client buffer full - disconnect
				delete(h.clients, msg.accountID)
				close(client.send)
				close(client.done)
			}
		}
	}
}

// SendToAccount queues an event for a specific account's connection, if one
// is open. Events for offline accounts are dropped.
func (h *Hub) SendToAccount(accountID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Warn("ws hub: marshal error", "error", err)
		return
	}
	h.deliver <- &deliverMsg{accountID: accountID, data: data}
}

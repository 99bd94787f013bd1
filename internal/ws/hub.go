package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"WhatsEase/internal/lib/sl"
)

// Outbound event names.
const (
	EventMessage = "message"
	EventStatus  = "status"
	EventUnread  = "unread"
)

// ClientMessageHandler handles incoming WebSocket events from chat clients.
type ClientMessageHandler interface {
	HandleSendMessage(sender, recipient, content string) error
	HandleMarkRead(viewer string, messageID int64) error
}

// Event is the envelope for every WebSocket frame, in both directions.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active WebSocket clients, their room
// membership, and the presence registry derived from it.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]struct{}
	registry   *Registry
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	handler    ClientMessageHandler
	log        *slog.Logger
}

// NewHub creates a new Hub bound to a presence registry.
func NewHub(log *slog.Logger, registry *Registry) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]struct{}),
		registry:   registry,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log.With(sl.Module("ws.hub")),
	}
}

// SetHandler sets the handler for incoming client events.
func (h *Hub) SetHandler(handler ClientMessageHandler) {
	h.handler = handler
}

// Registry exposes the presence registry backing this hub.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.joinRoom(client, UserRoom(client.identity))
			h.mu.Unlock()
			h.registry.Join(client.identity, client.id)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.leaveRoom(client, UserRoom(client.identity))
				close(client.send)
			}
			h.mu.Unlock()
			h.registry.Leave(client.identity, client.id)
		}
	}
}

// joinRoom and leaveRoom require h.mu held.
func (h *Hub) joinRoom(client *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[client] = struct{}{}
}

func (h *Hub) leaveRoom(client *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Emit sends one event to every connection joined to the room.
// Emitting to an empty room is a no-op. Clients whose send buffer is
// full are dropped rather than blocking the emit.
func (h *Hub) Emit(event string, payload interface{}, room string) {
	data, err := json.Marshal(&Event{
		Type: event,
		Data: payload,
	})
	if err != nil {
		h.log.Warn("failed to marshal event", slog.String("event", event), sl.Err(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.rooms[room] {
		select {
		case client.send <- data:
		default:
			delete(h.clients, client)
			h.leaveRoom(client, room)
			close(client.send)
			h.registry.Leave(client.identity, client.id)
		}
	}
}

// clientEvent is an incoming WebSocket frame from a chat client.
type clientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleClientMessage parses and dispatches an incoming frame.
func (h *Hub) HandleClientMessage(identity string, raw []byte) {
	if h.handler == nil {
		return
	}

	var event clientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		h.log.Warn("failed to parse client ws message", sl.Err(err))
		return
	}

	switch event.Type {
	case "send_message":
		var data struct {
			Recipient string `json:"recipient"`
			Content   string `json:"content"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			h.log.Warn("failed to parse send_message data", sl.Err(err))
			return
		}
		if err := h.handler.HandleSendMessage(identity, data.Recipient, data.Content); err != nil {
			h.log.Error("failed to handle send_message",
				slog.String("sender", identity),
				slog.String("recipient", data.Recipient),
				sl.Err(err),
			)
		}

	case "mark_read":
		var data struct {
			MessageID int64 `json:"message_id"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			h.log.Warn("failed to parse mark_read data", sl.Err(err))
			return
		}
		if data.MessageID == 0 {
			return
		}
		if err := h.handler.HandleMarkRead(identity, data.MessageID); err != nil {
			h.log.Error("failed to handle mark_read",
				slog.String("viewer", identity),
				slog.Int64("message_id", data.MessageID),
				sl.Err(err),
			)
		}
	}
}

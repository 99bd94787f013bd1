package ws

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func newTestClient(hub *Hub, identity, id string) *Client {
	return &Client{
		hub:      hub,
		send:     make(chan []byte, 8),
		identity: identity,
		id:       id,
	}
}

func waitPresent(t *testing.T, r *Registry, identity string, want bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if r.IsPresent(identity) == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("presence of %s never became %v", identity, want)
}

func TestHubEmitTargetsRoom(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(slog.Default(), registry)
	go hub.Run()

	alice := newTestClient(hub, "a@x.io", "conn-a")
	bob := newTestClient(hub, "b@x.io", "conn-b")
	hub.register <- alice
	hub.register <- bob
	waitPresent(t, registry, "a@x.io", true)
	waitPresent(t, registry, "b@x.io", true)

	hub.Emit(EventUnread, map[string]interface{}{"peer": "b@x.io", "unread": 1}, UserRoom("a@x.io"))

	select {
	case raw := <-alice.send:
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if event.Type != EventUnread {
			t.Fatalf("event type = %s, want %s", event.Type, EventUnread)
		}
	case <-time.After(time.Second):
		t.Fatal("target client never received the event")
	}

	select {
	case <-bob.send:
		t.Fatal("client outside the room received the event")
	default:
	}
}

func TestHubEmitFansOutToAllConnections(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(slog.Default(), registry)
	go hub.Run()

	first := newTestClient(hub, "a@x.io", "conn-1")
	second := newTestClient(hub, "a@x.io", "conn-2")
	hub.register <- first
	hub.register <- second
	waitPresent(t, registry, "a@x.io", true)
	deadline := time.Now().Add(time.Second)
	for registry.Connections("a@x.io") < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	hub.Emit(EventStatus, map[string]interface{}{"message_id": 1, "status": "Read"}, UserRoom("a@x.io"))

	for _, c := range []*Client{first, second} {
		select {
		case <-c.send:
		case <-time.After(time.Second):
			t.Fatal("connection of the room owner missed the event")
		}
	}
}

func TestHubUnregisterRunsPresenceCleanup(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(slog.Default(), registry)
	go hub.Run()

	client := newTestClient(hub, "a@x.io", "conn-a")
	hub.register <- client
	waitPresent(t, registry, "a@x.io", true)

	hub.unregister <- client
	waitPresent(t, registry, "a@x.io", false)

	// Emitting to the now-empty room is a silent no-op.
	hub.Emit(EventMessage, map[string]interface{}{"id": 1}, UserRoom("a@x.io"))
}

type recordingHandler struct {
	sends []string
	reads []int64
}

func (h *recordingHandler) HandleSendMessage(sender, recipient, content string) error {
	h.sends = append(h.sends, sender+"->"+recipient+":"+content)
	return nil
}

func (h *recordingHandler) HandleMarkRead(viewer string, messageID int64) error {
	h.reads = append(h.reads, messageID)
	return nil
}

func TestHandleClientMessageDispatch(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(slog.Default(), registry)
	handler := &recordingHandler{}
	hub.SetHandler(handler)

	hub.HandleClientMessage("a@x.io", []byte(`{"type":"send_message","data":{"recipient":"b@x.io","content":"hi"}}`))
	if len(handler.sends) != 1 || handler.sends[0] != "a@x.io->b@x.io:hi" {
		t.Fatalf("send dispatch = %v", handler.sends)
	}

	hub.HandleClientMessage("b@x.io", []byte(`{"type":"mark_read","data":{"message_id":42}}`))
	if len(handler.reads) != 1 || handler.reads[0] != 42 {
		t.Fatalf("mark_read dispatch = %v", handler.reads)
	}

	// Garbage and unknown types are dropped without dispatch.
	hub.HandleClientMessage("a@x.io", []byte(`not json`))
	hub.HandleClientMessage("a@x.io", []byte(`{"type":"typing","data":{}}`))
	hub.HandleClientMessage("b@x.io", []byte(`{"type":"mark_read","data":{"message_id":0}}`))
	if len(handler.sends) != 1 || len(handler.reads) != 1 {
		t.Fatalf("unexpected dispatches: sends=%v reads=%v", handler.sends, handler.reads)
	}
}

package chat

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"WhatsEase/entity"
	"WhatsEase/internal/ws"
)

const botID = "whatsease_bot"

type fakeRepo struct {
	mu         sync.Mutex
	nextID     int64
	messages   map[int64]*entity.Message
	activities []entity.ActivityLog
	failInsert bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{messages: make(map[int64]*entity.Message)}
}

func (r *fakeRepo) InsertMessage(msg *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert {
		return fmt.Errorf("insert failed")
	}
	r.nextID++
	msg.ID = r.nextID
	stored := *msg
	r.messages[msg.ID] = &stored
	return nil
}

func (r *fakeRepo) GetMessage(id int64) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil, nil
	}
	copied := *msg
	return &copied, nil
}

func (r *fakeRepo) AdvanceMessageStatus(id int64, from, to entity.MessageStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok || msg.Status != from {
		return false, nil
	}
	if !from.CanAdvance(to) {
		return false, fmt.Errorf("invalid transition %s -> %s", from, to)
	}
	msg.Status = to
	return true, nil
}

func (r *fakeRepo) MarkMessageRead(id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok || msg.Status == entity.StatusRead {
		return false, nil
	}
	msg.Status = entity.StatusRead
	return true, nil
}

func (r *fakeRepo) CountUnread(peer, viewer string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, msg := range r.messages {
		if msg.Sender == peer && msg.Recipient == viewer && msg.Status != entity.StatusRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) SaveActivity(entry entity.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, entry)
	return nil
}

func (r *fakeRepo) storedStatus(t *testing.T, id int64) entity.MessageStatus {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		t.Fatalf("message %d not stored", id)
	}
	return msg.Status
}

type fakePresence struct {
	online map[string]bool
}

func (p *fakePresence) IsPresent(identity string) bool {
	return p.online[identity]
}

type emitted struct {
	event   string
	payload interface{}
	room    string
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (e *fakeEmitter) Emit(event string, payload interface{}, room string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emitted{event: event, payload: payload, room: room})
}

func (e *fakeEmitter) inRoom(event, room string) []emitted {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []emitted
	for _, ev := range e.events {
		if ev.event == event && ev.room == room {
			out = append(out, ev)
		}
	}
	return out
}

func (e *fakeEmitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

type fakeResponder struct {
	asked []string
	reply string
}

func (r *fakeResponder) Respond(text string) string {
	r.asked = append(r.asked, text)
	return r.reply
}

func newTestService(repo *fakeRepo, online ...string) (*Service, *fakeEmitter, *fakeResponder) {
	presence := &fakePresence{online: make(map[string]bool)}
	for _, id := range online {
		presence.online[id] = true
	}
	emitter := &fakeEmitter{}
	responder := &fakeResponder{reply: "Hello! How can I help you today?"}
	svc := NewService(repo, presence, emitter, responder, botID, slog.Default())
	return svc, emitter, responder
}

func TestSendRecipientOffline(t *testing.T) {
	repo := newFakeRepo()
	svc, emitter, _ := newTestService(repo, "a@x.io")

	msg, err := svc.Send("a@x.io", "b@x.io", "hi")
	if err != nil {
		t.Fatalf("Send err: %v", err)
	}
	if msg == nil {
		t.Fatal("expected a persisted message")
	}

	if got := repo.storedStatus(t, msg.ID); got != entity.StatusSent {
		t.Fatalf("stored status = %s, want Sent", got)
	}

	echoes := emitter.inRoom(ws.EventMessage, ws.UserRoom("a@x.io"))
	if len(echoes) != 1 {
		t.Fatalf("sender echoes = %d, want 1", len(echoes))
	}
	echo := echoes[0].payload.(entity.Message)
	if echo.Status != entity.StatusSent || echo.Content != "hi" {
		t.Fatalf("unexpected echo payload: %+v", echo)
	}

	if got := emitter.inRoom(ws.EventMessage, ws.UserRoom("b@x.io")); len(got) != 0 {
		t.Fatalf("offline recipient received %d message events", len(got))
	}

	// The unread count still goes out for the recipient's (empty) room.
	unreads := emitter.inRoom(ws.EventUnread, ws.UserRoom("b@x.io"))
	if len(unreads) != 1 {
		t.Fatalf("unread events = %d, want 1", len(unreads))
	}
	if got := unreads[0].payload.(unreadPayload); got.Peer != "a@x.io" || got.Unread != 1 {
		t.Fatalf("unexpected unread payload: %+v", got)
	}
}

func TestSendRecipientOnline(t *testing.T) {
	repo := newFakeRepo()
	svc, emitter, _ := newTestService(repo, "a@x.io", "b@x.io")

	msg, err := svc.Send("a@x.io", "b@x.io", "hi")
	if err != nil {
		t.Fatalf("Send err: %v", err)
	}

	if got := repo.storedStatus(t, msg.ID); got != entity.StatusDelivered {
		t.Fatalf("stored status = %s, want Delivered", got)
	}
	if msg.Status != entity.StatusDelivered {
		t.Fatalf("returned status = %s, want Delivered", msg.Status)
	}

	echo := emitter.inRoom(ws.EventMessage, ws.UserRoom("a@x.io"))
	if len(echo) != 1 || echo[0].payload.(entity.Message).Status != entity.StatusSent {
		t.Fatalf("sender echo should carry the Sent status, got %+v", echo)
	}

	delivered := emitter.inRoom(ws.EventMessage, ws.UserRoom("b@x.io"))
	if len(delivered) != 1 {
		t.Fatalf("recipient message events = %d, want 1", len(delivered))
	}
	if got := delivered[0].payload.(entity.Message); got.Status != entity.StatusDelivered {
		t.Fatalf("recipient payload status = %s, want Delivered", got.Status)
	}

	unreads := emitter.inRoom(ws.EventUnread, ws.UserRoom("b@x.io"))
	if len(unreads) != 1 {
		t.Fatalf("unread events = %d, want 1", len(unreads))
	}
	if got := unreads[0].payload.(unreadPayload); got.Peer != "a@x.io" || got.Unread != 1 {
		t.Fatalf("unexpected unread payload: %+v", got)
	}
}

func TestSendValidation(t *testing.T) {
	repo := newFakeRepo()
	svc, emitter, _ := newTestService(repo, "a@x.io")

	for _, tc := range []struct {
		name      string
		recipient string
		content   string
	}{
		{"empty recipient", "", "hi"},
		{"empty content", "b@x.io", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := svc.Send("a@x.io", tc.recipient, tc.content)
			if err != nil {
				t.Fatalf("Send err: %v", err)
			}
			if msg != nil {
				t.Fatal("invalid message should not be persisted")
			}
		})
	}

	if len(repo.messages) != 0 {
		t.Fatalf("store has %d messages, want 0", len(repo.messages))
	}
	if emitter.count() != 0 {
		t.Fatalf("emitter saw %d events, want 0", emitter.count())
	}
}

func TestSendPersistenceFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failInsert = true
	svc, emitter, _ := newTestService(repo, "a@x.io", "b@x.io")

	if _, err := svc.Send("a@x.io", "b@x.io", "hi"); err == nil {
		t.Fatal("expected error from failed persistence")
	}
	if emitter.count() != 0 {
		t.Fatalf("emitter saw %d events after failed persist, want 0", emitter.count())
	}
}

func TestMarkRead(t *testing.T) {
	repo := newFakeRepo()
	svc, emitter, _ := newTestService(repo, "a@x.io", "b@x.io")

	msg, err := svc.Send("a@x.io", "b@x.io", "hi")
	if err != nil {
		t.Fatalf("Send err: %v", err)
	}

	if err := svc.MarkRead("b@x.io", msg.ID); err != nil {
		t.Fatalf("MarkRead err: %v", err)
	}

	if got := repo.storedStatus(t, msg.ID); got != entity.StatusRead {
		t.Fatalf("stored status = %s, want Read", got)
	}

	statuses := emitter.inRoom(ws.EventStatus, ws.UserRoom("a@x.io"))
	if len(statuses) != 1 {
		t.Fatalf("status events to sender = %d, want 1", len(statuses))
	}
	if got := statuses[0].payload.(statusPayload); got.MessageID != msg.ID || got.Status != entity.StatusRead {
		t.Fatalf("unexpected status payload: %+v", got)
	}

	unreads := emitter.inRoom(ws.EventUnread, ws.UserRoom("b@x.io"))
	last := unreads[len(unreads)-1].payload.(unreadPayload)
	if last.Peer != "a@x.io" || last.Unread != 0 {
		t.Fatalf("unexpected unread payload after read: %+v", last)
	}

	// A second acknowledgement is a no-op with no further events.
	after := emitter.count()
	if err := svc.MarkRead("b@x.io", msg.ID); err != nil {
		t.Fatalf("second MarkRead err: %v", err)
	}
	if emitter.count() != after {
		t.Fatalf("repeated MarkRead emitted %d extra events", emitter.count()-after)
	}
}

func TestMarkReadAuthorization(t *testing.T) {
	repo := newFakeRepo()
	svc, emitter, _ := newTestService(repo, "a@x.io", "b@x.io")

	msg, err := svc.Send("a@x.io", "b@x.io", "hi")
	if err != nil {
		t.Fatalf("Send err: %v", err)
	}
	before := emitter.count()

	// Neither the sender nor a third party may acknowledge, and the
	// attempt stays silent.
	for _, viewer := range []string{"a@x.io", "c@x.io"} {
		if err := svc.MarkRead(viewer, msg.ID); err != nil {
			t.Fatalf("MarkRead by %s err: %v", viewer, err)
		}
	}
	if err := svc.MarkRead("b@x.io", 9999); err != nil {
		t.Fatalf("MarkRead unknown id err: %v", err)
	}

	if got := repo.storedStatus(t, msg.ID); got == entity.StatusRead {
		t.Fatal("unauthorized acknowledgement changed the status")
	}
	if emitter.count() != before {
		t.Fatalf("silent no-op emitted %d events", emitter.count()-before)
	}
}

func TestUnreadCountDecrementsByOne(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, "a@x.io", "b@x.io")

	var ids []int64
	for i := 0; i < 3; i++ {
		msg, err := svc.Send("a@x.io", "b@x.io", fmt.Sprintf("msg %d", i))
		if err != nil {
			t.Fatalf("Send err: %v", err)
		}
		ids = append(ids, msg.ID)
	}

	count, err := svc.UnreadCount("a@x.io", "b@x.io")
	if err != nil {
		t.Fatalf("UnreadCount err: %v", err)
	}
	if count != 3 {
		t.Fatalf("unread = %d, want 3", count)
	}

	if err := svc.MarkRead("b@x.io", ids[0]); err != nil {
		t.Fatalf("MarkRead err: %v", err)
	}

	count, err = svc.UnreadCount("a@x.io", "b@x.io")
	if err != nil {
		t.Fatalf("UnreadCount err: %v", err)
	}
	if count != 2 {
		t.Fatalf("unread = %d, want 2", count)
	}
}

func TestDeliveredNeverOverwritesRead(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, "a@x.io", "b@x.io")

	msg, err := svc.Send("a@x.io", "b@x.io", "hi")
	if err != nil {
		t.Fatalf("Send err: %v", err)
	}
	if err := svc.MarkRead("b@x.io", msg.ID); err != nil {
		t.Fatalf("MarkRead err: %v", err)
	}

	// A late Delivered transition finds the row already moved on and
	// must match nothing.
	changed, err := repo.AdvanceMessageStatus(msg.ID, entity.StatusSent, entity.StatusDelivered)
	if err != nil {
		t.Fatalf("AdvanceMessageStatus err: %v", err)
	}
	if changed {
		t.Fatal("stale Delivered transition overwrote Read")
	}
	if got := repo.storedStatus(t, msg.ID); got != entity.StatusRead {
		t.Fatalf("stored status = %s, want Read", got)
	}
}

func TestBotConversation(t *testing.T) {
	repo := newFakeRepo()
	svc, emitter, responder := newTestService(repo, "a@x.io")

	msg, err := svc.Send("a@x.io", botID, "hello")
	if err != nil {
		t.Fatalf("Send err: %v", err)
	}
	if msg.IsBotResponse {
		t.Fatal("user message flagged as bot response")
	}

	if len(responder.asked) != 1 || responder.asked[0] != "hello" {
		t.Fatalf("responder asked with %v, want [hello]", responder.asked)
	}

	// The user's room sees their own echo plus the bot reply.
	events := emitter.inRoom(ws.EventMessage, ws.UserRoom("a@x.io"))
	if len(events) != 2 {
		t.Fatalf("user room message events = %d, want 2", len(events))
	}
	reply := events[1].payload.(entity.Message)
	if !reply.IsBotResponse {
		t.Fatal("bot reply not flagged as bot response")
	}
	if reply.Sender != botID || reply.Recipient != "a@x.io" {
		t.Fatalf("unexpected bot reply routing: %+v", reply)
	}
	// The asking user is connected, so the reply arrives Delivered.
	if reply.Status != entity.StatusDelivered {
		t.Fatalf("bot reply status = %s, want Delivered", reply.Status)
	}

	// The bot never replies to its own replies.
	if len(responder.asked) != 1 {
		t.Fatalf("responder invoked %d times, want 1", len(responder.asked))
	}
	if len(repo.messages) != 2 {
		t.Fatalf("store has %d messages, want 2", len(repo.messages))
	}
}

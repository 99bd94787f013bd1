package chat

import (
	"fmt"
	"log/slog"
	"time"

	"WhatsEase/entity"
	"WhatsEase/internal/lib/sl"
	"WhatsEase/internal/ws"
)

// Repository is the message store the delivery engine runs against.
type Repository interface {
	InsertMessage(msg *entity.Message) error
	GetMessage(id int64) (*entity.Message, error)
	AdvanceMessageStatus(id int64, from, to entity.MessageStatus) (bool, error)
	MarkMessageRead(id int64) (bool, error)
	CountUnread(peer, viewer string) (int, error)
	SaveActivity(entry entity.ActivityLog) error
}

// Presence answers whether an identity has a live connection.
type Presence interface {
	IsPresent(identity string) bool
}

// Emitter pushes an event to every connection in a room.
type Emitter interface {
	Emit(event string, payload interface{}, room string)
}

// Responder produces the bot reply for a message addressed to the
// reserved bot identity.
type Responder interface {
	Respond(text string) string
}

// Service is the delivery engine: it persists messages, fans them out
// by presence, drives the Sent -> Delivered -> Read lifecycle and the
// unread-count notifications derived from it.
type Service struct {
	repo      Repository
	presence  Presence
	emitter   Emitter
	responder Responder
	botID     string
	log       *slog.Logger
}

func NewService(repo Repository, presence Presence, emitter Emitter, responder Responder, botID string, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		presence:  presence,
		emitter:   emitter,
		responder: responder,
		botID:     botID,
		log:       logger.With(sl.Module("chat-service")),
	}
}

// statusPayload is the wire shape of a read receipt.
type statusPayload struct {
	MessageID int64                `json:"message_id"`
	Status    entity.MessageStatus `json:"status"`
}

// unreadPayload is the wire shape of an unread-count notification.
type unreadPayload struct {
	Peer   string `json:"peer"`
	Unread int    `json:"unread"`
}

// Send runs a message through the full delivery pipeline and returns
// the message as persisted. Empty recipient or content is dropped
// without error; a persistence failure aborts before any emit.
func (s *Service) Send(sender, recipient, content string) (*entity.Message, error) {
	return s.send(sender, recipient, content, false)
}

func (s *Service) send(sender, recipient, content string, botReply bool) (*entity.Message, error) {
	if recipient == "" || content == "" {
		s.log.Debug("dropping message without recipient or content", slog.String("sender", sender))
		return nil, nil
	}

	msg := &entity.Message{
		Sender:        sender,
		Recipient:     recipient,
		Content:       content,
		Timestamp:     time.Now().UTC(),
		Status:        entity.StatusSent,
		IsBotResponse: botReply,
	}

	if err := s.repo.InsertMessage(msg); err != nil {
		return nil, fmt.Errorf("persist message: %w", err)
	}

	s.logActivity(msg)

	// Optimistic echo to the sender's own connections, always with the
	// status as stored.
	s.emitter.Emit(ws.EventMessage, *msg, ws.UserRoom(sender))

	if s.presence.IsPresent(recipient) {
		delivered := *msg
		delivered.Status = entity.StatusDelivered
		s.emitter.Emit(ws.EventMessage, delivered, ws.UserRoom(recipient))

		ok, err := s.repo.AdvanceMessageStatus(msg.ID, entity.StatusSent, entity.StatusDelivered)
		if err != nil {
			s.log.Error("failed to advance message status",
				slog.Int64("message_id", msg.ID),
				sl.Err(err),
			)
		} else if ok {
			msg.Status = entity.StatusDelivered
		}
		// A no-op advance means the recipient read the message before
		// the transition landed; the stored Read status stands.
	}

	// The recipient's inbox badge changes whether or not delivery
	// happened, so the unread count goes out unconditionally.
	s.publishUnread(sender, recipient)

	if recipient == s.botID && !botReply {
		reply := s.responder.Respond(content)
		if _, err := s.send(s.botID, sender, reply, true); err != nil {
			s.log.Error("failed to deliver bot reply",
				slog.String("user", sender),
				sl.Err(err),
			)
		}
	}

	return msg, nil
}

// MarkRead acknowledges a message on behalf of its recipient. Unknown
// ids, foreign recipients, and repeated acknowledgements are silent
// no-ops so that message existence never leaks and duplicate events
// are never emitted.
func (s *Service) MarkRead(viewer string, messageID int64) error {
	msg, err := s.repo.GetMessage(messageID)
	if err != nil {
		return fmt.Errorf("load message: %w", err)
	}
	if msg == nil || msg.Recipient != viewer {
		return nil
	}
	if msg.Status == entity.StatusRead {
		return nil
	}

	changed, err := s.repo.MarkMessageRead(messageID)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	if !changed {
		// Lost the race to a concurrent acknowledgement.
		return nil
	}

	s.emitter.Emit(ws.EventStatus, statusPayload{
		MessageID: messageID,
		Status:    entity.StatusRead,
	}, ws.UserRoom(msg.Sender))

	s.publishUnread(msg.Sender, viewer)

	return nil
}

// UnreadCount counts messages from peer to viewer not yet read.
func (s *Service) UnreadCount(peer, viewer string) (int, error) {
	return s.repo.CountUnread(peer, viewer)
}

// publishUnread recomputes the (peer, viewer) unread count and pushes
// it to the viewer's room.
func (s *Service) publishUnread(peer, viewer string) {
	count, err := s.repo.CountUnread(peer, viewer)
	if err != nil {
		s.log.Error("failed to count unread",
			slog.String("peer", peer),
			slog.String("viewer", viewer),
			sl.Err(err),
		)
		return
	}

	s.emitter.Emit(ws.EventUnread, unreadPayload{
		Peer:   peer,
		Unread: count,
	}, ws.UserRoom(viewer))
}

func (s *Service) logActivity(msg *entity.Message) {
	action := entity.ActionMessageSent
	details := fmt.Sprintf("%s -> %s: %s", msg.Sender, msg.Recipient, truncate(msg.Content, 50))
	if msg.IsBotResponse {
		action = entity.ActionBotResponse
		details = fmt.Sprintf("Bot responded to %s: %s", msg.Recipient, truncate(msg.Content, 50))
	}

	err := s.repo.SaveActivity(entity.ActivityLog{
		UserEmail: msg.Sender,
		Action:    action,
		Details:   details,
		Timestamp: msg.Timestamp,
	})
	if err != nil {
		s.log.Warn("failed to save activity", sl.Err(err))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

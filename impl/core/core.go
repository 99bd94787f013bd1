package core

import (
	"errors"
	"log/slog"
	"strings"

	"WhatsEase/entity"
	"WhatsEase/internal/lib/sl"
)

const activityPageSize = 50

var ErrInvalidRecipient = errors.New("invalid recipient email")

// Repository covers the read paths the REST surface needs.
type Repository interface {
	GetUserByEmail(email string) (*entity.User, error)
	ListUsers(exclude string) ([]entity.User, error)
	GetConversation(a, b string) ([]entity.Message, error)
	GetRecentActivity(limit int) ([]entity.ActivityLog, error)
}

// AuthService handles accounts and tokens.
type AuthService interface {
	Register(email, password string) (*entity.User, error)
	Login(email, password string) (*entity.Session, error)
	AuthenticateByToken(token string) (*entity.UserAuth, error)
}

// ChatService is the delivery engine.
type ChatService interface {
	Send(sender, recipient, content string) (*entity.Message, error)
	MarkRead(viewer string, messageID int64) error
	UnreadCount(peer, viewer string) (int, error)
}

// Core wires the services behind the HTTP handlers and the WebSocket
// hub. It owns no state of its own.
type Core struct {
	repo        Repository
	authService AuthService
	chatService ChatService
	botID       string
	log         *slog.Logger
}

func New(log *slog.Logger, botID string) *Core {
	return &Core{
		botID: botID,
		log:   log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetAuthService(authService AuthService) {
	c.authService = authService
}

func (c *Core) SetChatService(chatService ChatService) {
	c.chatService = chatService
}

func (c *Core) RegisterUser(email, password string) (*entity.User, error) {
	return c.authService.Register(email, password)
}

func (c *Core) LoginUser(email, password string) (*entity.Session, error) {
	return c.authService.Login(email, password)
}

func (c *Core) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	return c.authService.AuthenticateByToken(token)
}

func (c *Core) GetUser(email string) (*entity.User, error) {
	return c.repo.GetUserByEmail(email)
}

// GetInbox lists every other registered user together with how many of
// their messages the viewer has not read yet. The bot peer is always
// part of the list.
func (c *Core) GetInbox(viewer string) ([]entity.InboxEntry, error) {
	users, err := c.repo.ListUsers(viewer)
	if err != nil {
		return nil, err
	}

	entries := make([]entity.InboxEntry, 0, len(users)+1)
	peers := make([]string, 0, len(users)+1)
	peers = append(peers, c.botID)
	for _, u := range users {
		if u.Email == c.botID {
			continue
		}
		peers = append(peers, u.Email)
	}

	for _, peer := range peers {
		unread, err := c.chatService.UnreadCount(peer, viewer)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entity.InboxEntry{
			Email:  peer,
			Unread: unread,
		})
	}

	return entries, nil
}

func (c *Core) GetConversation(viewer, peer string) ([]entity.Message, error) {
	return c.repo.GetConversation(viewer, peer)
}

// PostMessage is the REST send path. It runs through the same delivery
// engine as the socket path, so connected parties still get their
// realtime events.
func (c *Core) PostMessage(sender, recipient, content string) (*entity.Message, error) {
	if recipient != c.botID && !strings.Contains(recipient, "@") {
		return nil, ErrInvalidRecipient
	}
	return c.chatService.Send(sender, recipient, content)
}

func (c *Core) GetActivity() ([]entity.ActivityLog, error) {
	return c.repo.GetRecentActivity(activityPageSize)
}

// HandleSendMessage implements ws.ClientMessageHandler.
func (c *Core) HandleSendMessage(sender, recipient, content string) error {
	_, err := c.chatService.Send(sender, recipient, content)
	return err
}

// HandleMarkRead implements ws.ClientMessageHandler.
func (c *Core) HandleMarkRead(viewer string, messageID int64) error {
	return c.chatService.MarkRead(viewer, messageID)
}

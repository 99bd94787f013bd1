package user

import (
	"WhatsEase/entity"
)

// Core defines the methods required by user handlers.
type Core interface {
	GetUser(email string) (*entity.User, error)
	GetInbox(viewer string) ([]entity.InboxEntry, error)
}

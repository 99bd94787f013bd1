package message

import (
	"WhatsEase/entity"
)

// Core defines the methods required by message handlers.
type Core interface {
	GetConversation(viewer, peer string) ([]entity.Message, error)
	PostMessage(sender, recipient, content string) (*entity.Message, error)
}

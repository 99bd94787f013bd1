package auth

import (
	"WhatsEase/entity"
)

// Core defines the methods required by auth handlers.
type Core interface {
	RegisterUser(email, password string) (*entity.User, error)
	LoginUser(email, password string) (*entity.Session, error)
}

package entity

import (
	"time"
)

// User is a registered account. Email doubles as the chat identity.
type User struct {
	Email          string    `json:"email" bson:"email" validate:"required,email"`
	HashedPassword string    `json:"-" bson:"hashed_password"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// InboxEntry is one row of the inbox list: a peer and how many of
// their messages the viewer has not read yet.
type InboxEntry struct {
	Email  string `json:"email" bson:"email"`
	Unread int    `json:"unread" bson:"unread"`
}

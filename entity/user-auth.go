package entity

import (
	"time"
)

// UserAuth carries the authenticated identity attached to a request or
// a live connection after token validation.
type UserAuth struct {
	Email string `json:"email" bson:"email" validate:"required,email"`
	Token string `json:"token" bson:"token" validate:"required,min=1"`
}

// Session is an issued access token with its expiry.
type Session struct {
	Token     string    `json:"token" bson:"token"`
	Email     string    `json:"email" bson:"email"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

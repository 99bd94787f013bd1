package entity

import (
	"time"
)

const (
	ActionMessageSent = "message_sent"
	ActionBotResponse = "bot_response"
)

// ActivityLog is one append-only audit row.
type ActivityLog struct {
	UserEmail string    `json:"user_email" bson:"user_email"`
	Action    string    `json:"action" bson:"action"`
	Details   string    `json:"details" bson:"details"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

package entity

import (
	"time"
)

// MessageStatus is the delivery state of a message. It only ever moves
// forward: Sent -> Delivered -> Read.
type MessageStatus string

const (
	StatusSent      MessageStatus = "Sent"
	StatusDelivered MessageStatus = "Delivered"
	StatusRead      MessageStatus = "Read"
)

var statusRank = map[MessageStatus]int{
	StatusSent:      0,
	StatusDelivered: 1,
	StatusRead:      2,
}

// Valid reports whether s is one of the known statuses.
func (s MessageStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvance reports whether a transition from s to next moves the
// lifecycle forward. Same-state transitions are not advances.
func (s MessageStatus) CanAdvance(next MessageStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Message is a single chat message between two identities.
type Message struct {
	ID            int64         `json:"id" bson:"_id"`
	Sender        string        `json:"sender" bson:"sender"`
	Recipient     string        `json:"recipient" bson:"recipient"`
	Content       string        `json:"content" bson:"content"`
	Timestamp     time.Time     `json:"timestamp" bson:"timestamp"`
	Status        MessageStatus `json:"status" bson:"status"`
	IsBotResponse bool          `json:"is_bot_response" bson:"is_bot_response"`
}

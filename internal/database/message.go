package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"WhatsEase/entity"
)

// InsertMessage assigns the next monotonic id to msg and persists it.
// On error nothing is stored and msg.ID is left untouched.
func (m *MongoDB) InsertMessage(msg *entity.Message) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	id, err := m.nextSequence(connection, messagesCollection)
	if err != nil {
		return err
	}

	stored := *msg
	stored.ID = id

	collection := connection.Database(m.database).Collection(messagesCollection)
	_, err = collection.InsertOne(m.ctx, stored)
	if err != nil {
		return fmt.Errorf("mongodb insert message: %w", err)
	}

	msg.ID = id
	return nil
}

// GetMessage returns the message with the given id, or nil when absent.
func (m *MongoDB) GetMessage(id int64) (*entity.Message, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messagesCollection)

	var msg entity.Message
	err = collection.FindOne(m.ctx, bson.D{{Key: "_id", Value: id}}).Decode(&msg)
	if err != nil {
		return nil, m.findError(err)
	}

	return &msg, nil
}

// AdvanceMessageStatus moves a message from one status to the next.
// The update filters on the current status, so a transition that lost
// a race (the row moved on in the meantime) matches nothing and the
// later state is never overwritten. Returns whether the row changed.
func (m *MongoDB) AdvanceMessageStatus(id int64, from, to entity.MessageStatus) (bool, error) {
	if !from.CanAdvance(to) {
		return false, fmt.Errorf("invalid status transition %s -> %s", from, to)
	}

	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messagesCollection)

	filter := bson.D{{Key: "_id", Value: id}, {Key: "status", Value: from}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: to}}}}

	result, err := collection.UpdateOne(m.ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("mongodb update message status: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

// MarkMessageRead sets status to Read unless it already is. Returns
// whether this call performed the transition.
func (m *MongoDB) MarkMessageRead(id int64) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messagesCollection)

	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "status", Value: bson.D{{Key: "$ne", Value: entity.StatusRead}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: entity.StatusRead}}}}

	result, err := collection.UpdateOne(m.ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("mongodb mark message read: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

// CountUnread counts messages from peer to viewer not yet read.
func (m *MongoDB) CountUnread(peer, viewer string) (int, error) {
	connection, err := m.connect()
	if err != nil {
		return 0, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messagesCollection)

	filter := bson.D{
		{Key: "sender", Value: peer},
		{Key: "recipient", Value: viewer},
		{Key: "status", Value: bson.D{{Key: "$ne", Value: entity.StatusRead}}},
	}

	count, err := collection.CountDocuments(m.ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("mongodb count unread: %w", err)
	}

	return int(count), nil
}

// GetConversation returns the full two-way history between a and b,
// oldest first.
func (m *MongoDB) GetConversation(a, b string) ([]entity.Message, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messagesCollection)

	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "sender", Value: a}, {Key: "recipient", Value: b}},
		bson.D{{Key: "sender", Value: b}, {Key: "recipient", Value: a}},
	}}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find conversation: %w", err)
	}
	defer cursor.Close(m.ctx)

	var messages []entity.Message
	if err = cursor.All(m.ctx, &messages); err != nil {
		return nil, fmt.Errorf("mongodb decode conversation: %w", err)
	}

	return messages, nil
}

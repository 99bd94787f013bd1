package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"WhatsEase/entity"
)

// SaveSession stores an issued access token.
func (m *MongoDB) SaveSession(session entity.Session) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)
	_, err = collection.InsertOne(m.ctx, session)
	if err != nil {
		return fmt.Errorf("mongodb insert session: %w", err)
	}

	return nil
}

// GetSession looks a token up, returning nil when unknown.
func (m *MongoDB) GetSession(token string) (*entity.Session, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)

	var session entity.Session
	err = collection.FindOne(m.ctx, bson.D{{Key: "token", Value: token}}).Decode(&session)
	if err != nil {
		return nil, m.findError(err)
	}

	return &session, nil
}

// DeleteSession revokes a token. Unknown tokens are a no-op.
func (m *MongoDB) DeleteSession(token string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)
	_, err = collection.DeleteOne(m.ctx, bson.D{{Key: "token", Value: token}})
	if err != nil {
		return fmt.Errorf("mongodb delete session: %w", err)
	}

	return nil
}

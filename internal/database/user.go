package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"WhatsEase/entity"
)

var ErrUserExists = fmt.Errorf("user already exists")

// CreateUser inserts a new account. Fails with ErrUserExists when the
// email is already registered.
func (m *MongoDB) CreateUser(user entity.User) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)

	count, err := collection.CountDocuments(m.ctx, bson.D{{Key: "email", Value: user.Email}})
	if err != nil {
		return fmt.Errorf("mongodb count users: %w", err)
	}
	if count > 0 {
		return ErrUserExists
	}

	_, err = collection.InsertOne(m.ctx, user)
	if err != nil {
		return fmt.Errorf("mongodb insert user: %w", err)
	}

	return nil
}

// GetUserByEmail returns the account with the given email, or nil.
func (m *MongoDB) GetUserByEmail(email string) (*entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)

	var user entity.User
	err = collection.FindOne(m.ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if err != nil {
		return nil, m.findError(err)
	}

	return &user, nil
}

// ListUsers returns all accounts except the excluded email, sorted by
// email for a stable inbox order.
func (m *MongoDB) ListUsers(exclude string) ([]entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)

	filter := bson.D{{Key: "email", Value: bson.D{{Key: "$ne", Value: exclude}}}}
	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})

	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find users: %w", err)
	}
	defer cursor.Close(m.ctx)

	var users []entity.User
	if err = cursor.All(m.ctx, &users); err != nil {
		return nil, fmt.Errorf("mongodb decode users: %w", err)
	}

	return users, nil
}

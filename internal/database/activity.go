package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"WhatsEase/entity"
)

// SaveActivity appends one audit row.
func (m *MongoDB) SaveActivity(entry entity.ActivityLog) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(activityCollection)
	_, err = collection.InsertOne(m.ctx, entry)
	if err != nil {
		return fmt.Errorf("mongodb insert activity: %w", err)
	}

	return nil
}

// GetRecentActivity returns the newest rows first, up to limit.
func (m *MongoDB) GetRecentActivity(limit int) ([]entity.ActivityLog, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(activityCollection)

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(m.ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find activity: %w", err)
	}
	defer cursor.Close(m.ctx)

	var logs []entity.ActivityLog
	if err = cursor.All(m.ctx, &logs); err != nil {
		return nil, fmt.Errorf("mongodb decode activity: %w", err)
	}

	return logs, nil
}

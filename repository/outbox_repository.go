package repository

import (
	"context"
	"time"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/database"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OutboxRepository stores domain events written in the same unit of work as the
// business change that produced them.
type OutboxRepository interface {
	Append(ctx context.Context, event *models.OutboxEvent) error
	FindPending(ctx context.Context, limit, maxAttempts int) ([]*models.OutboxEvent, error)
	MarkDispatched(ctx context.Context, id primitive.ObjectID, at time.Time) error
	MarkFailed(ctx context.Context, id primitive.ObjectID, reason string) error
}

type MongoOutboxRepository struct {
	collection *mongo.Collection
}

func NewMongoOutboxRepository(db *mongo.Database) OutboxRepository {
	return &MongoOutboxRepository{collection: db.Collection(database.OutboxCollection)}
}

func (r *MongoOutboxRepository) Append(ctx context.Context, event *models.OutboxEvent) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, event)
	return translate(err)
}

// FindPending returns undispatched events oldest first, skipping those that
// already failed maxAttempts times.
func (r *MongoOutboxRepository) FindPending(ctx context.Context, limit, maxAttempts int) ([]*models.OutboxEvent, error) {
	filter := bson.M{"dispatchedAt": bson.M{"$exists": false}}
	if maxAttempts > 0 {
		filter["attempts"] = bson.M{"$lt": maxAttempts}
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []*models.OutboxEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *MongoOutboxRepository) MarkDispatched(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"dispatchedAt": at},
		"$inc":   bson.M{"attempts": 1},
		"$unset": bson.M{"lastError": ""},
	})
	return err
}

func (r *MongoOutboxRepository) MarkFailed(ctx context.Context, id primitive.ObjectID, reason string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"lastError": reason},
		"$inc": bson.M{"attempts": 1},
	})
	return err
}

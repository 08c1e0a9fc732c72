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

type WishlistRepository interface {
	Add(ctx context.Context, entry *models.WishlistEntry) error
	FindByEmail(ctx context.Context, email string) ([]*models.WishlistEntry, error)
	Exists(ctx context.Context, email string, itemID primitive.ObjectID) (bool, error)
	Remove(ctx context.Context, email string, itemID primitive.ObjectID) error
	RemoveItem(ctx context.Context, itemID primitive.ObjectID) (int64, error)
}

type MongoWishlistRepository struct {
	collection *mongo.Collection
}

func NewMongoWishlistRepository(db *mongo.Database) WishlistRepository {
	return &MongoWishlistRepository{collection: db.Collection(database.WishlistsCollection)}
}

// Add inserts the pair. The compound unique index reports repeats as ErrDuplicate.
func (r *MongoWishlistRepository) Add(ctx context.Context, entry *models.WishlistEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, entry)
	return translate(err)
}

func (r *MongoWishlistRepository) FindByEmail(ctx context.Context, email string) ([]*models.WishlistEntry, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"email": email}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []*models.WishlistEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *MongoWishlistRepository) Exists(ctx context.Context, email string, itemID primitive.ObjectID) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"email": email, "itemId": itemID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoWishlistRepository) Remove(ctx context.Context, email string, itemID primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"email": email, "itemId": itemID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveItem drops the item from every wishlist after the item is deleted.
func (r *MongoWishlistRepository) RemoveItem(ctx context.Context, itemID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"itemId": itemID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

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

// ItemRepository defines the data access used by the item catalog and the order ledger.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Item, error)
	Find(ctx context.Context, filter models.ItemFilter) ([]*models.Item, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Item, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DecrementStock removes qty units only when at least qty remain and returns
	// the item as it was before the decrement.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Item, error)
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	Count(ctx context.Context) (int64, error)
}

type MongoItemRepository struct {
	collection *mongo.Collection
}

func NewMongoItemRepository(db *mongo.Database) ItemRepository {
	return &MongoItemRepository{collection: db.Collection(database.ItemsCollection)}
}

func (r *MongoItemRepository) Create(ctx context.Context, item *models.Item) error {
	now := time.Now().UTC()
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	item.CreatedAt, item.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, item)
	return translate(err)
}

func (r *MongoItemRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	var item models.Item
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *MongoItemRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Item, error) {
	if len(ids) == 0 {
		return []*models.Item{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *MongoItemRepository) Find(ctx context.Context, f models.ItemFilter) ([]*models.Item, int64, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.ListingType != "" {
		filter["listingType"] = f.ListingType
	}
	if f.Email != "" {
		filter["email"] = f.Email
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Limit > 0 {
		findOptions.SetLimit(int64(f.Limit))
		if f.Page > 1 {
			findOptions.SetSkip(int64((f.Page - 1) * f.Limit))
		}
	}

	items, err := r.find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MongoItemRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]*models.Item, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []*models.Item{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoItemRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Item, error) {
	set := bson.M{}
	for k, v := range updates {
		set[k] = v
	}
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item models.Item
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&item)
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *MongoItemRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoItemRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Item, error) {
	filter := bson.M{"_id": id, "quantity": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"quantity": -qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	var item models.Item
	err := r.collection.FindOneAndUpdate(ctx, filter, update).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrOutOfStock
		}
		return nil, err
	}
	return &item, nil
}

func (r *MongoItemRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	update := bson.M{
		"$inc": bson.M{"quantity": qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoItemRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

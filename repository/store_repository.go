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

type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByEmail(ctx context.Context, email string) (*models.Store, error)
	Update(ctx context.Context, email string, updates map[string]interface{}) (*models.Store, error)
	FindAll(ctx context.Context) ([]*models.Store, error)
	Count(ctx context.Context) (int64, error)
}

type MongoStoreRepository struct {
	collection *mongo.Collection
}

func NewMongoStoreRepository(db *mongo.Database) StoreRepository {
	return &MongoStoreRepository{collection: db.Collection(database.StoresCollection)}
}

// Create inserts the store. The unique email index turns a second store into ErrDuplicate.
func (r *MongoStoreRepository) Create(ctx context.Context, store *models.Store) error {
	now := time.Now().UTC()
	if store.ID.IsZero() {
		store.ID = primitive.NewObjectID()
	}
	store.CreatedAt, store.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, store)
	return translate(err)
}

func (r *MongoStoreRepository) FindByEmail(ctx context.Context, email string) (*models.Store, error) {
	var store models.Store
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&store); err != nil {
		return nil, translate(err)
	}
	return &store, nil
}

func (r *MongoStoreRepository) Update(ctx context.Context, email string, updates map[string]interface{}) (*models.Store, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range updates {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var store models.Store
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": set}, opts).Decode(&store); err != nil {
		return nil, translate(err)
	}
	return &store, nil
}

func (r *MongoStoreRepository) FindAll(ctx context.Context) ([]*models.Store, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stores := []*models.Store{}
	if err := cursor.All(ctx, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *MongoStoreRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

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

type SellerRepository interface {
	Create(ctx context.Context, app *models.SellerApplication) error
	FindByEmail(ctx context.Context, email string) (*models.SellerApplication, error)
	FindAll(ctx context.Context, status models.ApplicationStatus) ([]*models.SellerApplication, error)
	// Decide moves a pending application to status. It returns ErrConflict when
	// the application exists but is no longer pending.
	Decide(ctx context.Context, email string, status models.ApplicationStatus) (*models.SellerApplication, error)
	// Reopen puts a decided application back to pending. It only undoes a
	// decision whose follow-up writes failed outside a transaction.
	Reopen(ctx context.Context, email string) error
	CountByStatus(ctx context.Context, status models.ApplicationStatus) (int64, error)
}

type MongoSellerRepository struct {
	collection *mongo.Collection
}

func NewMongoSellerRepository(db *mongo.Database) SellerRepository {
	return &MongoSellerRepository{collection: db.Collection(database.SellerRequestsCollection)}
}

func (r *MongoSellerRepository) Create(ctx context.Context, app *models.SellerApplication) error {
	now := time.Now().UTC()
	if app.ID.IsZero() {
		app.ID = primitive.NewObjectID()
	}
	if app.Status == "" {
		app.Status = models.ApplicationPending
	}
	app.CreatedAt, app.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, app)
	return translate(err)
}

func (r *MongoSellerRepository) FindByEmail(ctx context.Context, email string) (*models.SellerApplication, error) {
	var app models.SellerApplication
	if err := r.collection.FindOne(ctx, bson.M{"personalInfo.email": email}).Decode(&app); err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (r *MongoSellerRepository) FindAll(ctx context.Context, status models.ApplicationStatus) ([]*models.SellerApplication, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	apps := []*models.SellerApplication{}
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *MongoSellerRepository) Decide(ctx context.Context, email string, status models.ApplicationStatus) (*models.SellerApplication, error) {
	filter := bson.M{"personalInfo.email": email, "status": models.ApplicationPending}
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var app models.SellerApplication
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&app)
	if err == nil {
		return &app, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}
	if _, findErr := r.FindByEmail(ctx, email); findErr != nil {
		return nil, findErr
	}
	return nil, ErrConflict
}

func (r *MongoSellerRepository) Reopen(ctx context.Context, email string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"personalInfo.email": email},
		bson.M{"$set": bson.M{"status": models.ApplicationPending, "updatedAt": time.Now().UTC()}},
	)
	return err
}

func (r *MongoSellerRepository) CountByStatus(ctx context.Context, status models.ApplicationStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}

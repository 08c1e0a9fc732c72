package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names.
const (
	ItemsCollection               = "items"
	StoresCollection              = "stores"
	OrdersCollection              = "orders"
	SellerRequestsCollection      = "sellerrequests"
	UsersCollection               = "users"
	NotificationsCollection       = "notifications"
	SellerNotificationsCollection = "sellernotifications"
	WishlistsCollection           = "wishlists"
	OutboxCollection              = "outbox"
)

// Indexes lists every index the service relies on, keyed by collection.
func Indexes() map[string][]mongo.IndexModel {
	unique := func(name string) *options.IndexOptions {
		return options.Index().SetUnique(true).SetName(name)
	}
	return map[string][]mongo.IndexModel{
		ItemsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		StoresCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique("uniq_store_email")},
		},
		OrdersCollection: {
			{Keys: bson.D{{Key: "sellerEmail", Value: 1}, {Key: "orderDate", Value: -1}}},
			{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "orderDate", Value: -1}}},
		},
		SellerRequestsCollection: {
			{Keys: bson.D{{Key: "personalInfo.email", Value: 1}}, Options: unique("uniq_applicant_email")},
			{Keys: bson.D{{Key: "businessInfo.registrationNumber", Value: 1}}, Options: unique("uniq_registration_number")},
			{Keys: bson.D{{Key: "businessInfo.taxId", Value: 1}}, Options: unique("uniq_tax_id")},
			{Keys: bson.D{{Key: "businessInfo.businessEmail", Value: 1}}, Options: unique("uniq_business_email")},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique("uniq_user_email")},
			{Keys: bson.D{{Key: "mobile", Value: 1}}, Options: unique("uniq_user_mobile").SetSparse(true)},
		},
		NotificationsCollection: {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		SellerNotificationsCollection: {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		WishlistsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "itemId", Value: 1}}, Options: unique("uniq_wishlist_pair")},
		},
		OutboxCollection: {
			{Keys: bson.D{{Key: "dispatchedAt", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}
}

// EnsureIndexes creates the indexes returned by Indexes. Creating an existing index is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range Indexes() {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		zap.L().Info("Indexes ensured", zap.String("collection", collection), zap.Strings("indexes", names))
	}
	return nil
}

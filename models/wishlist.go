package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistEntry associates a user email with an item. The pair is unique.
type WishlistEntry struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	ItemID    primitive.ObjectID `json:"itemId" bson:"itemId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type AddWishlistRequest struct {
	Email  string `json:"email" binding:"required,email"`
	ItemID string `json:"itemId" binding:"required"`
}

// WishlistView is an entry joined with its item. Item is nil when the item was removed.
type WishlistView struct {
	WishlistEntry `bson:",inline"`
	Item          *Item `json:"item" bson:"item,omitempty"`
}

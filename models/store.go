package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the one-per-seller storefront; items cannot be listed until it exists.
type Store struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email       string             `json:"email" bson:"email"`
	StoreName   string             `json:"storeName" bson:"storeName"`
	Description string             `json:"description" bson:"description"`
	Phone       string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address     string             `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateStoreRequest struct {
	Email       string `json:"email" binding:"required,email"`
	StoreName   string `json:"storeName" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=1000"`
	Phone       string `json:"phone" binding:"omitempty,max=20"`
	Address     string `json:"address" binding:"omitempty,max=300"`
}

type UpdateStoreRequest struct {
	StoreName   *string `json:"storeName" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	Address     *string `json:"address" binding:"omitempty,max=300"`
}

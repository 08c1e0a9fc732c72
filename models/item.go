package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingType is how an item is sold.
type ListingType string

const (
	ListingFixed   ListingType = "Fixed"
	ListingAuction ListingType = "Auction"
)

// Item is a sellable listing owned by the seller identified by Email.
type Item struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title          string             `json:"title" bson:"title"`
	Category       string             `json:"category" bson:"category"`
	Condition      string             `json:"condition" bson:"condition"`
	Description    string             `json:"description" bson:"description"`
	Price          float64            `json:"price" bson:"price"`
	Quantity       int                `json:"quantity" bson:"quantity"`
	ListingType    ListingType        `json:"listingType" bson:"listingType"`
	StartingBid    float64            `json:"startingBid,omitempty" bson:"startingBid,omitempty"`
	ShippingCost   float64            `json:"shippingCost" bson:"shippingCost"`
	ShippingMethod string             `json:"shippingMethod,omitempty" bson:"shippingMethod,omitempty"`
	HandlingTime   string             `json:"handlingTime,omitempty" bson:"handlingTime,omitempty"`
	ReturnPolicy   string             `json:"returnPolicy,omitempty" bson:"returnPolicy,omitempty"`
	Location       string             `json:"location,omitempty" bson:"location,omitempty"`
	Images         []string           `json:"images" bson:"images"`
	Email          string             `json:"email" bson:"email"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// InStock reports whether at least qty units remain.
func (i *Item) InStock(qty int) bool {
	return i.Quantity >= qty
}

// ItemInput carries the validated, non-file fields of an item form.
type ItemInput struct {
	Title          string
	Category       string
	Condition      string
	Description    string
	Price          float64
	Quantity       int
	ListingType    ListingType
	StartingBid    float64
	ShippingCost   float64
	ShippingMethod string
	HandlingTime   string
	ReturnPolicy   string
	Location       string
	Email          string
}

// ItemFilter narrows catalog listings.
type ItemFilter struct {
	Category    string
	ListingType string
	Email       string
	Page        int
	Limit       int
}

// ItemPage is one page of a catalog listing.
type ItemPage struct {
	Items []*Item `json:"items"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

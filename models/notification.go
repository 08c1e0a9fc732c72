package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audience selects which of the two notification logs a record belongs to.
type Audience string

const (
	AudienceAdmin  Audience = "admin"
	AudienceSeller Audience = "seller"
)

// AdminRecipient is the recipient string used for the shared admin log.
const AdminRecipient = "admin"

const (
	NotificationSellerApplication = "seller_application"
	NotificationSellerApproved    = "seller_approved"
)

// Notification is one entry of either log. Recipient holds "admin" for the admin
// log and the seller's email for the seller log.
type Notification struct {
	ID          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Recipient   string              `json:"recipient" bson:"recipient"`
	Title       string              `json:"title" bson:"title"`
	Message     string              `json:"message" bson:"message"`
	Type        string              `json:"type" bson:"type"`
	ReferenceID *primitive.ObjectID `json:"referenceId,omitempty" bson:"referenceId,omitempty"`
	IsRead      bool                `json:"isRead" bson:"isRead"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
}

// NotificationFeed is a recipient's log with its unread count.
type NotificationFeed struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unreadCount"`
}

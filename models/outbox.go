package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Domain event types written to the outbox.
const (
	EventOrderCreated               = "order.created"
	EventOrderStatusChanged         = "order.status_changed"
	EventOrderConfirmation          = "order.confirmation_requested"
	EventSellerApplicationSubmitted = "seller.application_submitted"
	EventSellerApproved             = "seller.approved"
)

// OutboxEvent is a domain event stored alongside the business write that produced it.
// DispatchedAt stays nil until a publisher has accepted the event.
type OutboxEvent struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	EventType    string             `json:"eventType" bson:"eventType"`
	AggregateID  string             `json:"aggregateId" bson:"aggregateId"`
	Payload      []byte             `json:"payload" bson:"payload"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	DispatchedAt *time.Time         `json:"dispatchedAt,omitempty" bson:"dispatchedAt,omitempty"`
	Attempts     int                `json:"attempts" bson:"attempts"`
	LastError    string             `json:"lastError,omitempty" bson:"lastError,omitempty"`
}

// OrderEvent is the payload of order events.
type OrderEvent struct {
	OrderID     string      `json:"orderId"`
	UserEmail   string      `json:"userEmail"`
	SellerEmail string      `json:"sellerEmail"`
	ItemTitle   string      `json:"itemTitle"`
	Quantity    int         `json:"quantity"`
	TotalAmount float64     `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
	Notify      bool        `json:"notify,omitempty"`
}

// SellerEvent is the payload of seller workflow events.
type SellerEvent struct {
	ApplicationID string `json:"applicationId"`
	Email         string `json:"email"`
	FullName      string `json:"fullName"`
	BusinessName  string `json:"businessName"`
}

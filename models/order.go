package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is one of the allow-listed order states.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every valid status in lifecycle order.
var OrderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

// Valid reports membership in the allow-list. Any valid status may follow any other.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ItemSnapshot freezes what the buyer saw at purchase time. It is copied once
// when the order is created and never re-derived from the item.
type ItemSnapshot struct {
	Title    string  `json:"title" bson:"title"`
	Price    float64 `json:"price" bson:"price"`
	Image    string  `json:"image" bson:"image"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

type ShippingDetails struct {
	Name    string `json:"name" bson:"name" binding:"required,max=100"`
	Email   string `json:"email" bson:"email" binding:"required,email"`
	Phone   string `json:"phone" bson:"phone" binding:"required,max=20"`
	Address string `json:"address" bson:"address" binding:"required,max=300"`
	City    string `json:"city" bson:"city" binding:"required,max=100"`
	ZipCode string `json:"zipCode" bson:"zipCode" binding:"required,max=20"`
}

// PaymentDetails is all that is kept of a card: never the full number.
type PaymentDetails struct {
	CardLast4  string `json:"cardLast4" bson:"cardLast4"`
	ExpiryDate string `json:"expiryDate" bson:"expiryDate"`
}

type Order struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserEmail       string             `json:"userEmail" bson:"userEmail"`
	SellerEmail     string             `json:"sellerEmail" bson:"sellerEmail"`
	ItemID          primitive.ObjectID `json:"itemId" bson:"itemId"`
	ItemDetails     ItemSnapshot       `json:"itemDetails" bson:"itemDetails"`
	ShippingDetails ShippingDetails    `json:"shippingDetails" bson:"shippingDetails"`
	PaymentDetails  PaymentDetails     `json:"paymentDetails" bson:"paymentDetails"`
	OrderStatus     OrderStatus        `json:"orderStatus" bson:"orderStatus"`
	ShippingCost    float64            `json:"shippingCost" bson:"shippingCost"`
	TotalAmount     float64            `json:"totalAmount" bson:"totalAmount"`
	OrderDate       time.Time          `json:"orderDate" bson:"orderDate"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PaymentInput is the card data accepted at checkout. Only the last four digits
// and the expiry survive past the request.
type PaymentInput struct {
	CardNumber string `json:"cardNumber" binding:"required,numeric,min=12,max=19"`
	ExpiryDate string `json:"expiryDate" binding:"required,max=7"`
	CVV        string `json:"cvv" binding:"omitempty,numeric,min=3,max=4"`
}

type CreateOrderRequest struct {
	ItemID          string          `json:"itemId" binding:"required"`
	Quantity        int             `json:"quantity" binding:"omitempty,min=1,max=100"`
	ShippingDetails ShippingDetails `json:"shippingDetails" binding:"required"`
	PaymentDetails  PaymentInput    `json:"paymentDetails" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status           OrderStatus `json:"status" binding:"required"`
	SendNotification bool        `json:"sendNotification"`
	BuyerEmail       string      `json:"buyerEmail" binding:"omitempty,email"`
	ItemTitle        string      `json:"itemTitle"`
	SellerEmail      string      `json:"sellerEmail" binding:"omitempty,email"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. Stored lowercase in mongo and on the wire.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
	OrderRefunded   = "refunded"
)

// OrderItem represents a single product entry within an order. Price is the
// unit price captured at order-creation time and is never recomputed from the
// live product price.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// OrderAddress is a snapshot of the shipping address at checkout time. The
// user's address book can change later without touching historical orders.
type OrderAddress struct {
	Title  string `bson:"title" json:"title"`
	Detail string `bson:"detail" json:"detail"`
	Note   string `bson:"note,omitempty" json:"note,omitempty"`
}

// Order defines the persisted order document.
type Order struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID         *primitive.ObjectID `bson:"userId" json:"userId"`
	Items          []OrderItem         `bson:"items" json:"items"`
	TotalPrice     float64             `bson:"totalPrice" json:"totalPrice"`
	Address        OrderAddress        `bson:"address" json:"address"`
	Status         string              `bson:"status" json:"status"`
	PaymentRef     string              `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`
	TrackingNumber string              `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Paid reports whether a gateway charge has been initiated for the order.
func (o Order) Paid() bool {
	return o.PaymentRef != ""
}

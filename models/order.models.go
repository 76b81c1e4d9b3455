package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusFailed    OrderStatus = "failed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderItem is a purchased line item.
type OrderItem struct {
	Name     string  `bson:"name" json:"name"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
	Image    string  `bson:"image" json:"image"`
}

// Order represents a user's order
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Products        []OrderItem        `bson:"products" json:"products"`
	TotalPrice      float64            `bson:"total_price" json:"total_price"`
	ShippingAddress Address            `bson:"shipping_address" json:"shipping_address"`
	PaymentMethod   string             `bson:"payment_method" json:"payment_method"`
	Status          OrderStatus        `bson:"status" json:"status"`
	TxnRef          string             `bson:"txn_ref,omitempty" json:"txn_ref,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// NextPaymentStatus applies the payment outcome transition rule: a pending
// order becomes paid on success or failed otherwise. Paid and failed are
// terminal for the payment path, so any other current status yields no
// transition. Duplicate callback deliveries therefore no-op after the first.
func NextPaymentStatus(current OrderStatus, success bool) (OrderStatus, bool) {
	if current != StatusPending {
		return current, false
	}
	if success {
		return StatusPaid, true
	}
	return StatusFailed, true
}

// CanSetStatus gates the administrative transition path (fulfillment and
// cancellation). It never allows an order back to pending.
func CanSetStatus(current, next OrderStatus) bool {
	if !ValidStatus(next) {
		return false
	}
	if next == StatusPending && current != StatusPending {
		return false
	}
	return true
}

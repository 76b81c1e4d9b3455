package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address represents a delivery address saved on a user's profile
type Address struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	MobileNo   string             `bson:"mobile_no" json:"mobile_no"`
	HouseNo    string             `bson:"house_no" json:"house_no"`
	Street     string             `bson:"street" json:"street"`
	Landmark   string             `bson:"landmark" json:"landmark"`
	City       string             `bson:"city" json:"city"`
	Country    string             `bson:"country" json:"country"`
	PostalCode string             `bson:"postal_code" json:"postal_code"`
}

// User represents a user in the system
type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string               `bson:"name" json:"name"`
	Email             string               `bson:"email" json:"email"`
	Password          string               `bson:"password,omitempty" json:"-"`
	Role              string               `bson:"role" json:"role"` // "user" or "admin"
	Verified          bool                 `bson:"verified" json:"verified"`
	VerificationToken string               `bson:"verification_token,omitempty" json:"-"`
	Addresses         []Address            `bson:"addresses" json:"addresses"`
	Orders            []primitive.ObjectID `bson:"orders" json:"orders"`
	Products          []primitive.ObjectID `bson:"products" json:"products"`
	CreatedAt         time.Time            `bson:"created_at" json:"created_at"`
}

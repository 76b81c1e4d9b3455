package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog item listed by a user
type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProductID      string             `bson:"product_id" json:"product_id"` // external uuid
	Title          string             `bson:"title" json:"title"`
	Offer          string             `bson:"offer,omitempty" json:"offer,omitempty"`
	OldPrice       float64            `bson:"old_price,omitempty" json:"old_price,omitempty"`
	Price          float64            `bson:"price" json:"price"`
	Image          string             `bson:"image" json:"image"`
	CarouselImages []string           `bson:"carousel_images" json:"carousel_images"`
	Color          string             `bson:"color,omitempty" json:"color,omitempty"`
	Size           string             `bson:"size,omitempty" json:"size,omitempty"`
	Category       string             `bson:"category" json:"category"`
	TrendingDeal   string             `bson:"trending_deal" json:"trending_deal"` // "yes" or "no"
	TodayDeal      string             `bson:"today_deal" json:"today_deal"`       // "yes" or "no"
	ImageIDs       []string           `bson:"image_ids,omitempty" json:"image_ids,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

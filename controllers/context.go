package controllers

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hl-ecommerce/middleware"
	"hl-ecommerce/models"
	"hl-ecommerce/utils"
)

var errNoAuthContext = errors.New("no authenticated user in request context")

// findUserFromContext loads the authenticated user identified by the JWT
// claims attached by the auth middleware.
func findUserFromContext(ctx context.Context, users *mongo.Collection, r *http.Request) (*models.User, error) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		return nil, errNoAuthContext
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hl-ecommerce/models"
	"hl-ecommerce/utils"
)

// OrderController handles order-related requests
type OrderController struct {
	Orders       *mongo.Collection
	Users        *mongo.Collection
	EmailService *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, emailService *utils.EmailService) *OrderController {
	db := client.Database("ecommerce")
	return &OrderController{
		Orders:       db.Collection("orders"),
		Users:        db.Collection("users"),
		EmailService: emailService,
	}
}

// CreateOrder creates a new pending order for the authenticated user
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CartItems []struct {
			Title    string  `json:"title"`
			Quantity int     `json:"quantity"`
			Price    float64 `json:"price"`
			Image    string  `json:"image"`
		} `json:"cartItems"`
		TotalPrice      float64        `json:"totalPrice"`
		ShippingAddress models.Address `json:"shippingAddress"`
		PaymentMethod   string         `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(input.CartItems) == 0 {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}
	if input.TotalPrice <= 0 {
		http.Error(w, "Invalid total price", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	user, err := findUserFromContext(ctx, oc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	products := make([]models.OrderItem, 0, len(input.CartItems))
	for _, item := range input.CartItems {
		products = append(products, models.OrderItem{
			Name:     item.Title,
			Quantity: item.Quantity,
			Price:    item.Price,
			Image:    item.Image,
		})
	}

	// Orders always start pending; payment confirmation moves them on.
	order := models.Order{
		UserID:          user.ID,
		Products:        products,
		TotalPrice:      input.TotalPrice,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	result, err := oc.Orders.InsertOne(ctx, order)
	if err != nil {
		http.Error(w, "Failed to create order", http.StatusInternalServerError)
		return
	}
	order.ID = result.InsertedID.(primitive.ObjectID)

	// Link the order to the user. If the link fails the freshly inserted
	// order would be orphaned, so roll it back.
	_, err = oc.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$push": bson.M{"orders": order.ID},
	})
	if err != nil {
		if _, delErr := oc.Orders.DeleteOne(ctx, bson.M{"_id": order.ID}); delErr != nil {
			utils.Logger().Error("orphan order left after failed user link",
				"order_id", order.ID.Hex(), "error", delErr)
		}
		http.Error(w, "Failed to create order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Order created successfully!",
		"order":   order,
	})
}

// GetOrders retrieves all orders for the authenticated user
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	user, err := findUserFromContext(ctx, oc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	orders, err := oc.findOrders(ctx, bson.M{"user_id": user.ID})
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		http.Error(w, "No orders found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"orders":  orders,
	})
}

// GetAllOrders retrieves every other user's orders
func (oc *OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	user, err := findUserFromContext(ctx, oc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	orders, err := oc.findOrders(ctx, bson.M{"user_id": bson.M{"$ne": user.ID}})
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		http.Error(w, "No orders found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"orders":  orders,
	})
}

func (oc *OrderController) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := oc.Orders.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, cursor.Err()
}

// DeleteOrder removes an order by id
func (oc *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var order models.Order
	if err := oc.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	if _, err := oc.Orders.DeleteOne(ctx, bson.M{"_id": orderID}); err != nil {
		http.Error(w, "Failed to delete order", http.StatusInternalServerError)
		return
	}

	// Drop the back-reference from the owning user as well.
	_, err = oc.Users.UpdateOne(ctx, bson.M{"_id": order.UserID}, bson.M{
		"$pull": bson.M{"orders": orderID},
	})
	if err != nil {
		utils.Logger().Error("failed to unlink deleted order from user",
			"order_id", orderID.Hex(), "user_id", order.UserID.Hex(), "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Order deleted successfully",
	})
}

// UpdateOrderStatus is the administrative transition path for fulfillment
// progression and cancellation. It never moves an order back to pending.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var input struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var order models.Order
	if err := oc.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	if !models.CanSetStatus(order.Status, input.Status) {
		http.Error(w, "Invalid status transition", http.StatusBadRequest)
		return
	}

	// Conditioned on the status we just read so a concurrent payment
	// callback cannot be overwritten unnoticed.
	result, err := oc.Orders.UpdateOne(ctx,
		bson.M{"_id": orderID, "status": order.Status},
		bson.M{"$set": bson.M{"status": input.Status}},
	)
	if err != nil {
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Order status changed concurrently, retry", http.StatusConflict)
		return
	}
	order.Status = input.Status

	// Notify the order's owner about the new status.
	var user models.User
	if err := oc.Users.FindOne(ctx, bson.M{"_id": order.UserID}).Decode(&user); err == nil {
		go func(email, name string, status models.OrderStatus) {
			subject := "Order Status Updated"
			content := fmt.Sprintf("Dear %s,<br><br>Your order (ID: %s) status has been updated to <strong>%s</strong>.<br><br>Thank you for shopping with us!", name, orderID.Hex(), status)
			if err := oc.EmailService.SendEmail(email, subject, content); err != nil {
				utils.Logger().Error("failed to send status update email", "email", email, "error", err)
			}
		}(user.Email, user.Name, input.Status)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Order status updated successfully",
		"order":   order,
	})
}

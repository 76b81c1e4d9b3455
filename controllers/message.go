package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hl-ecommerce/models"
)

// MessageController handles direct messages between users
type MessageController struct {
	Messages *mongo.Collection
	Users    *mongo.Collection
}

// NewMessageController creates a new MessageController
func NewMessageController(client *mongo.Client) *MessageController {
	db := client.Database("ecommerce")
	return &MessageController{
		Messages: db.Collection("messages"),
		Users:    db.Collection("users"),
	}
}

// SendMessage stores a message from the authenticated user to the receiver
// named in the path
func (mc *MessageController) SendMessage(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	receiverID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid receiver ID", http.StatusBadRequest)
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Text == "" {
		http.Error(w, "Message text required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sender, err := findUserFromContext(ctx, mc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	message := models.Message{
		SenderID:   sender.ID,
		ReceiverID: receiverID,
		SenderName: sender.Name,
		Text:       input.Text,
		CreatedAt:  time.Now().UTC(),
	}

	result, err := mc.Messages.InsertOne(ctx, message)
	if err != nil {
		http.Error(w, "Failed to send message", http.StatusInternalServerError)
		return
	}
	message.ID = result.InsertedID.(primitive.ObjectID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(message)
}

// GetAllMessages returns every message received by the authenticated user
func (mc *MessageController) GetAllMessages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	user, err := findUserFromContext(ctx, mc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	messages, err := mc.findMessages(ctx, bson.M{"receiver_id": user.ID})
	if err != nil {
		http.Error(w, "Chat not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// GetMessages returns the conversation between the authenticated user and
// the user named in the path, oldest first
func (mc *MessageController) GetMessages(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	otherID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	user, err := findUserFromContext(ctx, mc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": otherID, "receiver_id": user.ID},
		bson.M{"sender_id": user.ID, "receiver_id": otherID},
	}}
	messages, err := mc.findMessages(ctx, filter)
	if err != nil {
		http.Error(w, "Chat not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

func (mc *MessageController) findMessages(ctx context.Context, filter bson.M) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := mc.Messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	for cursor.Next(ctx) {
		var message models.Message
		if err := cursor.Decode(&message); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, cursor.Err()
}

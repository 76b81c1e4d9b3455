package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"hl-ecommerce/models"
	"hl-ecommerce/utils"
)

var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UserController handles user-related requests
type UserController struct {
	Users            *mongo.Collection
	Orders           *mongo.Collection
	EmailService     *utils.EmailService
	CookieExpireDays int
}

// NewUserController creates a new UserController with EmailService
func NewUserController(client *mongo.Client, emailService *utils.EmailService, cookieExpireDays int) *UserController {
	db := client.Database("ecommerce")
	return &UserController{
		Users:            db.Collection("users"),
		Orders:           db.Collection("orders"),
		EmailService:     emailService,
		CookieExpireDays: cookieExpireDays,
	}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		http.Error(w, "All fields required", http.StatusBadRequest)
		return
	}
	if !emailRegex.MatchString(input.Email) {
		http.Error(w, "Invalid email format", http.StatusBadRequest)
		return
	}
	if len(input.Password) < 6 || len(input.Password) > 32 {
		http.Error(w, "Password must be between 6 and 32 characters", http.StatusBadRequest)
		return
	}

	// Only a verified account claims an email permanently
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	count, err := uc.Users.CountDocuments(ctx, bson.M{"email": input.Email, "verified": true})
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "Email is already used", http.StatusBadRequest)
		return
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	code := utils.GenerateCode()
	user := models.User{
		Name:              input.Name,
		Email:             input.Email,
		Password:          string(hashedPassword),
		Role:              "user",
		Verified:          false,
		VerificationToken: code,
		Addresses:         []models.Address{},
		Orders:            []primitive.ObjectID{},
		Products:          []primitive.ObjectID{},
		CreatedAt:         time.Now().UTC(),
	}

	_, err = uc.Users.InsertOne(ctx, user)
	if err != nil {
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	// Send verification email
	err = uc.EmailService.SendVerificationCode(user.Email, code)
	if err != nil {
		http.Error(w, "Error sending verification email", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "User registered successfully. Please check your email for verification.",
	})
}

// VerifyEmail handles verification-code submission and logs the user in
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Code == "" {
		http.Error(w, "Verification code missing", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err := uc.Users.FindOne(ctx, bson.M{"verification_token": input.Code}).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid verification token", http.StatusBadRequest)
		return
	}

	_, err = uc.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set":   bson.M{"verified": true},
		"$unset": bson.M{"verification_token": ""},
	})
	if err != nil {
		http.Error(w, "Error updating user verification status", http.StatusInternalServerError)
		return
	}

	uc.sendToken(w, &user, "Email verified successfully.")
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		http.Error(w, "All fields required", http.StatusBadRequest)
		return
	}
	if !emailRegex.MatchString(creds.Email) {
		http.Error(w, "Invalid email format", http.StatusBadRequest)
		return
	}

	// Only verified users can log in
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err = uc.Users.FindOne(ctx, bson.M{"email": creds.Email, "verified": true}).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid credentials or email not verified", http.StatusUnauthorized)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password))
	if err != nil {
		http.Error(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	uc.sendToken(w, &user, "User logged in successfully.")
}

// sendToken issues a JWT, sets it as a cookie and echoes it in the body.
func (uc *UserController) sendToken(w http.ResponseWriter, user *models.User, message string) {
	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}
	utils.SetTokenCookie(w, token, uc.CookieExpireDays)

	user.Password = ""
	user.VerificationToken = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"user":    user,
		"message": message,
		"token":   token,
	})
}

// Logout expires the session cookie
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	utils.ClearTokenCookie(w)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Logout Successfully",
	})
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	user, err := findUserFromContext(ctx, uc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	user.Password = ""
	user.VerificationToken = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// Forgot starts a password reset by emailing a fresh verification code
func (uc *UserController) Forgot(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" {
		http.Error(w, "Email required", http.StatusBadRequest)
		return
	}
	if !emailRegex.MatchString(input.Email) {
		http.Error(w, "Invalid email format", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err := uc.Users.FindOne(ctx, bson.M{"email": input.Email, "verified": true}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusBadRequest)
		return
	}

	code := utils.GenerateCode()
	_, err = uc.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"verification_token": code},
	})
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	if err := uc.EmailService.SendVerificationCode(user.Email, code); err != nil {
		http.Error(w, "Error sending verification email", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Please check your email for verification.",
	})
}

// VerifyForgot confirms a password-reset code without consuming it
func (uc *UserController) VerifyForgot(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Code == "" {
		http.Error(w, "Verification code missing", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err := uc.Users.FindOne(ctx, bson.M{"verification_token": input.Code}).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid verification token", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Email verified successfully"})
}

// NewPassword sets a new password for the user holding the reset code
func (uc *UserController) NewPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Code == "" || input.Password == "" {
		http.Error(w, "Code and password required", http.StatusBadRequest)
		return
	}
	if len(input.Password) < 6 || len(input.Password) > 32 {
		http.Error(w, "Password must be between 6 and 32 characters", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err := uc.Users.FindOne(ctx, bson.M{"verification_token": input.Code}).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid verification token", http.StatusBadRequest)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	_, err = uc.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set":   bson.M{"password": string(hashedPassword)},
		"$unset": bson.M{"verification_token": ""},
	})
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Password changed successfully"})
}

// AddAddress appends a delivery address to the user's profile
func (uc *UserController) AddAddress(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Address models.Address `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	user, err := findUserFromContext(ctx, uc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	input.Address.ID = primitive.NewObjectID()
	_, err = uc.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$push": bson.M{"addresses": input.Address},
	})
	if err != nil {
		http.Error(w, "Error adding address", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"message":   "Address added successfully",
		"addresses": append(user.Addresses, input.Address),
	})
}

// GetAddresses lists the user's saved addresses
func (uc *UserController) GetAddresses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	user, err := findUserFromContext(ctx, uc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"message":   "Addresses fetched successfully",
		"addresses": user.Addresses,
	})
}

// DeleteAddress removes a saved address by id
func (uc *UserController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	addressID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid address ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	user, err := findUserFromContext(ctx, uc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	_, err = uc.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$pull": bson.M{"addresses": bson.M{"_id": addressID}},
	})
	if err != nil {
		http.Error(w, "Error deleting address", http.StatusInternalServerError)
		return
	}

	var updated models.User
	if err := uc.Users.FindOne(ctx, bson.M{"_id": user.ID}).Decode(&updated); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"message":   "Address deleted successfully",
		"addresses": updated.Addresses,
	})
}

// GetUsers lists every user except the caller, for the chat contact list
func (uc *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	user, err := findUserFromContext(ctx, uc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	cursor, err := uc.Users.Find(ctx, bson.M{"_id": bson.M{"$ne": user.ID}})
	if err != nil {
		http.Error(w, "Error fetching users", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			http.Error(w, "Error decoding user", http.StatusInternalServerError)
			return
		}
		u.Password = ""
		u.VerificationToken = ""
		users = append(users, u)
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Cursor error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"users":   users,
	})
}

// DeleteUserWithOrders removes a user together with all of their orders
func (uc *UserController) DeleteUserWithOrders(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var user models.User
	err = uc.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	// Orders first, then the user; a retried request re-runs both safely.
	if _, err := uc.Orders.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		http.Error(w, "Failed to delete user orders", http.StatusInternalServerError)
		return
	}
	if _, err := uc.Users.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "User and all orders deleted successfully",
	})
}

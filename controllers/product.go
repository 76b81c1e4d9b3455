package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"hl-ecommerce/models"
)

const (
	productUploadDir = "uploads/products"
	maxImageSize     = 5 << 20 // 5MB
)

// ProductController handles product-related requests
type ProductController struct {
	Products   *mongo.Collection
	Users      *mongo.Collection
	AppBaseURL string
}

// NewProductController creates a new ProductController
func NewProductController(client *mongo.Client, appBaseURL string) *ProductController {
	db := client.Database("ecommerce")
	return &ProductController{
		Products:   db.Collection("products"),
		Users:      db.Collection("users"),
		AppBaseURL: appBaseURL,
	}
}

// UploadImage stores a product image on disk and returns its public URL
func (pc *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		http.Error(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		http.Error(w, "Unsupported image format", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(productUploadDir, os.ModePerm); err != nil {
		http.Error(w, "Failed to create upload directory", http.StatusInternalServerError)
		return
	}

	imageID := uuid.NewString()
	filename := imageID + ext
	dst, err := os.Create(filepath.Join(productUploadDir, filename))
	if err != nil {
		http.Error(w, "Failed to create file on server", http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"message":  "Image uploaded successfully",
		"imageUrl": fmt.Sprintf("%s/uploads/products/%s", pc.AppBaseURL, filename),
		"publicId": imageID,
	})
}

// DeleteImage removes a previously uploaded image by its public id
func (pc *ProductController) DeleteImage(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	publicID := params["publicId"]
	if publicID == "" {
		http.Error(w, "Public ID is required", http.StatusBadRequest)
		return
	}

	if err := removeImageByID(publicID); err != nil {
		http.Error(w, "Failed to delete image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Image deleted successfully",
	})
}

// removeImageByID deletes the stored file matching the image id regardless of
// extension. Missing files are not an error so deletes stay idempotent.
func removeImageByID(publicID string) error {
	matches, err := filepath.Glob(filepath.Join(productUploadDir, publicID+".*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// imageIDFromURL extracts the uuid public id from an upload URL.
func imageIDFromURL(url string) string {
	base := filepath.Base(url)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// AddProduct creates a product owned by the authenticated user
func (pc *ProductController) AddProduct(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title          string   `json:"title"`
		Offer          string   `json:"offer"`
		OldPrice       float64  `json:"oldPrice"`
		Price          float64  `json:"price"`
		CarouselImages []string `json:"carouselImages"`
		Color          string   `json:"color"`
		Size           string   `json:"size"`
		TrendingDeal   string   `json:"trendingDeal"`
		TodayDeal      string   `json:"todayDeal"`
		Category       string   `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if input.Title == "" || input.Price == 0 || input.Category == "" {
		http.Error(w, "Title, price, and category are required fields", http.StatusBadRequest)
		return
	}
	if len(input.CarouselImages) == 0 {
		http.Error(w, "At least one product image is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	user, err := findUserFromContext(ctx, pc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	imageIDs := make([]string, 0, len(input.CarouselImages))
	for _, url := range input.CarouselImages {
		imageIDs = append(imageIDs, imageIDFromURL(url))
	}

	if input.TrendingDeal == "" {
		input.TrendingDeal = "no"
	}
	if input.TodayDeal == "" {
		input.TodayDeal = "no"
	}

	product := models.Product{
		UserID:         user.ID,
		ProductID:      uuid.NewString(),
		Title:          input.Title,
		Offer:          input.Offer,
		OldPrice:       input.OldPrice,
		Price:          input.Price,
		Image:          input.CarouselImages[0],
		CarouselImages: input.CarouselImages,
		Color:          input.Color,
		Size:           input.Size,
		Category:       input.Category,
		TrendingDeal:   input.TrendingDeal,
		TodayDeal:      input.TodayDeal,
		ImageIDs:       imageIDs,
		CreatedAt:      time.Now().UTC(),
	}

	result, err := pc.Products.InsertOne(ctx, product)
	if err != nil {
		http.Error(w, "Error creating product", http.StatusInternalServerError)
		return
	}
	product.ID = result.InsertedID.(primitive.ObjectID)

	_, err = pc.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$push": bson.M{"products": product.ID},
	})
	if err != nil {
		http.Error(w, "Error linking product to user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Product added successfully",
		"product": product,
	})
}

// GetProducts retrieves all products, newest first
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := pc.Products.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			http.Error(w, "Error reading products", http.StatusInternalServerError)
			return
		}
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"products": products,
	})
}

// GetUserProducts retrieves the products listed by the authenticated user
func (pc *ProductController) GetUserProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	user, err := findUserFromContext(ctx, pc.Users, r)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	cursor, err := pc.Products.Find(ctx, bson.M{"user_id": user.ID})
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			http.Error(w, "Error reading products", http.StatusInternalServerError)
			return
		}
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"products": products,
	})
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var product models.Product
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = pc.Products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"product": product,
	})
}

// UpdateProduct handles updating a product, cleaning up images dropped from
// the carousel
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var input map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var product models.Product
	if err := pc.Products.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	update := bson.M{}
	for k, v := range input {
		switch k {
		case "title", "offer", "color", "size", "category", "trendingDeal", "todayDeal", "price", "oldPrice":
			update[fieldName(k)] = v
		}
	}

	if raw, ok := input["carouselImages"].([]interface{}); ok {
		urls := make([]string, 0, len(raw))
		newIDs := make([]string, 0, len(raw))
		for _, u := range raw {
			if s, ok := u.(string); ok {
				urls = append(urls, s)
				newIDs = append(newIDs, imageIDFromURL(s))
			}
		}

		// Delete images removed from the carousel, in parallel.
		removed := []string{}
		for _, oldID := range product.ImageIDs {
			keep := false
			for _, newID := range newIDs {
				if oldID == newID {
					keep = true
					break
				}
			}
			if !keep {
				removed = append(removed, oldID)
			}
		}
		if len(removed) > 0 {
			g := new(errgroup.Group)
			for _, imageID := range removed {
				g.Go(func() error { return removeImageByID(imageID) })
			}
			if err := g.Wait(); err != nil {
				http.Error(w, "Error deleting removed images", http.StatusInternalServerError)
				return
			}
		}

		update["carousel_images"] = urls
		update["image_ids"] = newIDs
		if len(urls) > 0 {
			update["image"] = urls[0]
		}
	}

	if len(update) == 0 {
		http.Error(w, "No updatable fields provided", http.StatusBadRequest)
		return
	}

	var updated models.Product
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = pc.Products.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update}, opts).Decode(&updated)
	if err != nil {
		http.Error(w, "Error updating product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Product updated successfully",
		"product": updated,
	})
}

// DeleteProduct removes a product and all of its stored images
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var product models.Product
	if err := pc.Products.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	// Image deletions are independent of each other, run them concurrently.
	if len(product.ImageIDs) > 0 {
		g := new(errgroup.Group)
		for _, imageID := range product.ImageIDs {
			g.Go(func() error { return removeImageByID(imageID) })
		}
		if err := g.Wait(); err != nil {
			http.Error(w, "Error deleting product images", http.StatusInternalServerError)
			return
		}
	}

	if _, err := pc.Products.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		http.Error(w, "Error deleting product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Product and all associated images deleted successfully",
	})
}

// fieldName maps request JSON keys onto bson field names.
func fieldName(jsonKey string) string {
	switch jsonKey {
	case "oldPrice":
		return "old_price"
	case "trendingDeal":
		return "trending_deal"
	case "todayDeal":
		return "today_deal"
	default:
		return jsonKey
	}
}

// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"hl-ecommerce/automation"
	"hl-ecommerce/config"
	"hl-ecommerce/controllers"
	"hl-ecommerce/routes"
	"hl-ecommerce/utils"
)

func main() {
	// Load and validate configuration; missing merchant credentials or
	// secrets abort startup instead of signing with empty values.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := utils.InitLogger("hl-ecommerce", cfg.LogFile)

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	// Initialize EmailService
	emailService := utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender)

	// Connect to MongoDB
	client := utils.ConnectDB(cfg.MongoURI)
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Start the unverified-account sweeper
	sweeper := automation.RemoveUnverifiedAccounts(client)
	defer sweeper.Stop()

	// Initialize controllers
	userController := controllers.NewUserController(client, emailService, cfg.CookieExpireDays)
	productController := controllers.NewProductController(client, cfg.AppBaseURL)
	orderController := controllers.NewOrderController(client, emailService)
	messageController := controllers.NewMessageController(client)
	paymentController := controllers.NewPaymentController(client, cfg.JazzCash)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, orderController, messageController, paymentController)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	// Start the server
	logger.Info("server starting", "port", cfg.Port)
	fmt.Printf("Server is running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, cors(router)))
}

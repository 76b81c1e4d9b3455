// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"hl-ecommerce/controllers"
	"hl-ecommerce/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	userController *controllers.UserController,
	productController *controllers.ProductController,
	orderController *controllers.OrderController,
	messageController *controllers.MessageController,
	paymentController *controllers.PaymentController,
) {
	// User routes
	user := router.PathPrefix("/api/user").Subrouter()
	user.HandleFunc("/register", userController.Register).Methods("POST")
	user.HandleFunc("/verifyEmail", userController.VerifyEmail).Methods("POST")
	user.HandleFunc("/login", userController.Login).Methods("POST")
	user.HandleFunc("/forgot", userController.Forgot).Methods("POST")
	user.HandleFunc("/verify", userController.VerifyForgot).Methods("POST")
	user.HandleFunc("/newpassword", userController.NewPassword).Methods("POST")

	userProtected := router.PathPrefix("/api/user").Subrouter()
	userProtected.Use(middleware.AuthMiddleware)
	userProtected.HandleFunc("/me", userController.GetProfile).Methods("GET")
	userProtected.HandleFunc("/logout", userController.Logout).Methods("GET")
	userProtected.HandleFunc("/addresses", userController.AddAddress).Methods("POST")
	userProtected.HandleFunc("/getAddresses", userController.GetAddresses).Methods("GET")
	userProtected.HandleFunc("/getUsers", userController.GetUsers).Methods("GET")
	userProtected.HandleFunc("/address/{id}", userController.DeleteAddress).Methods("DELETE")

	// Admin routes
	admin := router.PathPrefix("/api/user").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/users/{id}", userController.DeleteUserWithOrders).Methods("DELETE")

	// Product routes
	product := router.PathPrefix("/api/product").Subrouter()
	product.HandleFunc("/all", productController.GetProducts).Methods("GET")

	productProtected := router.PathPrefix("/api/product").Subrouter()
	productProtected.Use(middleware.AuthMiddleware)
	productProtected.HandleFunc("/upload-image", productController.UploadImage).Methods("POST")
	productProtected.HandleFunc("/delete-image/{publicId}", productController.DeleteImage).Methods("DELETE")
	productProtected.HandleFunc("/add", productController.AddProduct).Methods("POST")
	productProtected.HandleFunc("/mine", productController.GetUserProducts).Methods("GET")
	productProtected.HandleFunc("/{id}", productController.UpdateProduct).Methods("PUT")
	productProtected.HandleFunc("/{id}", productController.DeleteProduct).Methods("DELETE")
	product.HandleFunc("/{id}", productController.GetProductByID).Methods("GET")

	// Order routes
	order := router.PathPrefix("/api/order").Subrouter()
	order.Use(middleware.AuthMiddleware)
	order.HandleFunc("/orders", orderController.CreateOrder).Methods("POST")
	order.HandleFunc("/getOrders", orderController.GetOrders).Methods("GET")
	order.HandleFunc("/AllOrders", orderController.GetAllOrders).Methods("GET")
	order.HandleFunc("/order/{id}", orderController.DeleteOrder).Methods("DELETE")
	order.HandleFunc("/order/{id}", orderController.UpdateOrderStatus).Methods("PUT")

	// Message routes
	message := router.PathPrefix("/api/message").Subrouter()
	message.Use(middleware.AuthMiddleware)
	message.HandleFunc("/allMessages", messageController.GetAllMessages).Methods("GET")
	message.HandleFunc("/send/{id}", messageController.SendMessage).Methods("POST")
	message.HandleFunc("/{id}", messageController.GetMessages).Methods("GET")

	// Payment routes: the callback is posted by the gateway, not a user,
	// so neither endpoint sits behind auth.
	router.HandleFunc("/api/payment/jazzcash/initiate", paymentController.Initiate).Methods("POST")
	router.HandleFunc("/api/payment/jazzcash/response", paymentController.Callback).Methods("POST")

	// Uploaded images
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("uploads"))))
}

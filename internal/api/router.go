package api

import (
	"net/http"

	"growshare/internal/api/middleware"
	"growshare/internal/modules/admin"
	"growshare/internal/modules/advisor"
	"growshare/internal/modules/chat"
	"growshare/internal/modules/farmers"
	"growshare/internal/modules/growth"
	"growshare/internal/modules/listings"
	"growshare/internal/modules/orders"
	"growshare/internal/modules/payments"
	"growshare/internal/modules/users"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	userHandler *users.Handler,
	farmerHandler *farmers.Handler,
	listingHandler *listings.Handler,
	orderHandler *orders.Handler,
	paymentHandler *payments.Handler,
	growthHandler *growth.Handler,
	chatHandler *chat.Handler,
	advisorHandler *advisor.Handler,
	adminHandler *admin.Handler,
	jwtSecret string,
) {
	// Initialize the JWT authentication middleware
	authMiddleware := middleware.JWTAuth(jwtSecret)
	farmerRequired := middleware.FarmerRequired()
	adminRequired := middleware.AdminRequired()

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to GrowShare!"})
	})

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", userHandler.Signup)
		authGroup.POST("/login", userHandler.Login)
		authGroup.POST("/reset-password/request", userHandler.RequestPasswordReset)
		authGroup.POST("/reset-password", userHandler.ResetPassword)
		authGroup.GET("/google/login", userHandler.GoogleLogin)
		authGroup.GET("/google/callback", userHandler.GoogleCallback)
	}

	// Approved farmers and their active listings are browsable without a login.
	e.GET("/farmers", farmerHandler.ListVisibleFarmers)
	e.GET("/farmers/:farmerId", farmerHandler.GetFarmer)
	e.GET("/listings", listingHandler.BrowseListings)
	e.GET("/listings/:listingId", listingHandler.GetListing)

	// --- Profile Routes ---
	profileGroup := e.Group("/profile", authMiddleware)
	{
		profileGroup.GET("", userHandler.GetProfile)
		profileGroup.PUT("", userHandler.UpdateProfile)
	}

	// --- Farmer Self-Service Routes ---
	farmerGroup := e.Group("/farmer", authMiddleware, farmerRequired)
	{
		farmerGroup.GET("/profile", farmerHandler.GetMyProfile)
		farmerGroup.PUT("/profile", farmerHandler.UpdateMyProfile)

		farmerGroup.POST("/listings", listingHandler.CreateListing)
		farmerGroup.GET("/listings", listingHandler.ListMyListings)
		farmerGroup.PUT("/listings/:listingId", listingHandler.UpdateListing)
		farmerGroup.DELETE("/listings/:listingId", listingHandler.DeleteListing)

		farmerGroup.GET("/orders", orderHandler.ListFarmerOrders)
		farmerGroup.PUT("/orders/:orderId/accept", orderHandler.AcceptOrder)
		farmerGroup.PUT("/orders/:orderId/reject", orderHandler.RejectOrder)
		farmerGroup.PUT("/orders/:orderId/advance", orderHandler.AdvanceStatus)
		farmerGroup.POST("/orders/:orderId/growth", growthHandler.AppendUpdate)
	}

	// --- Order Routes (consumer side) ---
	orderGroup := e.Group("/orders", authMiddleware)
	{
		orderGroup.POST("", orderHandler.PlaceOrder)
		orderGroup.GET("", orderHandler.ListMyOrders)
		orderGroup.GET("/:orderId", orderHandler.GetOrderDetails)
		orderGroup.PUT("/:orderId/cancel", orderHandler.CancelOrder)
		orderGroup.GET("/:orderId/growth", growthHandler.ListUpdates)
		orderGroup.GET("/:orderId/payments", paymentHandler.ListOrderPayments)
	}

	e.GET("/payments", paymentHandler.ListMyPayments, authMiddleware)

	// --- Support Chat Routes ---
	chatGroup := e.Group("/chat", authMiddleware)
	{
		// Farmers post into and read their own thread; admins address a
		// farmer's thread by ID.
		chatGroup.POST("/messages", chatHandler.SendMessage)
		chatGroup.GET("/messages", chatHandler.ListThread)
		chatGroup.POST("/:farmerId/messages", chatHandler.SendMessage)
		chatGroup.GET("/:farmerId/messages", chatHandler.ListThread)
	}
	e.GET("/ws/chat", chatHandler.Stream, authMiddleware)

	// --- AI Advisory Route ---
	e.POST("/advisor/chat", advisorHandler.Chat, authMiddleware)

	// --- Admin Routes ---
	adminGroup := e.Group("/admin", authMiddleware, adminRequired)
	{
		adminGroup.GET("/stats", adminHandler.GetPlatformStats)
		adminGroup.GET("/users", adminHandler.ListUsers)
		adminGroup.GET("/farmers/pending", farmerHandler.ListPendingFarmers)
		adminGroup.PUT("/farmers/:farmerId/review", farmerHandler.ReviewFarmer)
		adminGroup.GET("/orders", orderHandler.ListAllOrders)
		adminGroup.GET("/chat/conversations", chatHandler.ListConversations)
	}
}
